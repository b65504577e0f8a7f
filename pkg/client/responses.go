package client

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MatchOfTheDay describes a featured custom match.
type MatchOfTheDay struct {
	Description   string           `json:"description"`
	GameMode      string           `json:"gameMode"`
	MaxPlayers    Optional[int]    `json:"maxPlayers"`
	Name          string           `json:"name"`
	StartDateTime Timestamp        `json:"startDateTime"`
	Team1GodsCSV  Optional[string] `json:"team1GodsCSV"`
	Team2GodsCSV  Optional[string] `json:"team2GodsCSV"`
	Title         string           `json:"title"`
	RetMsg        Optional[string] `json:"ret_msg"`
}

var motdListItem = regexp.MustCompile(`(?s)(?:<li>)?(.*?)</?li>`)

// SeparateDescription splits a description formatted as an HTML list into
// its items. Descriptions without list markup are returned whole.
func (m *MatchOfTheDay) SeparateDescription() []string {
	if !strings.Contains(m.Description, "<li>") {
		return []string{m.Description}
	}

	var items []string
	for _, match := range motdListItem.FindAllStringSubmatch(m.Description, -1) {
		// Skip fragments between tags, such as "<ul>" or whitespace.
		item := strings.TrimSpace(match[1])
		if len(item) > 3 && !strings.HasPrefix(item, "<") {
			items = append(items, item)
		}
	}
	return items
}

// God is a playable character with its base stats and abilities.
type God struct {
	ID                         int                `json:"id"`
	Name                       string             `json:"Name"`
	Title                      string             `json:"Title"`
	Pantheon                   string             `json:"Pantheon"`
	Roles                      string             `json:"Roles"`
	Type                       string             `json:"Type"`
	Pros                       string             `json:"Pros"`
	Cons                       string             `json:"Cons"`
	Lore                       string             `json:"Lore"`
	LatestGod                  string             `json:"latestGod"`
	OnFreeRotation             string             `json:"OnFreeRotation"`
	AutoBanned                 string             `json:"AutoBanned"`
	Ability1                   string             `json:"Ability1"`
	Ability2                   string             `json:"Ability2"`
	Ability3                   string             `json:"Ability3"`
	Ability4                   string             `json:"Ability4"`
	Ability5                   string             `json:"Ability5"`
	AbilityID1                 int                `json:"AbilityId1"`
	AbilityID2                 int                `json:"AbilityId2"`
	AbilityID3                 int                `json:"AbilityId3"`
	AbilityID4                 int                `json:"AbilityId4"`
	AbilityID5                 int                `json:"AbilityId5"`
	AbilityDetails1            Ability            `json:"Ability_1"`
	AbilityDetails2            Ability            `json:"Ability_2"`
	AbilityDetails3            Ability            `json:"Ability_3"`
	AbilityDetails4            Ability            `json:"Ability_4"`
	AbilityDetails5            Ability            `json:"Ability_5"`
	AbilityDescription1        AbilityDescription `json:"abilityDescription1"`
	AbilityDescription2        AbilityDescription `json:"abilityDescription2"`
	AbilityDescription3        AbilityDescription `json:"abilityDescription3"`
	AbilityDescription4        AbilityDescription `json:"abilityDescription4"`
	AbilityDescription5        AbilityDescription `json:"abilityDescription5"`
	BasicAttack                BasicAttack        `json:"basicAttack"`
	AttackSpeed                float64            `json:"AttackSpeed"`
	AttackSpeedPerLevel        float64            `json:"AttackSpeedPerLevel"`
	Health                     float64            `json:"Health"`
	HealthPerFive              float64            `json:"HealthPerFive"`
	HealthPerLevel             float64            `json:"HealthPerLevel"`
	HP5PerLevel                float64            `json:"HP5PerLevel"`
	Mana                       float64            `json:"Mana"`
	ManaPerFive                float64            `json:"ManaPerFive"`
	ManaPerLevel               float64            `json:"ManaPerLevel"`
	MP5PerLevel                float64            `json:"MP5PerLevel"`
	MagicProtection            float64            `json:"MagicProtection"`
	MagicProtectionPerLevel    float64            `json:"MagicProtectionPerLevel"`
	MagicalPower               float64            `json:"MagicalPower"`
	MagicalPowerPerLevel       float64            `json:"MagicalPowerPerLevel"`
	PhysicalPower              float64            `json:"PhysicalPower"`
	PhysicalPowerPerLevel      float64            `json:"PhysicalPowerPerLevel"`
	PhysicalProtection         float64            `json:"PhysicalProtection"`
	PhysicalProtectionPerLevel float64            `json:"PhysicalProtectionPerLevel"`
	Speed                      float64            `json:"Speed"`
	GodAbility1URL             string             `json:"godAbility1_URL"`
	GodAbility2URL             string             `json:"godAbility2_URL"`
	GodAbility3URL             string             `json:"godAbility3_URL"`
	GodAbility4URL             string             `json:"godAbility4_URL"`
	GodAbility5URL             string             `json:"godAbility5_URL"`
	GodCardURL                 string             `json:"godCard_URL"`
	GodIconURL                 string             `json:"godIcon_URL"`
	RetMsg                     Optional[string]   `json:"ret_msg"`
}

// Ability is one of a god's abilities.
type Ability struct {
	ID          int         `json:"Id"`
	Summary     string      `json:"Summary"`
	URL         string      `json:"URL"`
	Description BasicAttack `json:"Description"`
}

// BasicAttack wraps an item description, as the API nests it.
type BasicAttack struct {
	ItemDescription AbilityDescription `json:"itemDescription"`
}

// AbilityDescription is the tooltip of an ability or basic attack.
type AbilityDescription struct {
	Cooldown    Optional[string] `json:"cooldown"`
	Cost        Optional[string] `json:"cost"`
	Description Optional[string] `json:"description"`
	MenuItems   []DescribedValue `json:"menuitems"`
	RankItems   []DescribedValue `json:"rankitems"`
}

// DescribedValue is a labelled tooltip line.
type DescribedValue struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// Player is a player profile returned by getplayer.
type Player struct {
	ID                         int              `json:"Id"`
	ActivePlayerID             int              `json:"ActivePlayerId"`
	Name                       string           `json:"Name"`
	HzPlayerName               string           `json:"hz_player_name"`
	HzGamerTag                 Optional[string] `json:"hz_gamer_tag"`
	AvatarURL                  string           `json:"Avatar_URL"`
	CreatedDatetime            Timestamp        `json:"Created_Datetime"`
	LastLoginDatetime          Timestamp        `json:"Last_Login_Datetime"`
	HoursPlayed                float64          `json:"HoursPlayed"`
	MinutesPlayed              int              `json:"MinutesPlayed"`
	Leaves                     int              `json:"Leaves"`
	Level                      int              `json:"Level"`
	Losses                     int              `json:"Losses"`
	Wins                       int              `json:"Wins"`
	MasteryLevel               int              `json:"MasteryLevel"`
	MergedPlayers              []MergedPlayer   `json:"MergedPlayers"`
	PersonalStatusMessage      string           `json:"Personal_Status_Message"`
	Platform                   string           `json:"Platform"`
	Region                     string           `json:"Region"`
	TeamID                     int              `json:"TeamId"`
	TeamName                   string           `json:"Team_Name"`
	TierConquest               int              `json:"Tier_Conquest"`
	TierDuel                   int              `json:"Tier_Duel"`
	TierJoust                  int              `json:"Tier_Joust"`
	TotalAchievements          int              `json:"Total_Achievements"`
	TotalWorshippers           int              `json:"Total_Worshippers"`
	RankStatConquest           Optional[int]    `json:"Rank_Stat_Conquest"`
	RankStatConquestController Optional[int]    `json:"Rank_Stat_Conquest_Controller"`
	RankStatDuel               Optional[int]    `json:"Rank_Stat_Duel"`
	RankStatDuelController     Optional[int]    `json:"Rank_Stat_Duel_Controller"`
	RankStatJoust              Optional[int]    `json:"Rank_Stat_Joust"`
	RankStatJoustController    Optional[int]    `json:"Rank_Stat_Joust_Controller"`
	RankedConquest             RankedStats      `json:"RankedConquest"`
	RankedConquestController   RankedStats      `json:"RankedConquestController"`
	RankedDuel                 RankedStats      `json:"RankedDuel"`
	RankedDuelController       RankedStats      `json:"RankedDuelController"`
	RankedJoust                RankedStats      `json:"RankedJoust"`
	RankedJoustController      RankedStats      `json:"RankedJoustController"`
	RetMsg                     Optional[string] `json:"ret_msg"`
}

// RankedStats is a player's standing in one ranked queue.
type RankedStats struct {
	Name             string           `json:"Name"`
	Leaves           int              `json:"Leaves"`
	Losses           int              `json:"Losses"`
	Wins             int              `json:"Wins"`
	Points           int              `json:"Points"`
	PrevRank         int              `json:"PrevRank"`
	Rank             int              `json:"Rank"`
	RankStat         float64          `json:"Rank_Stat"`
	RankStatConquest Optional[int]    `json:"Rank_Stat_Conquest"`
	RankStatJoust    Optional[int]    `json:"Rank_Stat_Joust"`
	RankVariance     int              `json:"Rank_Variance"`
	Round            int              `json:"Round"`
	Season           int              `json:"Season"`
	Tier             int              `json:"Tier"`
	Trend            int              `json:"Trend"`
	PlayerID         Optional[string] `json:"player_id"`
	RetMsg           Optional[string] `json:"ret_msg"`
}

// MergedPlayer links an account merged from another portal.
type MergedPlayer struct {
	PlayerID      string    `json:"playerId"`
	PortalID      string    `json:"portalId"`
	MergeDatetime Timestamp `json:"merge_datetime"`
}

// SessionInfo reports the account's API usage for the current day.
type SessionInfo struct {
	ActiveSessions     int              `json:"Active_Sessions"`
	ConcurrentSessions int              `json:"Concurrent_Sessions"`
	RequestLimitDaily  int              `json:"Request_Limit_Daily"`
	SessionCap         int              `json:"Session_Cap"`
	SessionTimeLimit   int              `json:"Session_Time_Limit"`
	TotalRequestsToday int              `json:"Total_Requests_Today"`
	TotalSessionsToday int              `json:"Total_Sessions_Today"`
	RetMsg             Optional[string] `json:"ret_msg"`
}

// ReachedSessionLimit reports whether no further sessions may be opened.
func (s *SessionInfo) ReachedSessionLimit() bool {
	return s.ActiveSessions >= s.SessionCap
}

// ReachedRequestLimit reports whether the daily request quota is used up.
func (s *SessionInfo) ReachedRequestLimit() bool {
	return s.TotalRequestsToday >= s.RequestLimitDaily
}

// MatchID is one entry of getmatchidsbyqueue.
type MatchID struct {
	ID     int
	Active bool
	RetMsg Optional[string]
}

// UnmarshalJSON decodes the API's {"Match":"123","Active_Flag":"n"} form.
func (m *MatchID) UnmarshalJSON(data []byte) error {
	var raw struct {
		Match      *string          `json:"Match"`
		ActiveFlag *string          `json:"Active_Flag"`
		RetMsg     Optional[string] `json:"ret_msg"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Match == nil {
		return fmt.Errorf("match id: missing field Match")
	}
	if raw.ActiveFlag == nil {
		return fmt.Errorf("match id: missing field Active_Flag")
	}

	id, err := strconv.Atoi(*raw.Match)
	if err != nil {
		return fmt.Errorf("match id: %q is not numeric", *raw.Match)
	}

	*m = MatchID{
		ID:     id,
		Active: *raw.ActiveFlag == "y",
		RetMsg: raw.RetMsg,
	}
	return nil
}

// PlayerGameInfo is one player's line in a match's details.
type PlayerGameInfo struct {
	Match         int              `json:"Match"`
	PlayerID      Optional[int]    `json:"playerId"`
	PlayerName    string           `json:"playerName"`
	GodID         int              `json:"GodId"`
	GodName       string           `json:"Reference_Name"`
	Queue         string           `json:"name"`
	TaskForce     int              `json:"TaskForce"`
	WinStatus     string           `json:"Win_Status"`
	Kills         int              `json:"Kills_Player"`
	Deaths        int              `json:"Deaths"`
	Assists       int              `json:"Assists"`
	DamagePlayer  int              `json:"Damage_Player"`
	DamageTaken   int              `json:"Damage_Taken"`
	GoldEarned    int              `json:"Gold_Earned"`
	Level         int              `json:"Final_Match_Level"`
	Minutes       int              `json:"Minutes"`
	MatchDuration int              `json:"Match_Duration"`
	EntryDatetime Timestamp        `json:"Entry_Datetime"`
	Region        string           `json:"Region"`
	RetMsg        Optional[string] `json:"ret_msg"`
}

// PatchInfo holds the current game version.
type PatchInfo struct {
	VersionString string           `json:"version_string"`
	RetMsg        Optional[string] `json:"ret_msg"`
}
