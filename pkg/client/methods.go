package client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

// API method names.
const (
	MethodGetMOTD              = "getmotd"
	MethodGetGods              = "getgods"
	MethodGetPlayer            = "getplayer"
	MethodGetDataUsed          = "getdataused"
	MethodGetMatchIDsByQueue   = "getmatchidsbyqueue"
	MethodGetMatchDetails      = "getmatchdetails"
	MethodGetMatchDetailsBatch = "getmatchdetailsbatch"
	MethodGetPatchInfo         = "getpatchinfo"
	MethodTestSession          = "testsession"
)

const (
	matchDateLayout      = "01-02-2006"
	allHours             = -1
	maxMatchDetailsBatch = 10
)

// Queue identifies a game queue.
type Queue int

// Known queues. Other ids can be used by conversion, e.g. Queue(451).
const (
	QueueConquest Queue = 426
	QueueMOTD     Queue = 434
	QueueArena    Queue = 435
	QueueAssault  Queue = 445
	QueueJoust    Queue = 448
)

// Language selects the language of localized fields.
type Language int

// Supported languages. The zero value means English.
const (
	LanguageEnglish             Language = 1
	LanguageGerman              Language = 2
	LanguageFrench              Language = 3
	LanguageChinese             Language = 5
	LanguageSpanish             Language = 7
	LanguageSpanishLatinAmerica Language = 9
	LanguagePortuguese          Language = 10
	LanguageRussian             Language = 11
	LanguagePolish              Language = 12
	LanguageTurkish             Language = 13
)

func (l Language) valid() bool {
	switch l {
	case LanguageEnglish, LanguageGerman, LanguageFrench, LanguageChinese, LanguageSpanish,
		LanguageSpanishLatinAmerica, LanguagePortuguese, LanguageRussian, LanguagePolish, LanguageTurkish:
		return true
	}
	return false
}

// FormatMatchDate renders t in the MM-DD-YYYY form match queries expect.
func FormatMatchDate(t time.Time) string {
	return t.Format(matchDateLayout)
}

// GetMOTDs returns the most recent Matches of the Day.
func (c *Client) GetMOTDs(ctx context.Context) ([]MatchOfTheDay, error) {
	return Invoke[[]MatchOfTheDay](ctx, c, MethodGetMOTD, true)
}

// GetGods returns all gods with names and descriptions localized to lang.
// Pass 0 for English.
func (c *Client) GetGods(ctx context.Context, lang Language) ([]God, error) {
	if lang == 0 {
		lang = LanguageEnglish
	}
	if !lang.valid() {
		return nil, &ValidationError{
			Argument: "language",
			Given:    strconv.Itoa(int(lang)),
			Expected: "one of 1, 2, 3, 5, 7, 9, 10, 11, 12, 13",
		}
	}

	arg, err := pathParam("languageCode", lang)
	if err != nil {
		return nil, err
	}
	return Invoke[[]God](ctx, c, MethodGetGods, true, arg)
}

// GetPlayer looks up a player by name. The API may return several players.
func (c *Client) GetPlayer(ctx context.Context, name string) ([]Player, error) {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		return nil, &ValidationError{
			Argument: "player name",
			Given:    name,
			Expected: "a non-empty name without '/'",
		}
	}

	arg, err := pathParam("player", name)
	if err != nil {
		return nil, err
	}
	return Invoke[[]Player](ctx, c, MethodGetPlayer, true, arg)
}

// GetDataUsed returns usage counters for the developer account.
func (c *Client) GetDataUsed(ctx context.Context) ([]SessionInfo, error) {
	return Invoke[[]SessionInfo](ctx, c, MethodGetDataUsed, true)
}

// GetMatchIDsByQueue returns the ids of matches played in queue on date
// (MM-DD-YYYY). A nil hour, or -1, selects the whole day; otherwise hour
// must be between 0 and 23.
func (c *Client) GetMatchIDsByQueue(ctx context.Context, queue Queue, date string, hour *int) ([]MatchID, error) {
	h := allHours
	if hour != nil {
		h = *hour
	}
	if h < allHours || h > 23 {
		return nil, &ValidationError{
			Argument: "hour",
			Given:    strconv.Itoa(h),
			Expected: "hour between -1 and 23",
		}
	}
	if _, err := time.Parse(matchDateLayout, date); err != nil {
		return nil, &ValidationError{
			Argument: "date",
			Given:    date,
			Expected: "a date formatted MM-DD-YYYY",
		}
	}

	args, err := pathParams(
		param{"queue", queue},
		param{"date", date},
		param{"hour", h},
	)
	if err != nil {
		return nil, err
	}
	return Invoke[[]MatchID](ctx, c, MethodGetMatchIDsByQueue, true, args...)
}

// GetMatchDetails returns one entry per player of the given match.
func (c *Client) GetMatchDetails(ctx context.Context, matchID int) ([]PlayerGameInfo, error) {
	arg, err := pathParam("matchId", matchID)
	if err != nil {
		return nil, err
	}
	return Invoke[[]PlayerGameInfo](ctx, c, MethodGetMatchDetails, true, arg)
}

// GetMatchDetailsBatch is the batch form of GetMatchDetails. The API accepts
// up to 10 match ids per call.
func (c *Client) GetMatchDetailsBatch(ctx context.Context, matchIDs ...int) ([]PlayerGameInfo, error) {
	if len(matchIDs) == 0 || len(matchIDs) > maxMatchDetailsBatch {
		return nil, &ValidationError{
			Argument: "match ids",
			Given:    strconv.Itoa(len(matchIDs)) + " ids",
			Expected: "between 1 and 10 ids",
		}
	}

	arg, err := pathParam("matchIds", matchIDs)
	if err != nil {
		return nil, err
	}
	return Invoke[[]PlayerGameInfo](ctx, c, MethodGetMatchDetailsBatch, true, arg)
}

// GetPatchInfo returns the current game version.
func (c *Client) GetPatchInfo(ctx context.Context) (*PatchInfo, error) {
	info, err := Invoke[PatchInfo](ctx, c, MethodGetPatchInfo, true)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// TestSession asks the API to validate the current session and returns its
// human-readable verdict.
func (c *Client) TestSession(ctx context.Context) (string, error) {
	return Invoke[string](ctx, c, MethodTestSession, true)
}

type param struct {
	name  string
	value any
}

// pathParam styles a value the way generated OpenAPI clients style simple
// path parameters: primitives as text, slices comma-joined, strings escaped.
func pathParam(name string, value any) (string, error) {
	return runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
}

func pathParams(params ...param) ([]string, error) {
	out := make([]string, 0, len(params))
	for _, p := range params {
		s, err := pathParam(p.name, p.value)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
