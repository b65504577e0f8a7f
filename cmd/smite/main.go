// Package main provides a CLI for the Smite API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kjanat/smite-client/pkg/client"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL     string
	devID      string
	authKey    string
	configPath string
	timeout    time.Duration
	maxRetries int
	verbose    bool
	jsonOutput bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smite",
	Short: "Smite API CLI",
	Long: `A command-line client for the Hi-Rez Smite API.

This tool allows you to:
  - Read the Matches of the Day
  - List gods and look up players
  - Find matches by queue and fetch their details
  - Check API usage and the current patch
  - Call any API method directly

Environment variables:
  SMITE_DEV_ID   - Developer id
  SMITE_AUTH_KEY - Authentication key
  SMITE_URL      - API base URL (default: https://api.smitegame.com/smiteapi.svc)
  SMITE_CONFIG   - Path to a YAML config file`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiURL, "url", "", "API base URL (or SMITE_URL env)")
	flags.StringVar(&devID, "dev-id", "", "Developer id (or SMITE_DEV_ID env)")
	flags.StringVar(&authKey, "auth-key", "", "Authentication key (or SMITE_AUTH_KEY env)")
	flags.StringVar(&configPath, "config", "", "YAML config file (or SMITE_CONFIG env)")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	flags.IntVar(&maxRetries, "retries", 0, "Retries for network failures and 5xx error pages")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log session and retry activity to stderr")
	flags.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(motdCmd)
	rootCmd.AddCommand(godsCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(matchIDsCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(dataUsedCmd)
	rootCmd.AddCommand(patchInfoCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(callCmd)
}

// newClient creates a new API client from the merged settings
func newClient(s *settings) (*client.Client, error) {
	opts := []client.Option{
		client.WithBaseURL(s.BaseURL),
		client.WithTimeout(s.Timeout),
		client.WithMaxRetries(s.MaxRetries),
	}
	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, client.WithLogger(slog.New(handler)))
	}
	return client.New(s.DeveloperID, s.AuthKey, opts...)
}

// withClient builds a client and runs fn under the request timeout.
func withClient(fn func(ctx context.Context, c *client.Client) error) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	c, err := newClient(s)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	return fn(ctx, c)
}

// outputJSON prints the value as JSON
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describeError adds a hint for the error kinds a user can act on.
func describeError(action string, err error) error {
	switch {
	case client.IsRejection(err):
		return fmt.Errorf("%s: credentials rejected: %w", action, err)
	case client.IsValidationError(err):
		return fmt.Errorf("%s: %w", action, err)
	case client.IsHTMLError(err):
		return fmt.Errorf("%s: the API returned an error page: %w", action, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

func formatTime(ts client.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(time.DateTime)
}

// MOTD command
var motdCmd = &cobra.Command{
	Use:   "motd",
	Short: "Show the Matches of the Day",
	Long:  "Lists the most recent featured custom matches and their rules.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			motds, err := c.GetMOTDs(ctx)
			if err != nil {
				return describeError("failed to get matches of the day", err)
			}

			if jsonOutput {
				return outputJSON(motds)
			}

			if len(motds) == 0 {
				fmt.Println("No matches of the day")
				return nil
			}

			for _, m := range motds {
				fmt.Printf("%s\n", m.Title)
				fmt.Printf("  Mode: %s\n", m.GameMode)
				fmt.Printf("  Start: %s\n", formatTime(m.StartDateTime))
				if players, ok := m.MaxPlayers.Get(); ok {
					fmt.Printf("  Max players: %d\n", players)
				}
				for _, item := range m.SeparateDescription() {
					fmt.Printf("  - %s\n", item)
				}
			}
			return nil
		})
	},
}

// Gods command
var godsCmd = &cobra.Command{
	Use:   "gods",
	Short: "List gods",
	Long: `Lists all gods with names localized to the chosen language.

Language codes: 1 English, 2 German, 3 French, 5 Chinese, 7 Spanish,
9 Spanish (Latin America), 10 Portuguese, 11 Russian, 12 Polish, 13 Turkish.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetInt("lang")

		return withClient(func(ctx context.Context, c *client.Client) error {
			gods, err := c.GetGods(ctx, client.Language(lang))
			if err != nil {
				return describeError("failed to get gods", err)
			}

			if jsonOutput {
				return outputJSON(gods)
			}

			fmt.Printf("Gods (%d):\n", len(gods))
			for _, g := range gods {
				fmt.Printf("  %d %s (%s, %s)\n", g.ID, g.Name, g.Pantheon, g.Roles)
			}
			return nil
		})
	},
}

func init() {
	godsCmd.Flags().Int("lang", int(client.LanguageEnglish), "Language code")
}

// Player command
var playerCmd = &cobra.Command{
	Use:   "player NAME",
	Short: "Look up a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			players, err := c.GetPlayer(ctx, args[0])
			if err != nil {
				return describeError("failed to get player", err)
			}

			if jsonOutput {
				return outputJSON(players)
			}

			if len(players) == 0 {
				fmt.Printf("Player '%s' was not found\n", args[0])
				return nil
			}

			for _, p := range players {
				if msg, ok := p.RetMsg.Get(); ok {
					fmt.Printf("%s\n", msg)
					continue
				}
				fmt.Printf("%s (id %d)\n", p.Name, p.ID)
				fmt.Printf("  Level: %d\n", p.Level)
				fmt.Printf("  Wins/Losses: %d/%d\n", p.Wins, p.Losses)
				fmt.Printf("  Region: %s\n", p.Region)
				fmt.Printf("  Created: %s\n", formatTime(p.CreatedDatetime))
				fmt.Printf("  Last login: %s\n", formatTime(p.LastLoginDatetime))
			}
			return nil
		})
	},
}

// Match IDs command
var matchIDsCmd = &cobra.Command{
	Use:   "match-ids",
	Short: "List match ids for a queue",
	Long: `Lists the ids of matches played in a queue on a given day.

Example:
  smite match-ids --queue 426 --date 01-31-2024 --hour 18`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queue, _ := cmd.Flags().GetInt("queue")
		date, _ := cmd.Flags().GetString("date")
		hour, _ := cmd.Flags().GetInt("hour")

		if date == "" {
			date = client.FormatMatchDate(time.Now().UTC())
		}

		return withClient(func(ctx context.Context, c *client.Client) error {
			ids, err := c.GetMatchIDsByQueue(ctx, client.Queue(queue), date, &hour)
			if err != nil {
				return describeError("failed to get match ids", err)
			}

			if jsonOutput {
				return outputJSON(ids)
			}

			if len(ids) == 0 {
				fmt.Println("No matches found")
				return nil
			}

			for _, id := range ids {
				state := "finished"
				if id.Active {
					state = "active"
				}
				fmt.Printf("%d %s\n", id.ID, state)
			}
			return nil
		})
	},
}

func init() {
	matchIDsCmd.Flags().Int("queue", int(client.QueueConquest), "Queue id")
	matchIDsCmd.Flags().String("date", "", "Day as MM-DD-YYYY (default: today, UTC)")
	matchIDsCmd.Flags().Int("hour", -1, "Hour 0-23, or -1 for the whole day")
}

// Match command
var matchCmd = &cobra.Command{
	Use:   "match ID [ID...]",
	Short: "Show match details",
	Long:  "Shows one line per player for up to 10 matches.",
	Args:  cobra.RangeArgs(1, 10),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid match id %q", arg)
			}
			ids = append(ids, id)
		}

		return withClient(func(ctx context.Context, c *client.Client) error {
			var (
				details []client.PlayerGameInfo
				err     error
			)
			if len(ids) == 1 {
				details, err = c.GetMatchDetails(ctx, ids[0])
			} else {
				details, err = c.GetMatchDetailsBatch(ctx, ids...)
			}
			if err != nil {
				return describeError("failed to get match details", err)
			}

			if jsonOutput {
				return outputJSON(details)
			}

			if len(details) == 0 {
				fmt.Println("No match details found")
				return nil
			}

			for _, d := range details {
				fmt.Printf("%d %-20s %-12s %-7s %d/%d/%d\n",
					d.Match, d.PlayerName, d.GodName, d.WinStatus, d.Kills, d.Deaths, d.Assists)
			}
			return nil
		})
	},
}

// Data used command
var dataUsedCmd = &cobra.Command{
	Use:   "data-used",
	Short: "Show API usage",
	Long:  "Shows today's request and session counts against the account limits.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			usage, err := c.GetDataUsed(ctx)
			if err != nil {
				return describeError("failed to get data used", err)
			}

			if jsonOutput {
				return outputJSON(usage)
			}

			for _, u := range usage {
				fmt.Printf("Requests today: %d/%d\n", u.TotalRequestsToday, u.RequestLimitDaily)
				fmt.Printf("Sessions today: %d\n", u.TotalSessionsToday)
				fmt.Printf("Active sessions: %d/%d\n", u.ActiveSessions, u.SessionCap)
				fmt.Printf("Session time limit: %d minutes\n", u.SessionTimeLimit)
				if u.ReachedRequestLimit() {
					fmt.Println("Daily request limit reached")
				}
				if u.ReachedSessionLimit() {
					fmt.Println("Session limit reached")
				}
			}
			return nil
		})
	},
}

// Patch info command
var patchInfoCmd = &cobra.Command{
	Use:   "patch-info",
	Short: "Show the current game version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			info, err := c.GetPatchInfo(ctx)
			if err != nil {
				return describeError("failed to get patch info", err)
			}

			if jsonOutput {
				return outputJSON(info)
			}

			fmt.Printf("Version: %s\n", info.VersionString)
			return nil
		})
	},
}

// Session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create and test a session",
	Long:  "Creates a session, asks the API to validate it and prints the result.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			session, err := c.Session(ctx)
			if err != nil {
				return describeError("failed to create session", err)
			}

			result, err := c.TestSession(ctx)
			if err != nil {
				return describeError("failed to test session", err)
			}

			if jsonOutput {
				return outputJSON(map[string]any{
					"sessionId": session.ID,
					"createdAt": session.CreatedAt,
					"expiresAt": session.ExpiresAt(),
					"status":    session.Status,
					"test":      result,
				})
			}

			fmt.Printf("Session: %s\n", session.ID)
			fmt.Printf("  Status: %s\n", session.Status)
			fmt.Printf("  Expires: %s\n", session.ExpiresAt().Format(time.DateTime))
			fmt.Printf("  Test: %s\n", result)
			return nil
		})
	},
}

// Call command
var callCmd = &cobra.Command{
	Use:   "call METHOD [ARG...]",
	Short: "Call any API method",
	Long: `Calls an API method by name and prints the raw JSON response.

Arguments are appended to the request path in order.

Example:
  smite call getitems 1
  smite call ping --no-session`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noSession, _ := cmd.Flags().GetBool("no-session")
		method := strings.ToLower(args[0])

		return withClient(func(ctx context.Context, c *client.Client) error {
			raw, err := client.Invoke[json.RawMessage](ctx, c, method, !noSession, args[1:]...)
			if err != nil {
				return describeError("call "+method+" failed", err)
			}

			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("call %s failed: %w", method, err)
			}
			return outputJSON(v)
		})
	},
}

func init() {
	callCmd.Flags().Bool("no-session", false, "Call without a session (e.g. ping)")
}
