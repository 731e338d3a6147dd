package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/khet/internal/activity"
	"github.com/kalambet/khet/internal/config"
)

// Wire shapes as the server renders them. Only the fields the CLI prints.

type logRecord struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Field        string `json:"field"`
	Notes        string `json:"notes"`
	Presentation struct {
		Label string `json:"label"`
	} `json:"presentation"`
}

type logState struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Activities []logRecord `json:"activities"`
	Count      int         `json:"count"`
	Empty      string      `json:"empty"`
	Summary    []struct {
		Type         string `json:"type"`
		Count        int    `json:"count"`
		Presentation struct {
			Label string `json:"label"`
		} `json:"presentation"`
	} `json:"summary"`
}

type chatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type chatSession struct {
	ID           string        `json:"id"`
	Messages     []chatMessage `json:"messages"`
	Input        string        `json:"input"`
	Pending      bool          `json:"pending"`
	Listening    bool          `json:"listening"`
	QuickActions []struct {
		Label string `json:"label"`
	} `json:"quick_actions"`
}

// --- activity ---

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Work with an activity log",
	Long: `Work with an activity log.

Each log lives on the server until it is closed or sits idle too long.
Commands without --log open a fresh log seeded with the sample records.

Examples:
  khet activity open
  khet activity list --log <id> --date 2026-10-18
  khet activity add --log <id> --type watering --description "Drip round" --field "Field A"
  khet activity rm --log <id> <record-id>`,
}

var activityOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a new activity log and print its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		st, err := openLog(cmd.Context(), client)
		if err != nil {
			return err
		}
		fmt.Println(st.ID)
		return nil
	},
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities, optionally for one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		id, err := resolveLog(cmd, client)
		if err != nil {
			return err
		}

		resp, err := client.put(cmd.Context(), "/activity/"+url.PathEscape(id)+"/date", map[string]string{"date": date})
		if err != nil {
			return err
		}
		var st logState
		if err := decodeJSON(resp, &st); err != nil {
			return err
		}

		printLog(os.Stdout, st)
		return nil
	},
}

var activityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log an activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")
		field, _ := cmd.Flags().GetString("field")
		notes, _ := cmd.Flags().GetString("notes")
		date, _ := cmd.Flags().GetString("date")

		if msg := unknownTypeWarning(typ); msg != "" {
			printWarning("%s", msg)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		id, err := resolveLog(cmd, client)
		if err != nil {
			return err
		}

		body := map[string]string{
			"type":        typ,
			"description": description,
			"field":       field,
			"notes":       notes,
			"date":        date,
		}
		resp, err := client.post(cmd.Context(), "/activity/"+url.PathEscape(id)+"/records", body)
		if err != nil {
			return err
		}
		var result struct {
			Added bool   `json:"added"`
			ID    string `json:"id"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if !result.Added {
			printWarning("Nothing logged: type, description and field are required")
			return nil
		}
		printSuccess("Logged activity %s", result.ID)
		return nil
	},
}

var activityRmCmd = &cobra.Command{
	Use:   "rm <record-id>",
	Short: "Delete an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		id, err := resolveLog(cmd, client)
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/activity/"+url.PathEscape(id)+"/records/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		var result struct {
			Removed bool `json:"removed"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if !result.Removed {
			printWarning("No activity %s", args[0])
			return nil
		}
		printSuccess("Deleted activity %s", args[0])
		return nil
	},
}

var activityCloseCmd = &cobra.Command{
	Use:   "close <log-id>",
	Short: "Close an activity log, discarding its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/activity/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		var result map[string]bool
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Closed activity log %s", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{activityListCmd, activityAddCmd, activityRmCmd} {
		c.Flags().String("log", "", "activity log id (default: open a new one)")
	}
	activityListCmd.Flags().String("date", "", "only this day (YYYY-MM-DD, default all days)")
	activityAddCmd.Flags().String("type", "", "watering, planting, harvesting, fertilizing or pest-control")
	activityAddCmd.Flags().String("description", "", "what was done")
	activityAddCmd.Flags().String("field", "", "field or location")
	activityAddCmd.Flags().String("notes", "", "optional notes")
	activityAddCmd.Flags().String("date", "", "day of the activity (YYYY-MM-DD, default now)")

	activityCmd.AddCommand(activityOpenCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityAddCmd)
	activityCmd.AddCommand(activityRmCmd)
	activityCmd.AddCommand(activityCloseCmd)
}

// unknownTypeWarning explains how a type outside the enumerated set will be
// shown. Empty types are left to the server's required-field check.
func unknownTypeWarning(typ string) string {
	if typ == "" || activity.Type(typ).Known() {
		return ""
	}
	return fmt.Sprintf("%q is not a known activity type; it will be shown with the default icon", typ)
}

func openLog(ctx context.Context, client *apiClient) (logState, error) {
	resp, err := client.post(ctx, "/activity", nil)
	if err != nil {
		return logState{}, err
	}
	var st logState
	if err := decodeJSON(resp, &st); err != nil {
		return logState{}, err
	}
	return st, nil
}

// resolveLog returns --log, or opens a new log when it is empty.
func resolveLog(cmd *cobra.Command, client *apiClient) (string, error) {
	id, _ := cmd.Flags().GetString("log")
	if id != "" {
		return id, nil
	}
	st, err := openLog(cmd.Context(), client)
	if err != nil {
		return "", err
	}
	printStep("Opened activity log %s", st.ID)
	return st.ID, nil
}

func printLog(w io.Writer, st logState) {
	fmt.Fprintln(w, colorize(colorBold, st.Title))
	if st.Count == 0 {
		fmt.Fprintf(w, "  %s\n", st.Empty)
		return
	}
	for _, r := range st.Activities {
		day := r.Date
		if len(day) >= 10 {
			day = day[:10]
		}
		fmt.Fprintf(w, "  %s  %-12s %s (%s)  [%s]\n", day, r.Presentation.Label, r.Description, r.Field, r.ID)
		if r.Notes != "" {
			fmt.Fprintf(w, "              %s\n", r.Notes)
		}
	}
	var parts []string
	for _, c := range st.Summary {
		parts = append(parts, fmt.Sprintf("%s %d", c.Presentation.Label, c.Count))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, " · "))
}

// --- advisory ---

var advisoryCmd = &cobra.Command{
	Use:   "advisory",
	Short: "Show farming advisories",
}

var advisoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List advisories with current conditions",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		priority, _ := cmd.Flags().GetString("priority")

		q := url.Values{}
		if category != "" {
			q.Set("category", category)
		}
		if priority != "" {
			q.Set("priority", priority)
		}
		path := "/advisory"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var board struct {
			Conditions struct {
				Temperature    string `json:"temperature"`
				Humidity       string `json:"humidity"`
				WindSpeed      string `json:"wind_speed"`
				Recommendation string `json:"recommendation"`
			} `json:"conditions"`
			Advisories []struct {
				ID                string `json:"id"`
				Priority          string `json:"priority"`
				Title             string `json:"title"`
				RecommendedAction string `json:"recommended_action"`
				Timeframe         string `json:"timeframe"`
			} `json:"advisories"`
			Active     int `json:"active"`
			CropHealth []struct {
				Crop   string `json:"crop"`
				Health int    `json:"health"`
				Status string `json:"status"`
			} `json:"crop_health"`
		}
		if err := decodeJSON(resp, &board); err != nil {
			return err
		}

		c := board.Conditions
		fmt.Printf("%s %s, humidity %s, wind %s\n  %s\n\n", colorize(colorBold, "Conditions:"),
			c.Temperature, c.Humidity, c.WindSpeed, c.Recommendation)

		fmt.Println(colorize(colorBold, fmt.Sprintf("%d active advisories", board.Active)))
		for _, a := range board.Advisories {
			fmt.Printf("  [%s] %s %s\n", a.ID, colorize(priorityColor(a.Priority), strings.ToUpper(a.Priority)), a.Title)
			fmt.Printf("       %s, %s\n", a.RecommendedAction, a.Timeframe)
		}

		fmt.Println()
		fmt.Println(colorize(colorBold, "Crop health"))
		for _, ch := range board.CropHealth {
			fmt.Printf("  %-22s %3d%%  %s\n", ch.Crop, ch.Health, ch.Status)
		}
		return nil
	},
}

var advisoryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one advisory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/advisory/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}

		var item any
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	},
}

func init() {
	advisoryListCmd.Flags().String("category", "", "weather, pest, nutrition or market")
	advisoryListCmd.Flags().String("priority", "", "urgent, high, medium or low")

	advisoryCmd.AddCommand(advisoryListCmd)
	advisoryCmd.AddCommand(advisoryShowCmd)
}

// --- dashboard ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the farm dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		logID, _ := cmd.Flags().GetString("log")

		path := "/dashboard"
		if logID != "" {
			path += "?log=" + url.QueryEscape(logID)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var d struct {
			Greeting   string `json:"greeting"`
			QuickStats []struct {
				Label string `json:"label"`
				Value string `json:"value"`
				Trend string `json:"trend"`
			} `json:"quick_stats"`
			Weather struct {
				Temperature string `json:"temperature"`
				Condition   string `json:"condition"`
			} `json:"weather"`
			Forecast []struct {
				Day         string `json:"day"`
				Temperature string `json:"temperature"`
				Condition   string `json:"condition"`
			} `json:"forecast"`
			Tasks struct {
				Items []struct {
					Task      string `json:"task"`
					Priority  string `json:"priority"`
					Completed bool   `json:"completed"`
				} `json:"items"`
				Completed int `json:"completed"`
				Total     int `json:"total"`
			} `json:"tasks"`
			Recent []struct {
				Day         string `json:"day"`
				Description string `json:"description"`
				Field       string `json:"field"`
			} `json:"recent_activities"`
		}
		if err := decodeJSON(resp, &d); err != nil {
			return err
		}

		fmt.Println(colorize(colorBold, d.Greeting))
		for _, s := range d.QuickStats {
			fmt.Printf("  %-18s %-8s %s\n", s.Label, s.Value, s.Trend)
		}

		fmt.Printf("\n%s %s, %s\n", colorize(colorBold, "Weather:"), d.Weather.Temperature, d.Weather.Condition)
		for _, f := range d.Forecast {
			fmt.Printf("  %-9s %s %s\n", f.Day, f.Temperature, f.Condition)
		}

		fmt.Printf("\n%s %d/%d done\n", colorize(colorBold, "Today's tasks:"), d.Tasks.Completed, d.Tasks.Total)
		for _, t := range d.Tasks.Items {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			fmt.Printf("  %s %s %s\n", mark, t.Task, colorize(priorityColor(t.Priority), "("+t.Priority+")"))
		}

		fmt.Printf("\n%s\n", colorize(colorBold, "Recent activities"))
		for _, r := range d.Recent {
			fmt.Printf("  %-11s %s, %s\n", r.Day, r.Description, r.Field)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().String("log", "", "show recent activities of this activity log")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the farming assistant",
	Long: `Talk to the farming assistant.

Type a question and press enter. Other inputs:
  /quick <n>   send quick action n (1-4)
  /voice       toggle voice capture
  /quit        end the session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), client, os.Stdin, os.Stdout)
	},
}

func runChat(ctx context.Context, client *apiClient, in io.Reader, out io.Writer) error {
	resp, err := client.post(ctx, "/chatbot", nil)
	if err != nil {
		return err
	}
	var st chatSession
	if err := decodeJSON(resp, &st); err != nil {
		return err
	}
	base := "/chatbot/" + url.PathEscape(st.ID)
	defer func() {
		if resp, err := client.delete(context.Background(), base); err == nil {
			resp.Body.Close()
		}
	}()

	printMessages(out, st.Messages)
	for i, q := range st.QuickActions {
		fmt.Fprintf(out, "  /quick %d  %s\n", i+1, q.Label)
	}
	shown := len(st.Messages)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, colorize(colorCyan, "> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		var path string
		var body any
		switch {
		case line == "/quit":
			return nil
		case line == "/voice":
			resp, err := client.post(ctx, base+"/voice", nil)
			if err != nil {
				return err
			}
			var v struct {
				Listening bool `json:"listening"`
			}
			if err := decodeJSON(resp, &v); err != nil {
				return err
			}
			if v.Listening {
				fmt.Fprintln(out, "listening...")
			} else {
				fmt.Fprintln(out, "stopped listening")
			}
			continue
		case strings.HasPrefix(line, "/quick "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/quick ")))
			if err != nil {
				fmt.Fprintln(out, "usage: /quick <n>")
				continue
			}
			path = fmt.Sprintf("%s/quick/%d?wait=true", base, n-1)
		default:
			// An empty line sends whatever voice capture typed in.
			path = base + "/messages?wait=true"
			body = map[string]string{"text": line}
		}

		resp, err := client.post(ctx, path, body)
		if err != nil {
			return err
		}
		var result struct {
			Sent    bool        `json:"sent"`
			Session chatSession `json:"session"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		if !result.Sent {
			continue
		}
		if len(result.Session.Messages) > shown {
			printMessages(out, result.Session.Messages[shown:])
			shown = len(result.Session.Messages)
		}
	}
	return scanner.Err()
}

func printMessages(w io.Writer, msgs []chatMessage) {
	for _, m := range msgs {
		if m.Sender == "assistant" {
			fmt.Fprintf(w, "%s %s\n", colorize(colorGreen, "assistant:"), m.Text)
		} else {
			fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "you:"), m.Text)
		}
	}
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s  (%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Set a configuration value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.ValidKeys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
