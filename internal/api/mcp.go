package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/khet/internal/activity"
	"github.com/kalambet/khet/internal/advisory"
	"github.com/kalambet/khet/internal/assistant"
)

// MCPDeps holds dependencies for the MCP server. The MCP client gets one
// activity log and one assistant session of its own.
type MCPDeps struct {
	Advisories advisory.Source
	Store      *activity.Store
	Session    *assistant.Session
	Now        func() time.Time // optional; defaults to time.Now
}

// NewMCPServer creates an MCP server with all khet tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := server.NewMCPServer(
		"khet",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("khet: farm activity log, advisories and a farming assistant."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("list_activities",
			mcp.WithDescription("List logged farm activities, newest first."),
			mcp.WithString("date", mcp.Description("Only activities on this day (YYYY-MM-DD); omit for all days")),
		),
		mcpListActivities(deps),
	)

	s.AddTool(
		mcp.NewTool("add_activity",
			mcp.WithDescription("Log a farm activity."),
			mcp.WithString("type", mcp.Description("watering, planting, harvesting, fertilizing or pest-control"), mcp.Required()),
			mcp.WithString("description", mcp.Description("What was done"), mcp.Required()),
			mcp.WithString("field", mcp.Description("Field or location"), mcp.Required()),
			mcp.WithString("notes", mcp.Description("Optional notes")),
			mcp.WithString("date", mcp.Description("Day of the activity (YYYY-MM-DD); defaults to now")),
		),
		mcpAddActivity(deps),
	)

	s.AddTool(
		mcp.NewTool("remove_activity",
			mcp.WithDescription("Delete a logged activity by id."),
			mcp.WithString("id", mcp.Description("Activity id"), mcp.Required()),
		),
		mcpRemoveActivity(deps),
	)

	s.AddTool(
		mcp.NewTool("activity_summary",
			mcp.WithDescription("Count activities per type."),
			mcp.WithString("date", mcp.Description("Only count this day (YYYY-MM-DD); omit for all days")),
		),
		mcpActivitySummary(deps),
	)

	s.AddTool(
		mcp.NewTool("list_advisories",
			mcp.WithDescription("List farming advisories, optionally filtered."),
			mcp.WithString("category", mcp.Description("weather, pest, nutrition or market")),
			mcp.WithString("priority", mcp.Description("urgent, high, medium or low")),
		),
		mcpListAdvisories(deps),
	)

	s.AddTool(
		mcp.NewTool("ask_assistant",
			mcp.WithDescription("Ask the farming assistant a question and wait for its reply."),
			mcp.WithString("question", mcp.Description("The question to ask"), mcp.Required()),
		),
		mcpAskAssistant(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"khet://advisories",
			"Advisories",
			mcp.WithResourceDescription("Current farm conditions, advisories, crop health and tips as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceAdvisories(deps),
	)

	return s
}

func mcpDay(req mcp.CallToolRequest, now time.Time) (time.Time, error) {
	s := req.GetString("date", "")
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, now.Location())
}

func mcpListActivities(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, err := mcpDay(req, deps.Now())
		if err != nil {
			return mcpError("date must be YYYY-MM-DD"), nil
		}

		records := activity.FilterByDate(deps.Store.List(), day)
		if len(records) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(records)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal activities: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAddActivity(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		typ, err := req.RequireString("type")
		if err != nil {
			return mcpError("type is required"), nil
		}
		description, err := req.RequireString("description")
		if err != nil {
			return mcpError("description is required"), nil
		}
		field, err := req.RequireString("field")
		if err != nil {
			return mcpError("field is required"), nil
		}

		now := deps.Now()
		date, err := mcpDay(req, now)
		if err != nil {
			return mcpError("date must be YYYY-MM-DD"), nil
		}
		if date.IsZero() {
			date = now
		}

		rec := activity.Record{
			ID:          uuid.NewString(),
			Date:        date,
			Type:        activity.Type(typ),
			Description: description,
			Field:       field,
			Notes:       req.GetString("notes", ""),
		}
		if !deps.Store.Add(rec) {
			return mcpText("Nothing logged: type, description and field must not be blank"), nil
		}
		return mcpText(fmt.Sprintf("Logged activity %s", rec.ID)), nil
	}
}

func mcpRemoveActivity(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		if !deps.Store.Remove(id) {
			return mcpText(fmt.Sprintf("No activity %s", id)), nil
		}
		return mcpText(fmt.Sprintf("Removed activity %s", id)), nil
	}
}

func mcpActivitySummary(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, err := mcpDay(req, deps.Now())
		if err != nil {
			return mcpError("date must be YYYY-MM-DD"), nil
		}

		summary := activity.Summarize(activity.FilterByDate(deps.Store.List(), day))
		b, err := json.Marshal(summary)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListAdvisories(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f := advisory.Filter{
			Category: advisory.Category(req.GetString("category", "")),
			Priority: advisory.Priority(req.GetString("priority", "")),
		}
		list, err := deps.Advisories.ListAdvisories(f)
		if err != nil {
			return mcpError(fmt.Sprintf("listing advisories failed: %v", err)), nil
		}
		if len(list) == 0 {
			return mcpText("[]"), nil
		}

		items := make([]advisory.Item, len(list))
		for i, a := range list {
			items[i] = advisory.Present(a)
		}
		b, err := json.Marshal(items)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal advisories: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAskAssistant(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		if !deps.Session.Send(question) {
			return mcpError("assistant is busy with another question or the question is blank"), nil
		}
		if err := deps.Session.Wait(ctx); err != nil {
			return mcpError(fmt.Sprintf("waiting for reply: %v", err)), nil
		}

		msgs := deps.Session.Messages()
		last := msgs[len(msgs)-1]
		if last.Sender != assistant.Assistant {
			return mcpError("no reply received"), nil
		}
		return mcpText(last.Text), nil
	}
}

func mcpResourceAdvisories(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		board, err := advisory.BuildBoard(deps.Advisories, advisory.Filter{})
		if err != nil {
			return nil, fmt.Errorf("failed to build advisory board: %w", err)
		}

		b, err := json.Marshal(board)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal advisory board: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
