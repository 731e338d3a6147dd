package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/khet/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found_error"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

// useClient points the commands at ts for the duration of the test.
func (ts *testServer) useClient(t *testing.T) {
	t.Helper()
	old := newAPIClient
	newAPIClient = func() (*apiClient, error) { return ts.client(), nil }
	t.Cleanup(func() { newAPIClient = old })
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	defer rootCmd.SetArgs(nil)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func (ts *testServer) paths() []string {
	var out []string
	for _, r := range ts.requests {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

var ctx = context.Background()

func TestActivityAdd(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /activity/log-1/records": `{"added":true,"id":"rec-9"}`,
	})
	ts.useClient(t)

	err := execute(t, "activity", "add", "--log", "log-1",
		"--type", "watering", "--description", "Drip round", "--field", "Field A", "--date", "2026-10-18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %v", ts.paths())
	}
	r := ts.requests[0]
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["type"] != "watering" || body["field"] != "Field A" || body["date"] != "2026-10-18" {
		t.Errorf("body = %v", body)
	}
}

func TestUnknownTypeWarning(t *testing.T) {
	tests := []struct {
		typ      string
		wantWarn bool
	}{
		{"watering", false},
		{"pest-control", false},
		{"", false},
		{"mulching", true},
	}
	for _, tt := range tests {
		got := unknownTypeWarning(tt.typ)
		if (got != "") != tt.wantWarn {
			t.Errorf("unknownTypeWarning(%q) = %q, want warning %v", tt.typ, got, tt.wantWarn)
		}
	}
}

func TestActivityAdd_UnknownTypeStillSent(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /activity/log-2/records": `{"added":true,"id":"rec-3"}`,
	})
	ts.useClient(t)

	err := execute(t, "activity", "add", "--log", "log-2",
		"--type", "mulching", "--description", "Straw mulch", "--field", "Field C", "--date", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ts.requests) != 1 || !strings.Contains(ts.requests[0].Body, `"mulching"`) {
		t.Errorf("requests = %+v", ts.requests)
	}
}

func TestActivityList_OpensLogWithoutFlag(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /activity":           `{"id":"log-7","title":"Activities for All Days","count":0}`,
		"PUT /activity/log-7/date": `{"id":"log-7","title":"Activities for 10/18/2026","count":0,"empty":"No activities found"}`,
	})
	ts.useClient(t)

	if err := execute(t, "activity", "list", "--log", "", "--date", "2026-10-18"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ts.paths()
	want := []string{"POST /activity", "PUT /activity/log-7/date"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("requests = %v, want %v", got, want)
	}
	if !strings.Contains(ts.requests[1].Body, `"2026-10-18"`) {
		t.Errorf("date body = %s", ts.requests[1].Body)
	}
}

func TestActivityRm_UnknownLog(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	ts.useClient(t)

	err := execute(t, "activity", "rm", "--log", "gone", "rec-1")
	if err == nil {
		t.Fatal("expected error for unknown log")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to contain 404", err.Error())
	}
}

func TestActivityRm_MissingArgs(t *testing.T) {
	err := execute(t, "activity", "rm")
	if err == nil {
		t.Fatal("expected error for missing args")
	}
	if !strings.Contains(err.Error(), "arg") {
		t.Errorf("error = %q, want it to mention args", err.Error())
	}
}

func TestAdvisoryList_QueryEncoding(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /advisory": `{"conditions":{"temperature":"28°C"},"advisories":[],"active":0,"crop_health":[]}`,
	})
	ts.useClient(t)

	if err := execute(t, "advisory", "list", "--category", "pest", "--priority", "high"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %v", ts.paths())
	}
	if got := ts.requests[0].Path; got != "/advisory?category=pest&priority=high" {
		t.Errorf("path = %q", got)
	}
}

func TestDashboard_WithLog(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /dashboard": `{"greeting":"Good morning","tasks":{"items":[],"completed":0,"total":0}}`,
	})
	ts.useClient(t)

	if err := execute(t, "dashboard", "--log", "log 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ts.requests[0].Path; got != "/dashboard?log=log+1" {
		t.Errorf("path = %q", got)
	}
}

func TestRunChat(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /chatbot": `{"id":"chat-1","messages":[{"sender":"assistant","text":"Namaste!"}],` +
			`"quick_actions":[{"label":"Crop Health Check"}]}`,
		"POST /chatbot/chat-1/messages": `{"sent":true,"session":{"id":"chat-1","messages":[` +
			`{"sender":"assistant","text":"Namaste!"},` +
			`{"sender":"user","text":"hello"},` +
			`{"sender":"assistant","text":"Check the soil moisture."}]}}`,
		"POST /chatbot/chat-1/voice": `{"listening":true}`,
		"DELETE /chatbot/chat-1":     `{"removed":true}`,
	})

	old := noColor
	noColor = true
	defer func() { noColor = old }()

	var out bytes.Buffer
	in := strings.NewReader("hello\n/voice\n/quick x\n/quit\n")
	if err := runChat(ctx, ts.client(), in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"assistant: Namaste!",
		"/quick 1  Crop Health Check",
		"you: hello",
		"assistant: Check the soil moisture.",
		"listening...",
		"usage: /quick <n>",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "Namaste!") != 1 {
		t.Errorf("greeting printed more than once:\n%s", text)
	}

	got := ts.paths()
	want := []string{
		"POST /chatbot",
		"POST /chatbot/chat-1/messages?wait=true",
		"POST /chatbot/chat-1/voice",
		"DELETE /chatbot/chat-1",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestRunChat_QuickActionIsZeroBased(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /chatbot":                `{"id":"chat-2","messages":[]}`,
		"POST /chatbot/chat-2/quick/0": `{"sent":false,"session":{"id":"chat-2"}}`,
		"DELETE /chatbot/chat-2":       `{"removed":true}`,
	})

	var out bytes.Buffer
	if err := runChat(ctx, ts.client(), strings.NewReader("/quick 1\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ts.requests[1].Path; got != "/chatbot/chat-2/quick/0?wait=true" {
		t.Errorf("quick path = %q", got)
	}
	if last := ts.requests[len(ts.requests)-1]; last.Method != http.MethodDelete {
		t.Errorf("session not closed on EOF, last request %s %s", last.Method, last.Path)
	}
}

func TestPrintLog(t *testing.T) {
	old := noColor
	noColor = true
	defer func() { noColor = old }()

	var st logState
	err := json.Unmarshal([]byte(`{
		"title": "Activities for All Days",
		"count": 1,
		"activities": [{"id":"r1","date":"2026-10-19T08:00:00+05:30","type":"watering",
			"description":"Drip round","field":"Field A","notes":"2 hours",
			"presentation":{"label":"Watering"}}],
		"summary": [{"type":"watering","count":1,"presentation":{"label":"Watering"}},
			{"type":"planting","count":0,"presentation":{"label":"Planting"}}]
	}`), &st)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var buf bytes.Buffer
	printLog(&buf, st)
	text := buf.String()

	for _, want := range []string{"2026-10-19", "Drip round (Field A)", "2 hours", "Watering 1 · Planting 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestPrintLog_Empty(t *testing.T) {
	var buf bytes.Buffer
	printLog(&buf, logState{Title: "Activities for 1/2/2026", Empty: "No activities found"})
	if !strings.Contains(buf.String(), "No activities found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestStatusCommand_Running(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /health": `{"status":"ok"}`,
	})

	client := ts.client()
	resp, err := client.get(ctx, "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status code = %d, want 200", resp.StatusCode)
	}
}

func TestStatusCommand_Stopped(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	ts.server.Close()

	client := ts.client()
	_, err := client.get(ctx, "/health")
	if err == nil {
		t.Fatal("expected error for stopped server")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("error = %q, want it to mention 'not reachable'", err.Error())
	}
}

func TestNoColorFlag(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "test message")
	if strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}
	if result != "test message" {
		t.Errorf("result = %q, want %q", result, "test message")
	}

	noColor = false
	result = colorize(colorGreen, "test message")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestPriorityColor(t *testing.T) {
	tests := map[string]string{
		"urgent": colorRed,
		"high":   colorYellow,
		"medium": colorCyan,
		"low":    colorGreen,
		"":       colorGreen,
	}
	for priority, want := range tests {
		if got := priorityColor(priority); got != want {
			t.Errorf("priorityColor(%q) = %q, want %q", priority, got, want)
		}
	}
}

func TestAPIClientAuth(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /health": `{"status":"ok"}`,
	})

	client := ts.client()
	client.token = "my-secret-token"

	_, err := client.get(ctx, "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	if ts.requests[0].Auth != "Bearer my-secret-token" {
		t.Errorf("auth = %q, want 'Bearer my-secret-token'", ts.requests[0].Auth)
	}
}

func TestAPIClientNoToken(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /health": `{"status":"ok"}`,
	})

	client := ts.client()
	client.token = ""

	resp, err := client.get(ctx, "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if ts.requests[0].Auth != "" {
		t.Errorf("auth = %q, want no header", ts.requests[0].Auth)
	}
}

func TestDecodeJSON_ErrorResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":{"message":"unauthorized","type":"auth_error"}}`))
	}))
	defer ts.Close()

	client := &apiClient{
		baseURL:    ts.URL,
		token:      "bad-token",
		httpClient: ts.Client(),
	}

	resp, err := client.get(ctx, "/dashboard")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var result any
	err = decodeJSON(resp, &result)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %q, want it to contain '401'", err.Error())
	}
}

func TestConfigShowAll(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Port = 4100
	cfg.Farm.Timezone = "Asia/Kolkata"

	keys := config.ShowAll(cfg)
	if len(keys) == 0 {
		t.Fatal("expected non-empty keys from ShowAll")
	}

	found := map[string]bool{}
	for _, k := range keys {
		if (k.Key == "server.port" && k.Value == "4100") || (k.Key == "farm.timezone" && k.Value == "Asia/Kolkata") {
			found[k.Key] = true
		}
	}
	if len(found) != 2 {
		t.Errorf("ShowAll missing keys, found %v", found)
	}
}
