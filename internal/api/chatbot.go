package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/khet/internal/assistant"
	"github.com/kalambet/khet/internal/view"
)

// maxReplyWait bounds how long ?wait=true holds the request open.
const maxReplyWait = 30 * time.Second

type chatState struct {
	ID string `json:"id"`
	assistant.State
	QuickActions []assistant.QuickAction `json:"quick_actions"`
}

type sentResponse struct {
	Sent    bool      `json:"sent"`
	Session chatState `json:"session"`
}

func stateOf(c *view.Chat) chatState {
	return chatState{ID: c.ID, State: c.Snapshot(), QuickActions: assistant.QuickActions}
}

func chat(deps Deps, w http.ResponseWriter, r *http.Request) (*view.Chat, bool) {
	id := chi.URLParam(r, "vid")
	c, ok := deps.Views.Assistant(id)
	if !ok {
		httpError(w, http.StatusNotFound, "not_found_error", "assistant session %q not found", id)
		return nil, false
	}
	return c, true
}

func handleMountAssistant(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := deps.Views.MountAssistant()
		writeJSON(w, http.StatusCreated, stateOf(c))
	}
}

func handleGetAssistant(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := chat(deps, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, stateOf(c))
	}
}

func handleUnmountAssistant(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "vid")
		if !deps.Views.UnmountAssistant(id) {
			httpError(w, http.StatusNotFound, "not_found_error", "assistant session %q not found", id)
			return
		}
		writeJSON(w, http.StatusOK, removedResponse{Removed: true})
	}
}

func handleSetInput(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := chat(deps, w, r)
		if !ok {
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		c.SetInput(req.Text)
		writeJSON(w, http.StatusOK, stateOf(c))
	}
}

// handleSendMessage sends the body's text, or the input buffer when the
// body has none. With ?wait=true the response is held until the reply lands.
func handleSendMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := chat(deps, w, r)
		if !ok {
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		var sent bool
		if req.Text != "" {
			sent = c.Send(req.Text)
		} else {
			sent = c.SendInput()
		}
		if sent && r.URL.Query().Get("wait") == "true" {
			awaitReply(r.Context(), c)
		}
		writeJSON(w, http.StatusOK, sentResponse{Sent: sent, Session: stateOf(c)})
	}
}

func awaitReply(ctx context.Context, c *view.Chat) {
	ctx, cancel := context.WithTimeout(ctx, maxReplyWait)
	defer cancel()
	c.Wait(ctx)
}

func handleQuickAction(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := chat(deps, w, r)
		if !ok {
			return
		}
		n, err := strconv.Atoi(chi.URLParam(r, "n"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "quick action index must be a number")
			return
		}
		sent := c.SendQuickAction(n)
		if sent && r.URL.Query().Get("wait") == "true" {
			awaitReply(r.Context(), c)
		}
		writeJSON(w, http.StatusOK, sentResponse{Sent: sent, Session: stateOf(c)})
	}
}

func handleToggleVoice(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := chat(deps, w, r)
		if !ok {
			return
		}
		listening := c.ToggleVoiceCapture()
		writeJSON(w, http.StatusOK, map[string]any{"listening": listening, "session": stateOf(c)})
	}
}
