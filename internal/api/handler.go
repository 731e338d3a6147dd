package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/khet/internal/advisory"
	"github.com/kalambet/khet/internal/dashboard"
	"github.com/kalambet/khet/internal/view"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Catalog is the read-only seeded content the views draw from.
// Implemented by catalog.Store.
type Catalog interface {
	advisory.Source
	dashboard.Source
	dashboard.HomeSource
	GetAdvisory(id string) (advisory.Advisory, error)
}

// Deps holds dependencies for the HTTP handler.
type Deps struct {
	Catalog Catalog
	Views   *view.Registry
	Token   string // optional; when set every route but /health requires it
	Logger  *slog.Logger
}

// NewHandler returns the http.Handler serving every view.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.NotFound(handleNotFound(deps))

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}

		r.Get("/api/views", handleViews)
		r.Get("/", handleHome(deps))
		r.Get("/dashboard", handleDashboard(deps))
		r.Get("/advisory", handleAdvisory(deps))
		r.Get("/advisory/{id}", handleGetAdvisory(deps))

		r.Route("/activity", func(r chi.Router) {
			r.Post("/", handleMountActivityLog(deps))
			r.Route("/{vid}", func(r chi.Router) {
				r.Get("/", handleGetActivityLog(deps))
				r.Delete("/", handleUnmountActivityLog(deps))
				r.Put("/date", handleSelectDate(deps))
				r.Put("/form", handleUpdateForm(deps))
				r.Post("/form/commit", handleCommitForm(deps))
				r.Post("/records", handleAddRecord(deps))
				r.Delete("/records/{id}", handleRemoveRecord(deps))
			})
		})

		r.Route("/chatbot", func(r chi.Router) {
			r.Post("/", handleMountAssistant(deps))
			r.Route("/{vid}", func(r chi.Router) {
				r.Get("/", handleGetAssistant(deps))
				r.Delete("/", handleUnmountAssistant(deps))
				r.Put("/input", handleSetInput(deps))
				r.Post("/messages", handleSendMessage(deps))
				r.Post("/quick/{n}", handleQuickAction(deps))
				r.Post("/voice", handleToggleVoice(deps))
			})
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"views": view.Views})
}

type notFoundResponse struct {
	View    view.View `json:"view"`
	Message string    `json:"message"`
	Home    string    `json:"home"`
}

func handleNotFound(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Logger.Warn("no view for path", "path", r.URL.Path)
		home, _ := view.ByName(view.Home)
		writeJSON(w, http.StatusNotFound, notFoundResponse{
			View:    view.Resolve(r.URL.Path),
			Message: "Oops! Page not found",
			Home:    home.Path,
		})
	}
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
