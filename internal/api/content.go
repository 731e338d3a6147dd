package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/khet/internal/activity"
	"github.com/kalambet/khet/internal/advisory"
	"github.com/kalambet/khet/internal/catalog"
	"github.com/kalambet/khet/internal/dashboard"
)

func handleHome(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := dashboard.BuildHome(deps.Catalog)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "building homepage: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, home)
	}
}

// handleDashboard shows the recent records of the activity log named by
// ?log=, or the sample records when none is given.
func handleDashboard(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := deps.Views.Now()

		records := activity.Seed(now)
		if id := r.URL.Query().Get("log"); id != "" {
			l, ok := deps.Views.ActivityLog(id)
			if !ok {
				httpError(w, http.StatusNotFound, "not_found_error", "activity log %q not found", id)
				return
			}
			records = l.Store().List()
		}

		d, err := dashboard.Build(deps.Catalog, now, records)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "building dashboard: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func handleAdvisory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := advisory.Filter{
			Category: advisory.Category(q.Get("category")),
			Priority: advisory.Priority(q.Get("priority")),
		}

		board, err := advisory.BuildBoard(deps.Catalog, f)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "building advisory board: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func handleGetAdvisory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		a, err := deps.Catalog.GetAdvisory(id)
		if errors.Is(err, catalog.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "advisory %q not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading advisory: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, advisory.Present(a))
	}
}
