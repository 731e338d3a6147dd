package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/khet/internal/activity"
	"github.com/kalambet/khet/internal/view"
)

// AddRecordRequest is the body of POST /activity/{vid}/records.
type AddRecordRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Field       string `json:"field"`
	Notes       string `json:"notes"`
	Date        string `json:"date"` // YYYY-MM-DD or RFC 3339; empty means now
}

type addedResponse struct {
	Added bool          `json:"added"`
	ID    string        `json:"id,omitempty"`
	Log   view.LogState `json:"log"`
}

type removedResponse struct {
	Removed bool `json:"removed"`
}

func activityLog(deps Deps, w http.ResponseWriter, r *http.Request) (*view.ActivityLog, bool) {
	id := chi.URLParam(r, "vid")
	l, ok := deps.Views.ActivityLog(id)
	if !ok {
		httpError(w, http.StatusNotFound, "not_found_error", "activity log %q not found", id)
		return nil, false
	}
	return l, true
}

func handleMountActivityLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := deps.Views.MountActivityLog()
		writeJSON(w, http.StatusCreated, l.State())
	}
}

func handleGetActivityLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := activityLog(deps, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, l.State())
	}
}

func handleUnmountActivityLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "vid")
		if !deps.Views.UnmountActivityLog(id) {
			httpError(w, http.StatusNotFound, "not_found_error", "activity log %q not found", id)
			return
		}
		writeJSON(w, http.StatusOK, removedResponse{Removed: true})
	}
}

func handleSelectDate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := activityLog(deps, w, r)
		if !ok {
			return
		}
		var req struct {
			Date string `json:"date"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := l.SelectDateString(req.Date); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid date %q: want YYYY-MM-DD", req.Date)
			return
		}
		writeJSON(w, http.StatusOK, l.State())
	}
}

func handleUpdateForm(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := activityLog(deps, w, r)
		if !ok {
			return
		}
		var f activity.Form
		if !decodeBody(w, r, &f) {
			return
		}
		l.UpdateForm(f)
		writeJSON(w, http.StatusOK, l.State())
	}
}

func handleCommitForm(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := activityLog(deps, w, r)
		if !ok {
			return
		}
		added := l.Commit()
		writeJSON(w, http.StatusOK, addedResponse{Added: added, Log: l.State()})
	}
}

func handleAddRecord(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := activityLog(deps, w, r)
		if !ok {
			return
		}
		var req AddRecordRequest
		if !decodeBody(w, r, &req) {
			return
		}

		now := deps.Views.Now()
		date, err := parseRecordDate(req.Date, now)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid date %q: want YYYY-MM-DD or RFC 3339", req.Date)
			return
		}

		rec := activity.Record{
			ID:          uuid.NewString(),
			Date:        date,
			Type:        activity.Type(req.Type),
			Description: req.Description,
			Field:       req.Field,
			Notes:       req.Notes,
		}
		resp := addedResponse{Added: l.Store().Add(rec)}
		if resp.Added {
			resp.ID = rec.ID
		}
		resp.Log = l.State()
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseRecordDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, now.Location())
}

func handleRemoveRecord(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := activityLog(deps, w, r)
		if !ok {
			return
		}
		removed := l.Store().Remove(chi.URLParam(r, "id"))
		writeJSON(w, http.StatusOK, removedResponse{Removed: removed})
	}
}
