package view

import (
	"sync"
	"time"

	"github.com/kalambet/khet/internal/activity"
)

// dateLayout is the wire format of a selected calendar day.
const dateLayout = "2006-01-02"

// ActivityLog is one mounted activity log: its own record store, selected
// calendar day and new-activity form.
type ActivityLog struct {
	ID string

	store *activity.Store
	now   func() time.Time

	mu       sync.Mutex
	selected time.Time // start of day; zero means all days
	form     activity.Form
}

// Entry is a record with its presentation.
type Entry struct {
	activity.Record
	Presentation activity.Presentation `json:"presentation"`
}

// LogState is what the activity log view shows.
type LogState struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Selected   string               `json:"selected_date,omitempty"`
	Activities []Entry              `json:"activities"`
	Count      int                  `json:"count"`
	Empty      string               `json:"empty,omitempty"`
	Summary    []activity.TypeCount `json:"summary"`
	Dates      []string             `json:"dates"`
	Form       activity.Form        `json:"form"`
}

// newActivityLog opens a seeded log showing today.
func newActivityLog(id string, now func() time.Time) *ActivityLog {
	t := now()
	return &ActivityLog{
		ID:       id,
		store:    activity.NewSeededStore(t),
		now:      now,
		selected: startOfDay(t),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Store returns the log's record store.
func (l *ActivityLog) Store() *activity.Store { return l.store }

// SelectDate sets the calendar day to filter by. A zero day clears the
// selection.
func (l *ActivityLog) SelectDate(day time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if day.IsZero() {
		l.selected = time.Time{}
		return
	}
	l.selected = startOfDay(day)
}

// SelectDateString parses a YYYY-MM-DD day in the log's location and
// selects it. An empty string clears the selection.
func (l *ActivityLog) SelectDateString(s string) error {
	if s == "" {
		l.SelectDate(time.Time{})
		return nil
	}
	day, err := time.ParseInLocation(dateLayout, s, l.now().Location())
	if err != nil {
		return err
	}
	l.SelectDate(day)
	return nil
}

// Selected returns the selected day, zero when all days are shown.
func (l *ActivityLog) Selected() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// UpdateForm replaces the form buffer.
func (l *ActivityLog) UpdateForm(f activity.Form) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = f
}

// Form returns the form buffer.
func (l *ActivityLog) Form() activity.Form {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form
}

// Commit adds the form's record. It is dated now when today or all days
// are shown, else the start of the selected day.
func (l *ActivityLog) Commit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	date := l.now()
	if !l.selected.IsZero() && !l.selected.Equal(startOfDay(date.In(l.selected.Location()))) {
		date = l.selected
	}
	return l.form.Commit(l.store, date)
}

// State projects the log for display.
func (l *ActivityLog) State() LogState {
	l.mu.Lock()
	selected, form := l.selected, l.form
	l.mu.Unlock()

	records := activity.FilterByDate(l.store.List(), selected)
	st := LogState{
		ID:         l.ID,
		Title:      "Activities for All Days",
		Activities: make([]Entry, len(records)),
		Count:      len(records),
		Summary:    activity.Summarize(records),
		Form:       form,
	}
	if !selected.IsZero() {
		st.Title = "Activities for " + selected.Format("1/2/2006")
		st.Selected = selected.Format(dateLayout)
	}
	if len(records) == 0 {
		st.Empty = "No activities found"
	}
	for i, r := range records {
		st.Activities[i] = Entry{Record: r, Presentation: activity.Present(r.Type)}
	}
	for _, d := range l.store.Dates() {
		st.Dates = append(st.Dates, d.Format(dateLayout))
	}
	return st
}
