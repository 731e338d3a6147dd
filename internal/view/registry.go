package view

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/khet/internal/assistant"
)

// Chat is one mounted assistant view.
type Chat struct {
	ID string
	*assistant.Session
}

// Options configures a Registry.
type Options struct {
	// Now returns the current time in the farm's location.
	Now func() time.Time
	// Assistant is applied to every new session.
	Assistant assistant.Options
	// IdleTTL is how long an untouched instance survives a Sweep.
	// Zero disables reaping.
	IdleTTL time.Duration
	Logger  *slog.Logger
}

type logEntry struct {
	log      *ActivityLog
	lastSeen time.Time
}

type chatEntry struct {
	chat     *Chat
	lastSeen time.Time
}

// Registry holds the mounted view instances. Instances share no state.
type Registry struct {
	opts  Options
	newID func() string

	mu    sync.Mutex
	logs  map[string]*logEntry
	chats map[string]*chatEntry
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Assistant.Logger == nil {
		opts.Assistant.Logger = opts.Logger
	}
	return &Registry{
		opts:  opts,
		newID: uuid.NewString,
		logs:  make(map[string]*logEntry),
		chats: make(map[string]*chatEntry),
	}
}

// Now returns the registry's current time.
func (r *Registry) Now() time.Time { return r.opts.Now() }

// MountActivityLog creates an activity log seeded with the sample records.
func (r *Registry) MountActivityLog() *ActivityLog {
	l := newActivityLog(r.newID(), r.opts.Now)

	r.mu.Lock()
	r.logs[l.ID] = &logEntry{log: l, lastSeen: r.opts.Now()}
	r.mu.Unlock()

	r.opts.Logger.Debug("activity log mounted", "id", l.ID)
	return l
}

// ActivityLog returns the mounted log with id and marks it as used.
func (r *Registry) ActivityLog(id string) (*ActivityLog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.logs[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.opts.Now()
	return e.log, true
}

// UnmountActivityLog drops the log with id and all its records.
func (r *Registry) UnmountActivityLog(id string) bool {
	r.mu.Lock()
	_, ok := r.logs[id]
	delete(r.logs, id)
	r.mu.Unlock()

	if ok {
		r.opts.Logger.Debug("activity log unmounted", "id", id)
	}
	return ok
}

// MountAssistant starts a new assistant session.
func (r *Registry) MountAssistant() *Chat {
	c := &Chat{ID: r.newID(), Session: assistant.NewSession(r.opts.Assistant)}

	r.mu.Lock()
	r.chats[c.ID] = &chatEntry{chat: c, lastSeen: r.opts.Now()}
	r.mu.Unlock()

	r.opts.Logger.Debug("assistant mounted", "id", c.ID)
	return c
}

// Assistant returns the mounted session with id and marks it as used.
func (r *Registry) Assistant(id string) (*Chat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.chats[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.opts.Now()
	return e.chat, true
}

// UnmountAssistant closes and drops the session with id.
func (r *Registry) UnmountAssistant(id string) bool {
	r.mu.Lock()
	e, ok := r.chats[id]
	delete(r.chats, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.chat.Close()
	r.opts.Logger.Debug("assistant unmounted", "id", id)
	return true
}

// Counts returns the number of mounted activity logs and assistants.
func (r *Registry) Counts() (logs, chats int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs), len(r.chats)
}

// Sweep unmounts every instance not used since now minus the idle TTL and
// returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.opts.IdleTTL)

	r.mu.Lock()
	var closing []*Chat
	removed := 0
	for id, e := range r.logs {
		if e.lastSeen.Before(cutoff) {
			delete(r.logs, id)
			removed++
		}
	}
	for id, e := range r.chats {
		if e.lastSeen.Before(cutoff) {
			delete(r.chats, id)
			closing = append(closing, e.chat)
			removed++
		}
	}
	r.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
	return removed
}

// Close unmounts everything.
func (r *Registry) Close() {
	r.mu.Lock()
	chats := r.chats
	r.logs = make(map[string]*logEntry)
	r.chats = make(map[string]*chatEntry)
	r.mu.Unlock()

	for _, e := range chats {
		e.chat.Close()
	}
}
