package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	ReplyDelay time.Duration
	VoiceDelay time.Duration
	Responder  Responder
	Scheduler  Scheduler
	Clock      Clock
	Logger     *slog.Logger
}

// Session is an in-memory chat transcript with a simulated assistant.
// At most one reply is outstanding at a time.
type Session struct {
	opts Options

	mu        sync.Mutex
	messages  []Message
	input     string
	pending   bool
	idle      chan struct{} // closed when the outstanding reply lands
	listening bool
	capture   int // increments per voice capture; stale callbacks compare against it
	closed    bool

	replyTimer Timer
	voiceTimer Timer
}

// NewSession starts a session holding only the greeting.
func NewSession(opts Options) *Session {
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.VoiceDelay <= 0 {
		opts.VoiceDelay = DefaultVoiceDelay
	}
	if opts.Responder == nil {
		opts.Responder = NewCannedResponder(nil)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{opts: opts}
	s.messages = []Message{s.newMessage(Assistant, Greeting)}
	return s
}

// Send appends text as a user message and schedules the assistant's reply.
// It does nothing and returns false when text is blank, a reply is still
// pending, or the session is closed.
func (s *Session) Send(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pending {
		return false
	}

	s.messages = append(s.messages, s.newMessage(User, text))
	s.input = ""
	s.pending = true
	s.idle = make(chan struct{})

	idle := s.idle
	s.replyTimer = s.opts.Scheduler.AfterFunc(s.opts.ReplyDelay, func() {
		s.deliverReply(text, idle)
	})
	return true
}

// SendInput sends the current contents of the input buffer.
func (s *Session) SendInput() bool {
	s.mu.Lock()
	text := s.input
	s.mu.Unlock()
	return s.Send(text)
}

// SendQuickAction sends the query of the i-th quick action.
func (s *Session) SendQuickAction(i int) bool {
	if i < 0 || i >= len(QuickActions) {
		return false
	}
	return s.Send(QuickActions[i].Query)
}

func (s *Session) deliverReply(prompt string, idle chan struct{}) {
	reply := s.opts.Responder.Respond(prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.idle != idle {
		return
	}
	s.messages = append(s.messages, s.newMessage(Assistant, reply))
	s.pending = false
	close(idle)
	s.opts.Logger.Debug("assistant replied", "messages", len(s.messages))
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Input returns the input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// ToggleVoiceCapture flips the listening flag and returns its new value.
// Turning it on schedules the placeholder transcript to be typed into the
// input buffer after the voice delay, unless listening was turned off (or
// restarted) in the meantime.
func (s *Session) ToggleVoiceCapture() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.listening = !s.listening
	s.capture++
	if s.voiceTimer != nil {
		s.voiceTimer.Stop()
		s.voiceTimer = nil
	}
	if !s.listening {
		return false
	}

	capture := s.capture
	s.voiceTimer = s.opts.Scheduler.AfterFunc(s.opts.VoiceDelay, func() {
		s.finishCapture(capture)
	})
	return true
}

func (s *Session) finishCapture(capture int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.listening || s.capture != capture {
		return
	}
	s.input = VoiceTranscript
	s.listening = false
}

// Wait blocks until no reply is pending or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Snapshot returns a copy of the whole session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return State{
		Messages:  msgs,
		Input:     s.input,
		Pending:   s.pending,
		Listening: s.listening,
	}
}

// Close tears the session down. Pending timers are stopped; a callback that
// still fires afterwards leaves the session untouched. Waiters are released.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, t := range []Timer{s.replyTimer, s.voiceTimer} {
		if t != nil {
			t.Stop()
		}
	}
	if s.pending {
		s.pending = false
		close(s.idle)
	}
	s.listening = false
}

func (s *Session) newMessage(sender Sender, text string) Message {
	return Message{
		ID:     uuid.NewString(),
		Sender: sender,
		Text:   text,
		SentAt: s.opts.Clock.Now(),
	}
}
