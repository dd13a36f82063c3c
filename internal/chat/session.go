package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/set-night/routinebot/internal/domain"
)

const (
	PendingRoutine  = "Generating your personalized routine..."
	PendingFollowUp = "Thinking..."

	FailedRoutine  = "Sorry, I could not generate a routine. Please try again."
	FailedFollowUp = "Sorry, I could not answer that. Please try again."
	FailedConnect  = "Error connecting to the advisor. Please try again later."
)

// Completer returns the assistant reply for a message list.
type Completer interface {
	Complete(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

type EventKind int

const (
	// EventPending fires after the user turn is appended, before the request.
	EventPending EventKind = iota
	// EventReply fires after the assistant turn is appended.
	EventReply
	// EventFailed fires when the request failed; no assistant turn was added.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventPending:
		return "pending"
	case EventReply:
		return "reply"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes a transcript change. Text is the pending notice, the
// reply content or the failure placeholder depending on Kind.
type Event struct {
	Kind    EventKind
	History domain.ChatHistory
	Text    string
	Err     error
}

type Listener func(ctx context.Context, ev Event)

type Options struct {
	Model        string
	SystemPrompt string
	// HistoryLimit caps how many turns go out with each request.
	// The system message is always sent. 0 sends everything.
	HistoryLimit int
}

// Session is one conversation with the completion endpoint. At most one
// request is in flight at a time.
type Session struct {
	mu        sync.Mutex
	completer Completer
	opts      Options
	history   domain.ChatHistory
	pending   bool
	listeners []Listener
}

func NewSession(completer Completer, opts Options) *Session {
	return &Session{
		completer: completer,
		opts:      opts,
		history:   domain.NewChatHistory(opts.SystemPrompt),
	}
}

// Subscribe registers fn to receive transcript events.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// History returns a copy of the conversation.
func (s *Session) History() domain.ChatHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone()
}

// Pending reports whether a request is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Generate asks for a routine built from products. An empty selection is
// sent as is.
func (s *Session) Generate(ctx context.Context, products []domain.Product) error {
	content, err := RoutinePrompt(products)
	if err != nil {
		return err
	}
	return s.send(ctx, content, PendingRoutine, FailedRoutine)
}

// FollowUp sends a free-text question. Blank text is rejected with
// ErrEmptyMessage and leaves the history untouched.
func (s *Session) FollowUp(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyMessage
	}
	return s.send(ctx, text, PendingFollowUp, FailedFollowUp)
}

func (s *Session) send(ctx context.Context, content, pendingText, failedText string) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return domain.ErrRequestPending
	}
	s.pending = true
	s.history.Turns = append(s.history.Turns, domain.ChatMessage{Role: domain.RoleUser, Content: content})
	messages := s.history.Window(s.opts.HistoryLimit)
	ev := Event{Kind: EventPending, History: s.history.Clone(), Text: pendingText}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(ctx, listeners, ev)

	reply, err := s.completer.Complete(ctx, s.opts.Model, messages)

	s.mu.Lock()
	s.pending = false
	if err != nil {
		ev = Event{Kind: EventFailed, History: s.history.Clone(), Text: failedText, Err: err}
		if !errors.Is(err, domain.ErrMalformedResponse) {
			ev.Text = FailedConnect
		}
	} else {
		s.history.Turns = append(s.history.Turns, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
		ev = Event{Kind: EventReply, History: s.history.Clone(), Text: reply}
	}
	listeners = s.listenersLocked()
	s.mu.Unlock()

	notify(ctx, listeners, ev)

	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	return nil
}

func (s *Session) listenersLocked() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func notify(ctx context.Context, listeners []Listener, ev Event) {
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

type routineProduct struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RoutinePrompt builds the user message that asks for a routine.
func RoutinePrompt(products []domain.Product) (string, error) {
	reduced := make([]routineProduct, len(products))
	for i, p := range products {
		reduced[i] = routineProduct{
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Description: p.Description,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(reduced); err != nil {
		return "", fmt.Errorf("encode selection: %w", err)
	}

	return fmt.Sprintf(
		"Here are my selected products: %s. Please generate a personalized routine using only these products.",
		strings.TrimRight(buf.String(), "\n"),
	), nil
}
