package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/set-night/routinebot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)

func (f completerFunc) Complete(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	return f(ctx, model, messages)
}

func reply(text string) completerFunc {
	return func(context.Context, string, []domain.ChatMessage) (string, error) {
		return text, nil
	}
}

func fail(err error) completerFunc {
	return func(context.Context, string, []domain.ChatMessage) (string, error) {
		return "", err
	}
}

func newSession(c Completer) *Session {
	return NewSession(c, Options{Model: "gpt-4o", SystemPrompt: "sys"})
}

func TestGenerateAppendsUserAndAssistant(t *testing.T) {
	var sent []domain.ChatMessage
	var model string
	s := newSession(completerFunc(func(_ context.Context, m string, msgs []domain.ChatMessage) (string, error) {
		model = m
		sent = msgs
		return "Morning: cleanser.", nil
	}))

	products := []domain.Product{{ID: 1, Name: "Cleanser", Brand: "CeraVe", Category: "cleanser", Description: "Gentle", Image: "x.jpg"}}
	require.NoError(t, s.Generate(context.Background(), products))

	h := s.History()
	require.Len(t, h.Turns, 2)
	assert.Equal(t, domain.RoleUser, h.Turns[0].Role)
	assert.Equal(t, domain.ChatMessage{Role: domain.RoleAssistant, Content: "Morning: cleanser."}, h.Turns[1])

	assert.Equal(t, "gpt-4o", model)
	require.Len(t, sent, 2)
	assert.Equal(t, domain.RoleSystem, sent[0].Role)
	assert.Equal(t, h.Turns[0], sent[1])
}

func TestRoutinePromptEmbedsReducedSelection(t *testing.T) {
	msg, err := RoutinePrompt([]domain.Product{
		{ID: 7, Name: "Serum & Oil", Brand: "L'Oréal", Category: "skincare", Description: "<b>glow</b>", Image: "i.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		`Here are my selected products: [{"name":"Serum & Oil","brand":"L'Oréal","category":"skincare","description":"<b>glow</b>"}]. `+
			`Please generate a personalized routine using only these products.`,
		msg)
}

func TestGenerateWithEmptySelectionStillSends(t *testing.T) {
	s := newSession(reply("Pick some products first."))

	require.NoError(t, s.Generate(context.Background(), nil))

	h := s.History()
	require.Len(t, h.Turns, 2)
	assert.Contains(t, h.Turns[0].Content, "selected products: []")
}

func TestFollowUpBlankIsNoop(t *testing.T) {
	called := false
	s := newSession(completerFunc(func(context.Context, string, []domain.ChatMessage) (string, error) {
		called = true
		return "x", nil
	}))
	var events int
	s.Subscribe(func(context.Context, Event) { events++ })

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.ErrorIs(t, s.FollowUp(context.Background(), text), domain.ErrEmptyMessage)
	}

	assert.False(t, called)
	assert.Zero(t, events)
	assert.Empty(t, s.History().Turns)
}

func TestFollowUpSendsWholeHistory(t *testing.T) {
	var lens []int
	s := newSession(completerFunc(func(_ context.Context, _ string, msgs []domain.ChatMessage) (string, error) {
		lens = append(lens, len(msgs))
		return "answer", nil
	}))
	ctx := context.Background()

	require.NoError(t, s.Generate(ctx, nil))
	require.NoError(t, s.FollowUp(ctx, "morning or night?"))
	require.NoError(t, s.FollowUp(ctx, "and sunscreen?"))

	assert.Equal(t, []int{2, 4, 6}, lens)
	assert.Len(t, s.History().Messages(), 7)
}

func TestHistoryLimitCapsRequestNotHistory(t *testing.T) {
	var last []domain.ChatMessage
	s := NewSession(completerFunc(func(_ context.Context, _ string, msgs []domain.ChatMessage) (string, error) {
		last = msgs
		return "ok", nil
	}), Options{Model: "m", SystemPrompt: "sys", HistoryLimit: 3})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.FollowUp(ctx, fmt.Sprintf("q%d", i)))
	}

	require.Len(t, last, 4)
	assert.Equal(t, domain.RoleSystem, last[0].Role)
	assert.Equal(t, "q3", last[3].Content)
	assert.Len(t, s.History().Turns, 8)
}

func TestMalformedResponseAddsNoAssistantTurn(t *testing.T) {
	s := newSession(fail(fmt.Errorf("no content: %w", domain.ErrMalformedResponse)))
	var events []Event
	s.Subscribe(func(_ context.Context, ev Event) { events = append(events, ev) })

	err := s.FollowUp(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	h := s.History()
	require.Len(t, h.Turns, 1)
	assert.Equal(t, domain.RoleUser, h.Turns[0].Role)

	require.Len(t, events, 2)
	assert.Equal(t, EventPending, events[0].Kind)
	assert.Equal(t, PendingFollowUp, events[0].Text)
	assert.Equal(t, EventFailed, events[1].Kind)
	assert.Equal(t, FailedFollowUp, events[1].Text)
}

func TestTransportFailureUsesConnectPlaceholder(t *testing.T) {
	s := newSession(fail(errors.New("dial tcp: connection refused")))
	var last Event
	s.Subscribe(func(_ context.Context, ev Event) { last = ev })

	require.Error(t, s.Generate(context.Background(), nil))

	assert.Equal(t, EventFailed, last.Kind)
	assert.Equal(t, FailedConnect, last.Text)
	assert.Len(t, s.History().Turns, 1)
}

func TestRetryAfterFailure(t *testing.T) {
	calls := 0
	s := newSession(completerFunc(func(context.Context, string, []domain.ChatMessage) (string, error) {
		calls++
		if calls == 1 {
			return "", domain.ErrMalformedResponse
		}
		return "second time lucky", nil
	}))
	ctx := context.Background()

	require.Error(t, s.FollowUp(ctx, "hi"))
	require.NoError(t, s.FollowUp(ctx, "hi"))

	turns := s.History().Turns
	require.Len(t, turns, 3)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, domain.RoleUser, turns[1].Role)
	assert.Equal(t, "second time lucky", turns[2].Content)
}

func TestSuccessEventsCarryReply(t *testing.T) {
	s := newSession(reply("Use it twice a day."))
	var events []Event
	s.Subscribe(func(_ context.Context, ev Event) { events = append(events, ev) })

	require.NoError(t, s.Generate(context.Background(), nil))

	require.Len(t, events, 2)
	assert.Equal(t, EventPending, events[0].Kind)
	assert.Equal(t, PendingRoutine, events[0].Text)
	assert.Len(t, events[0].History.Turns, 1)
	assert.Equal(t, EventReply, events[1].Kind)
	assert.Equal(t, "Use it twice a day.", events[1].Text)
	assert.Len(t, events[1].History.Turns, 2)
}

func TestSecondRequestWhilePendingIsRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := newSession(completerFunc(func(context.Context, string, []domain.ChatMessage) (string, error) {
		close(started)
		<-release
		return "done", nil
	}))
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- s.FollowUp(ctx, "first") }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("completer not called")
	}
	assert.True(t, s.Pending())
	assert.ErrorIs(t, s.FollowUp(ctx, "second"), domain.ErrRequestPending)

	close(release)
	require.NoError(t, <-errc)

	turns := s.History().Turns
	require.Len(t, turns, 2)
	assert.Equal(t, "first", turns[0].Content)
	assert.False(t, s.Pending())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "pending", EventPending.String())
	assert.Equal(t, "reply", EventReply.String())
	assert.Equal(t, "failed", EventFailed.String())
}
