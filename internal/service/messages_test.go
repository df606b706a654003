package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alvaro-reta/solari-market/internal/apperror"
)

func TestSend_Validation(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	alice := m.seedUser(t, "alia", 0)
	bob := m.seedUser(t, "duncan", 0)

	if _, err := m.messages.Send(ctx, alice, "", "hello", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Send(no recipient) = %v, want ErrValidation", err)
	}
	if _, err := m.messages.Send(ctx, alice, alice.ID, "hello", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Send(to self) = %v, want ErrValidation", err)
	}
	if _, err := m.messages.Send(ctx, alice, bob.ID, "   ", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Send(blank content) = %v, want ErrValidation", err)
	}
	long := strings.Repeat("x", MaxMessageLength+1)
	if _, err := m.messages.Send(ctx, alice, bob.ID, long, ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Send(too long) = %v, want ErrValidation", err)
	}
	if _, err := m.messages.Send(ctx, alice, "no-such-user", "hello", ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Send(unknown recipient) = %v, want ErrNotFound", err)
	}
}

func TestSend_AppendsUnread(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	alice := m.seedUser(t, "alia", 0)
	bob := m.seedUser(t, "duncan", 0)

	msg, err := m.messages.Send(ctx, alice, bob.ID, "the sleeper has awakened", "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.ID == "" {
		t.Error("sent message has no ID")
	}
	if msg.Read {
		t.Error("new message should start unread")
	}
}

func TestConversation_BothDirectionsChronological(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	alice := m.seedUser(t, "alia", 0)
	bob := m.seedUser(t, "duncan", 0)
	eve := m.seedUser(t, "irulan", 0)

	if _, err := m.messages.Send(ctx, alice, bob.ID, "first", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := m.messages.Send(ctx, bob, alice.ID, "second", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	// Noise from a third party must not leak into the conversation.
	if _, err := m.messages.Send(ctx, eve, alice.ID, "unrelated", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := m.messages.Send(ctx, alice, bob.ID, "third", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	views, err := m.messages.Conversation(ctx, alice, bob.ID)
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d messages, want 3", len(views))
	}
	got := []string{views[0].Content, views[1].Content, views[2].Content}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(views); i++ {
		if views[i].CreatedAt.Before(views[i-1].CreatedAt) {
			t.Errorf("message %d out of chronological order", i)
		}
	}

	if views[0].From == nil || views[0].From.Username != "alia" {
		t.Errorf("From = %+v, want alia's profile", views[0].From)
	}
	if views[1].From == nil || views[1].From.Username != "duncan" {
		t.Errorf("From = %+v, want duncan's profile", views[1].From)
	}
}

func TestConversation_MarksIncomingRead(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	alice := m.seedUser(t, "alia", 0)
	bob := m.seedUser(t, "duncan", 0)

	if _, err := m.messages.Send(ctx, bob, alice.ID, "ping", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := m.messages.Send(ctx, alice, bob.ID, "pong", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	views, err := m.messages.Conversation(ctx, alice, bob.ID)
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if !views[0].Read {
		t.Error("incoming message not marked read in response")
	}

	// The flip must be persisted, not just reflected in the response.
	stored, err := m.db.Messages.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, msg := range stored {
		if msg.ToID == alice.ID && !msg.Read {
			t.Errorf("message %s to alice still unread in store", msg.ID)
		}
		if msg.ToID == bob.ID && msg.Read {
			t.Errorf("message %s to bob marked read without bob fetching", msg.ID)
		}
	}
}

func TestConversation_MarkReadFailureIsNonFatal(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	alice := m.seedUser(t, "alia", 0)
	bob := m.seedUser(t, "duncan", 0)

	if _, err := m.messages.Send(ctx, bob, alice.ID, "ping", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	m.store.FailWritesAfter(0, errors.New("quota exceeded"))

	views, err := m.messages.Conversation(ctx, alice, bob.ID)
	if err != nil {
		t.Fatalf("Conversation() with failing writes error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d messages, want 1", len(views))
	}
	if views[0].Read {
		t.Error("message reported read although the flip was not persisted")
	}
}

// Guards against the sent timestamp drifting away from wall time, which
// would break chronological ordering across sessions.
func TestSend_TimestampIsRecent(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	alice := m.seedUser(t, "alia", 0)
	bob := m.seedUser(t, "duncan", 0)

	before := time.Now().UTC().Add(-time.Second)
	msg, err := m.messages.Send(ctx, alice, bob.ID, "hello", "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	after := time.Now().UTC().Add(time.Second)
	if msg.CreatedAt.Before(before) || msg.CreatedAt.After(after) {
		t.Errorf("CreatedAt = %v, want within [%v, %v]", msg.CreatedAt, before, after)
	}
}
