package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/spigell/powerus/internal/conversation"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/roster"
)

func seeded(t *testing.T) (*conversation.Store, string) {
	t.Helper()

	conversations := conversation.NewStore()
	id := conversations.Ensure("")
	w, ok := roster.Default().Find("w2")
	if !ok {
		t.Fatalf("expected sample worker w2")
	}

	offers := []conversation.Offer{{
		Worker: w,
		Score:  0.9,
		Quote:  &pricing.Result{Total: 170.83, Source: pricing.SourceFallback},
	}}
	if err := conversations.Record(id, problem.Default(), offers); err != nil {
		t.Fatalf("Record: %v", err)
	}
	return conversations, id
}

func TestBook(t *testing.T) {
	conversations, id := seeded(t)
	store := NewStore(conversations)

	b, err := store.Book(id, "w2")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if b.ID == "" || b.WorkerName != "Rick Martinez" || b.Trade != "Plumber" || b.Total != 170.83 || b.Source != pricing.SourceFallback {
		t.Fatalf("unexpected booking: %#v", b)
	}
	if b.CreatedAt.IsZero() {
		t.Fatalf("expected creation time")
	}

	got, err := store.Get(b.ID)
	if err != nil || got != b {
		t.Fatalf("Get = %#v, %v", got, err)
	}
	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookRejectsUnknownReferences(t *testing.T) {
	conversations, id := seeded(t)
	store := NewStore(conversations)

	if _, err := store.Book("missing", "w2"); !errors.Is(err, ErrUnknownConversation) {
		t.Fatalf("expected ErrUnknownConversation, got %v", err)
	}
	if _, err := store.Book(id, "w1"); !errors.Is(err, ErrUnknownWorker) {
		t.Fatalf("expected ErrUnknownWorker, got %v", err)
	}
	if len(store.List()) != 0 {
		t.Fatalf("expected no bookings")
	}
}

func TestListIsOrdered(t *testing.T) {
	conversations, id := seeded(t)
	store := NewStore(conversations)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, _ := store.Book(id, "w2")
	second, _ := store.Book(id, "w2")

	list := store.List()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("unexpected order: %#v", list)
	}
}
