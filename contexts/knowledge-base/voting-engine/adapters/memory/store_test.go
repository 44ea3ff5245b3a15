package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	"quorum/contexts/knowledge-base/voting-engine/ports"
)

func TestStoreVotableRoundTripIsolated(t *testing.T) {
	store := NewStore()
	store.SeedQuestion("q-1", "author-1")

	votable, err := store.GetVotable(context.Background(), entities.VotableKindQuestion, "q-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	// Mutating the returned copy must not leak into the store.
	votable.AddUpvoter("voter-1")
	votable.RecomputeScore()

	fresh, err := store.GetVotable(context.Background(), entities.VotableKindQuestion, "q-1")
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if len(fresh.Upvoters) != 0 || fresh.Score != 0 {
		t.Fatalf("store state leaked through returned copy: %+v", fresh)
	}

	if err := store.SaveVotable(context.Background(), votable); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	saved, _ := store.GetVotable(context.Background(), entities.VotableKindQuestion, "q-1")
	if saved.Score != 1 {
		t.Fatalf("expected saved score 1, got %d", saved.Score)
	}
}

func TestStoreMissingVotable(t *testing.T) {
	store := NewStore()
	_, err := store.GetVotable(context.Background(), entities.VotableKindAnswer, "missing")
	if !errors.Is(err, domainerrors.ErrTargetNotFound) {
		t.Fatalf("expected target not found, got %v", err)
	}
}

func TestStoreSetAcceptedMovesFlag(t *testing.T) {
	store := NewStore()
	store.SeedQuestion("q-1", "asker")
	store.SeedAnswer("a-1", "q-1", "answerer-1")
	store.SeedAnswer("a-2", "q-1", "answerer-2")

	if err := store.SetAccepted(context.Background(), "q-1", "a-1", ""); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if err := store.SetAccepted(context.Background(), "q-1", "a-2", "a-1"); err != nil {
		t.Fatalf("move accept failed: %v", err)
	}

	first, _ := store.AnswerStateOf("a-1")
	second, _ := store.AnswerStateOf("a-2")
	question, _ := store.QuestionStateOf("q-1")
	if first.IsAccepted || !second.IsAccepted || question.AcceptedAnswerID != "a-2" {
		t.Fatalf("acceptance state wrong: first=%+v second=%+v question=%+v", first, second, question)
	}
}

func TestStoreOutboxLifecycle(t *testing.T) {
	store := NewStore()

	event := ports.EventEnvelope{
		EventID:   "event-1",
		EventType: "vote.applied",
	}
	if err := store.AppendOutbox(context.Background(), event); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending row, got %d", len(pending))
	}

	if err := store.MarkOutboxPublished(context.Background(), pending[0].OutboxID, time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after publish, got %d", len(pending))
	}
}

func TestStoreFailSecondaryWrites(t *testing.T) {
	store := NewStore()
	store.FailSecondaryWrites(true, true)

	if err := store.ApplyReputationDelta(context.Background(), "account-1", 5); err == nil {
		t.Fatalf("expected reputation write to fail")
	}
	if err := store.EmitNotification(context.Background(), ports.Notification{RecipientID: "account-1"}); err == nil {
		t.Fatalf("expected notification write to fail")
	}

	store.FailSecondaryWrites(false, false)
	if err := store.ApplyReputationDelta(context.Background(), "account-1", 5); err != nil {
		t.Fatalf("reputation write failed after reset: %v", err)
	}
	if got := store.ReputationOf("account-1"); got != 5 {
		t.Fatalf("expected reputation 5, got %d", got)
	}
}
