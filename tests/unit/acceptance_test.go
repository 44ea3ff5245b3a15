package unit

import (
	"context"
	"errors"
	"testing"

	votingengine "quorum/contexts/knowledge-base/voting-engine"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
)

func TestAcceptAnswerAwardsAndNotifies(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "asker-1")
	module.Store.SeedAnswer("answer-1", "question-1", "answerer-1")
	module.Store.SetReputation("answerer-1", 0)

	resp, err := module.Handler.AcceptAnswerHandler(context.Background(), "asker-1", "question-1", "answer-1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if resp.Message == "" {
		t.Fatalf("expected a success message")
	}

	answer, ok := module.Store.AnswerStateOf("answer-1")
	if !ok || !answer.IsAccepted {
		t.Fatalf("expected answer-1 accepted, got %+v", answer)
	}
	question, _ := module.Store.QuestionStateOf("question-1")
	if question.AcceptedAnswerID != "answer-1" {
		t.Fatalf("expected accepted_answer_id answer-1, got %q", question.AcceptedAnswerID)
	}
	if got := module.Store.ReputationOf("answerer-1"); got != 15 {
		t.Fatalf("expected +15 acceptance award, got %d", got)
	}

	notifications := module.Store.Notifications()
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}
	if notifications[0].RecipientID != "answerer-1" || notifications[0].Type != "answer_accepted" {
		t.Fatalf("unexpected notification: %+v", notifications[0])
	}
}

func TestAcceptSecondAnswerClearsFirst(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "asker-1")
	module.Store.SeedAnswer("answer-1", "question-1", "answerer-1")
	module.Store.SeedAnswer("answer-2", "question-1", "answerer-2")
	module.Store.SetReputation("answerer-1", 0)
	module.Store.SetReputation("answerer-2", 0)

	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), "asker-1", "question-1", "answer-1"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), "asker-1", "question-1", "answer-2"); err != nil {
		t.Fatalf("second accept failed: %v", err)
	}

	first, _ := module.Store.AnswerStateOf("answer-1")
	second, _ := module.Store.AnswerStateOf("answer-2")
	if first.IsAccepted {
		t.Fatalf("expected answer-1 cleared after re-acceptance")
	}
	if !second.IsAccepted {
		t.Fatalf("expected answer-2 accepted")
	}
	question, _ := module.Store.QuestionStateOf("question-1")
	if question.AcceptedAnswerID != "answer-2" {
		t.Fatalf("expected accepted_answer_id answer-2, got %q", question.AcceptedAnswerID)
	}

	// The first answerer's +15 is not reversed when acceptance moves.
	if got := module.Store.ReputationOf("answerer-1"); got != 15 {
		t.Fatalf("expected answerer-1 to keep +15, got %d", got)
	}
	if got := module.Store.ReputationOf("answerer-2"); got != 15 {
		t.Fatalf("expected answerer-2 awarded +15, got %d", got)
	}
}

func TestReacceptSameAnswerReawards(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "asker-1")
	module.Store.SeedAnswer("answer-1", "question-1", "answerer-1")
	module.Store.SetReputation("answerer-1", 0)

	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), "asker-1", "question-1", "answer-1"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), "asker-1", "question-1", "answer-1"); err != nil {
		t.Fatalf("re-accept failed: %v", err)
	}
	// Accepting the already-accepted answer re-applies the award.
	if got := module.Store.ReputationOf("answerer-1"); got != 30 {
		t.Fatalf("expected 30 after re-accept, got %d", got)
	}
}

func TestAcceptRequiresQuestionAuthor(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "asker-1")
	module.Store.SeedAnswer("answer-1", "question-1", "answerer-1")

	_, err := module.Handler.AcceptAnswerHandler(context.Background(), "someone-else", "question-1", "answer-1")
	if !errors.Is(err, domainerrors.ErrNotQuestionAuthor) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	answer, _ := module.Store.AnswerStateOf("answer-1")
	if answer.IsAccepted {
		t.Fatalf("forbidden accept must not mutate the answer")
	}
}

func TestAcceptRejectsAnswerFromOtherQuestion(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "asker-1")
	module.Store.SeedQuestion("question-2", "asker-1")
	module.Store.SeedAnswer("answer-1", "question-2", "answerer-1")

	_, err := module.Handler.AcceptAnswerHandler(context.Background(), "asker-1", "question-1", "answer-1")
	if !errors.Is(err, domainerrors.ErrAnswerMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}
