package unit

import (
	"context"
	"errors"
	"testing"

	answerservice "quorum/contexts/knowledge-base/answer-service"
	domainerrors "quorum/contexts/knowledge-base/answer-service/domain/errors"
	"quorum/contexts/knowledge-base/answer-service/ports"
	httptransport "quorum/contexts/knowledge-base/answer-service/transport/http"
)

type recordingEmitter struct {
	emitted []ports.Notification
}

func (r *recordingEmitter) EmitNotification(_ context.Context, notification ports.Notification) error {
	r.emitted = append(r.emitted, notification)
	return nil
}

func TestPostAnswerSideEffects(t *testing.T) {
	activity := &countingActivity{}
	emitter := &recordingEmitter{}
	module := answerservice.NewInMemoryModule(activity, emitter, nil)
	module.Store.SeedQuestion(ports.QuestionSummary{
		QuestionID: "question-1",
		AuthorID:   "asker-1",
	})

	posted, err := module.Handler.PostHandler(context.Background(), "answerer-1", "question-1", httptransport.PostAnswerRequest{
		Body: "Use a buffered channel.",
	})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if posted.AnswerID == "" || posted.QuestionID != "question-1" {
		t.Fatalf("unexpected answer: %+v", posted)
	}

	if got := module.Store.AnswerCountOf("question-1"); got != 1 {
		t.Fatalf("expected answer count 1, got %d", got)
	}
	if activity.answers != 1 {
		t.Fatalf("expected one activity record, got %d", activity.answers)
	}
	if len(emitter.emitted) != 1 {
		t.Fatalf("expected one notification, got %d", len(emitter.emitted))
	}
	notification := emitter.emitted[0]
	if notification.RecipientID != "asker-1" || notification.Type != ports.NotificationAnswerToQuestion {
		t.Fatalf("unexpected notification: %+v", notification)
	}
}

func TestAnswerOwnQuestionDoesNotNotify(t *testing.T) {
	emitter := &recordingEmitter{}
	module := answerservice.NewInMemoryModule(nil, emitter, nil)
	module.Store.SeedQuestion(ports.QuestionSummary{
		QuestionID: "question-1",
		AuthorID:   "asker-1",
	})

	_, err := module.Handler.PostHandler(context.Background(), "asker-1", "question-1", httptransport.PostAnswerRequest{
		Body: "Answering my own question.",
	})
	if err != nil {
		t.Fatalf("self-answer failed: %v", err)
	}
	if len(emitter.emitted) != 0 {
		t.Fatalf("self-answers must not notify, got %d", len(emitter.emitted))
	}
}

func TestPostAnswerRejectsMissingOrDeletedQuestion(t *testing.T) {
	module := answerservice.NewInMemoryModule(nil, nil, nil)
	module.Store.SeedQuestion(ports.QuestionSummary{
		QuestionID: "deleted-q",
		AuthorID:   "asker-1",
		Deleted:    true,
	})

	_, err := module.Handler.PostHandler(context.Background(), "answerer-1", "missing-q", httptransport.PostAnswerRequest{Body: "text"})
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected not found for missing question, got %v", err)
	}
	_, err = module.Handler.PostHandler(context.Background(), "answerer-1", "deleted-q", httptransport.PostAnswerRequest{Body: "text"})
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected not found for deleted question, got %v", err)
	}
}

func TestListAnswersOrdersAcceptedFirstThenScore(t *testing.T) {
	module := answerservice.NewInMemoryModule(nil, nil, nil)
	module.Store.SeedQuestion(ports.QuestionSummary{
		QuestionID: "question-1",
		AuthorID:   "asker-1",
	})

	ids := make([]string, 0, 3)
	for _, body := range []string{"first", "second", "third"} {
		posted, err := module.Handler.PostHandler(context.Background(), "answerer-1", "question-1", httptransport.PostAnswerRequest{Body: body})
		if err != nil {
			t.Fatalf("post %q failed: %v", body, err)
		}
		ids = append(ids, posted.AnswerID)
	}

	// Bump scores and acceptance directly through the store.
	withScore := func(answerID string, score int, accepted bool) {
		answer, err := module.Store.GetAnswer(context.Background(), answerID)
		if err != nil {
			t.Fatalf("get %s failed: %v", answerID, err)
		}
		answer.Score = score
		answer.IsAccepted = accepted
		if err := module.Store.SaveAnswer(context.Background(), answer); err != nil {
			t.Fatalf("save %s failed: %v", answerID, err)
		}
	}
	withScore(ids[0], 3, false)
	withScore(ids[1], 7, false)
	withScore(ids[2], 1, true)

	listed, err := module.Handler.ListByQuestionHandler(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 3 {
		t.Fatalf("expected three answers, got %d", len(listed.Items))
	}
	if listed.Items[0].AnswerID != ids[2] {
		t.Fatalf("expected accepted answer first, got %s", listed.Items[0].AnswerID)
	}
	if listed.Items[1].AnswerID != ids[1] || listed.Items[2].AnswerID != ids[0] {
		t.Fatalf("expected remaining answers by score desc, got %v", []string{listed.Items[1].AnswerID, listed.Items[2].AnswerID})
	}
}

func TestUpdateAndDeleteAnswerAuthorOnly(t *testing.T) {
	module := answerservice.NewInMemoryModule(nil, nil, nil)
	module.Store.SeedQuestion(ports.QuestionSummary{
		QuestionID: "question-1",
		AuthorID:   "asker-1",
	})

	posted, err := module.Handler.PostHandler(context.Background(), "answerer-1", "question-1", httptransport.PostAnswerRequest{Body: "original"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}

	_, err = module.Handler.UpdateHandler(context.Background(), "intruder", posted.AnswerID, httptransport.UpdateAnswerRequest{Body: "hijack"})
	if !errors.Is(err, domainerrors.ErrNotAuthor) {
		t.Fatalf("expected not-author on update, got %v", err)
	}
	if err := module.Handler.DeleteHandler(context.Background(), "intruder", posted.AnswerID); !errors.Is(err, domainerrors.ErrNotAuthor) {
		t.Fatalf("expected not-author on delete, got %v", err)
	}

	if err := module.Handler.DeleteHandler(context.Background(), "answerer-1", posted.AnswerID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if got := module.Store.AnswerCountOf("question-1"); got != 0 {
		t.Fatalf("expected answer count back to 0, got %d", got)
	}
	_, err = module.Handler.GetHandler(context.Background(), posted.AnswerID)
	if !errors.Is(err, domainerrors.ErrAnswerNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
