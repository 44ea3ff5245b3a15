package unit

import (
	"context"
	"errors"
	"testing"

	questionservice "quorum/contexts/knowledge-base/question-service"
	domainerrors "quorum/contexts/knowledge-base/question-service/domain/errors"
	"quorum/contexts/knowledge-base/question-service/ports"
	httptransport "quorum/contexts/knowledge-base/question-service/transport/http"
)

type countingActivity struct {
	questions int
	answers   int
}

func (c *countingActivity) RecordQuestionAsked(_ context.Context, _ string) error {
	c.questions++
	return nil
}

func (c *countingActivity) RecordAnswerGiven(_ context.Context, _ string) error {
	c.answers++
	return nil
}

func TestAskAndGetQuestion(t *testing.T) {
	activity := &countingActivity{}
	module := questionservice.NewInMemoryModule(activity, nil)

	asked, err := module.Handler.AskHandler(context.Background(), "author-1", httptransport.AskQuestionRequest{
		Title: "How do goroutines get scheduled?",
		Body:  "I am trying to understand the runtime scheduler.",
		Tags:  []string{"Go", "concurrency", "go"},
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if asked.QuestionID == "" {
		t.Fatalf("expected a question id")
	}
	if len(asked.Tags) != 2 {
		t.Fatalf("expected deduplicated lowercase tags, got %v", asked.Tags)
	}
	if activity.questions != 1 {
		t.Fatalf("expected one activity record, got %d", activity.questions)
	}

	got, err := module.Handler.GetHandler(context.Background(), asked.QuestionID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != asked.Title || got.AuthorID != "author-1" {
		t.Fatalf("unexpected question: %+v", got)
	}
}

func TestListQuestionsFiltersByTag(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)

	for _, seed := range []struct {
		title string
		tags  []string
	}{
		{"First", []string{"go"}},
		{"Second", []string{"rust"}},
		{"Third", []string{"go", "http"}},
	} {
		_, err := module.Handler.AskHandler(context.Background(), "author-1", httptransport.AskQuestionRequest{
			Title: seed.title,
			Body:  "body",
			Tags:  seed.tags,
		})
		if err != nil {
			t.Fatalf("ask %q failed: %v", seed.title, err)
		}
	}

	page, err := module.Handler.ListHandler(context.Background(), ports.ListFilter{Tag: "go"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected two go questions, got total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestUpdateQuestionAuthorOnly(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)

	asked, err := module.Handler.AskHandler(context.Background(), "author-1", httptransport.AskQuestionRequest{
		Title: "Original title",
		Body:  "Original body",
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	_, err = module.Handler.UpdateHandler(context.Background(), "intruder", asked.QuestionID, httptransport.UpdateQuestionRequest{
		Title: "Hijacked",
		Body:  "Hijacked",
	})
	if !errors.Is(err, domainerrors.ErrNotAuthor) {
		t.Fatalf("expected not-author error, got %v", err)
	}

	updated, err := module.Handler.UpdateHandler(context.Background(), "author-1", asked.QuestionID, httptransport.UpdateQuestionRequest{
		Title: "Clarified title",
		Body:  "Clarified body",
	})
	if err != nil {
		t.Fatalf("author update failed: %v", err)
	}
	if updated.Title != "Clarified title" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
}

func TestDeleteQuestionHidesIt(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)

	asked, err := module.Handler.AskHandler(context.Background(), "author-1", httptransport.AskQuestionRequest{
		Title: "Ephemeral",
		Body:  "Will be deleted",
	})
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if err := module.Handler.DeleteHandler(context.Background(), "author-1", asked.QuestionID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err = module.Handler.GetHandler(context.Background(), asked.QuestionID)
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
