package unit

import (
	"context"
	"errors"
	"testing"

	notificationservice "quorum/contexts/community-experience/notification-service"
	"quorum/contexts/community-experience/notification-service/application"
	domainerrors "quorum/contexts/community-experience/notification-service/domain/errors"
	"quorum/contexts/community-experience/notification-service/ports"
)

func TestEmitAndListNotifications(t *testing.T) {
	module := notificationservice.NewInMemoryModule(nil)

	emitted, err := module.Service.Emit(context.Background(), application.EmitCommand{
		RecipientID: "user-1",
		SenderID:    "user-2",
		Type:        "vote_on_question",
		QuestionID:  "question-1",
		VoteAction:  "up",
	})
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if emitted.ID == "" || emitted.Read {
		t.Fatalf("expected unread notification with id, got %+v", emitted)
	}

	listed, err := module.Handler.ListHandler(context.Background(), "user-1", ports.ListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 1 || listed.UnreadCount != 1 {
		t.Fatalf("expected one unread notification, got total=%d unread=%d", listed.Total, listed.UnreadCount)
	}
	if listed.Items[0].VoteAction != "up" {
		t.Fatalf("expected vote action metadata, got %+v", listed.Items[0])
	}

	// Other recipients see nothing.
	other, err := module.Handler.ListHandler(context.Background(), "user-2", ports.ListFilter{})
	if err != nil {
		t.Fatalf("list for other failed: %v", err)
	}
	if other.Total != 0 {
		t.Fatalf("expected empty inbox for sender, got %d", other.Total)
	}
}

func TestEmitRejectsUnknownType(t *testing.T) {
	module := notificationservice.NewInMemoryModule(nil)

	_, err := module.Service.Emit(context.Background(), application.EmitCommand{
		RecipientID: "user-1",
		Type:        "carrier_pigeon",
	})
	if !errors.Is(err, domainerrors.ErrInvalidType) {
		t.Fatalf("expected invalid type, got %v", err)
	}
}

func TestMarkReadRecipientOnly(t *testing.T) {
	module := notificationservice.NewInMemoryModule(nil)

	emitted, err := module.Service.Emit(context.Background(), application.EmitCommand{
		RecipientID: "user-1",
		Type:        "answer_accepted",
		AnswerID:    "answer-1",
	})
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	_, err = module.Handler.MarkReadHandler(context.Background(), "user-2", emitted.ID)
	if !errors.Is(err, domainerrors.ErrNotRecipient) {
		t.Fatalf("expected not-recipient error, got %v", err)
	}

	marked, err := module.Handler.MarkReadHandler(context.Background(), "user-1", emitted.ID)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if !marked.Read {
		t.Fatalf("expected read flag set")
	}

	// Re-marking is a no-op.
	if _, err := module.Handler.MarkReadHandler(context.Background(), "user-1", emitted.ID); err != nil {
		t.Fatalf("re-mark read failed: %v", err)
	}

	count, err := module.Service.UnreadCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero unread, got %d", count)
	}
}

func TestMarkAllReadAndUnreadFilter(t *testing.T) {
	module := notificationservice.NewInMemoryModule(nil)

	for i := 0; i < 3; i++ {
		_, err := module.Service.Emit(context.Background(), application.EmitCommand{
			RecipientID: "user-1",
			Type:        "vote_on_answer",
			AnswerID:    "answer-1",
			VoteAction:  "up",
		})
		if err != nil {
			t.Fatalf("emit %d failed: %v", i, err)
		}
	}

	unreadOnly, err := module.Handler.ListHandler(context.Background(), "user-1", ports.ListFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("unread list failed: %v", err)
	}
	if unreadOnly.Total != 3 {
		t.Fatalf("expected three unread, got %d", unreadOnly.Total)
	}

	marked, err := module.Handler.MarkAllReadHandler(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("mark all failed: %v", err)
	}
	if marked.Updated != 3 {
		t.Fatalf("expected three updated, got %d", marked.Updated)
	}

	unreadOnly, err = module.Handler.ListHandler(context.Background(), "user-1", ports.ListFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("unread list after mark-all failed: %v", err)
	}
	if unreadOnly.Total != 0 {
		t.Fatalf("expected zero unread after mark-all, got %d", unreadOnly.Total)
	}
}
