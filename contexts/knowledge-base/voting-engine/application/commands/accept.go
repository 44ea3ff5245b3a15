package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quorum/contexts/knowledge-base/voting-engine/application"
	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	"quorum/contexts/knowledge-base/voting-engine/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
)

// AcceptAnswerCommand marks one answer as the chosen solution to its question.
type AcceptAnswerCommand struct {
	RequesterID string
	QuestionID  string
	AnswerID    string
}

// AcceptUseCase owns the acceptance pipeline: at most one accepted answer per
// question, a flat reputation award to the answer author, and one
// notification per successful call.
type AcceptUseCase struct {
	Votables      ports.VotableRepository
	Reputation    ports.ReputationWriter
	Notifications ports.NotificationEmitter
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// AcceptAnswer accepts answerID for questionID on behalf of the question
// author. A previously accepted answer loses its flag without any reputation
// reversal. The award is applied on every successful call, including
// re-accepting the same answer.
func (uc AcceptUseCase) AcceptAnswer(ctx context.Context, cmd AcceptAnswerCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	requesterID := strings.TrimSpace(cmd.RequesterID)
	questionID := strings.TrimSpace(cmd.QuestionID)
	answerID := strings.TrimSpace(cmd.AnswerID)
	logger.Info("answer accept processing started",
		"event", "voting_accept_started",
		"module", "knowledge-base/voting-engine",
		"layer", "application",
		"requester_id", requesterID,
		"question_id", questionID,
		"answer_id", answerID,
	)

	if requesterID == "" || questionID == "" || answerID == "" {
		logger.Warn("answer accept validation failed",
			"event", "voting_accept_validation_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"requester_id", requesterID,
			"question_id", questionID,
			"answer_id", answerID,
		)
		return domainerrors.ErrInvalidAcceptInput
	}

	question, err := uc.Votables.GetQuestionState(ctx, questionID)
	if err != nil {
		return err
	}
	answer, err := uc.Votables.GetAnswerState(ctx, answerID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(question.AuthorID), requesterID) {
		logger.Warn("answer accept forbidden",
			"event", "voting_accept_forbidden",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"requester_id", requesterID,
			"question_id", questionID,
		)
		return domainerrors.ErrNotQuestionAuthor
	}
	if strings.TrimSpace(answer.QuestionID) != questionID {
		return domainerrors.ErrAnswerMismatch
	}

	previousAnswerID := strings.TrimSpace(question.AcceptedAnswerID)
	if previousAnswerID == answerID {
		previousAnswerID = ""
	}
	if err := uc.Votables.SetAccepted(ctx, questionID, answerID, previousAnswerID); err != nil {
		logger.Error("answer accept write failed",
			"event", "voting_accept_write_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"question_id", questionID,
			"answer_id", answerID,
			"error", err.Error(),
		)
		return err
	}

	// Acceptance is committed; the award and notification are best effort.
	if uc.Reputation != nil {
		if err := uc.Reputation.ApplyReputationDelta(ctx, answer.AuthorID, entities.AcceptedAnswerAward); err != nil {
			logger.Error("acceptance award write failed; acceptance already committed",
				"event", "voting_accept_award_failed",
				"module", "knowledge-base/voting-engine",
				"layer", "application",
				"author_id", answer.AuthorID,
				"answer_id", answerID,
				"error", err.Error(),
			)
		}
	}
	if uc.Notifications != nil {
		if err := uc.Notifications.EmitNotification(ctx, ports.Notification{
			RecipientID: answer.AuthorID,
			SenderID:    requesterID,
			Type:        ports.NotificationAnswerAccepted,
			QuestionID:  questionID,
			AnswerID:    answerID,
		}); err != nil {
			logger.Error("acceptance notification emit failed; acceptance already committed",
				"event", "voting_accept_notification_failed",
				"module", "knowledge-base/voting-engine",
				"layer", "application",
				"recipient_id", answer.AuthorID,
				"answer_id", answerID,
				"error", err.Error(),
			)
		}
	}

	uc.appendAcceptEvent(ctx, question, answer, previousAnswerID, requesterID)

	logger.Info("answer accepted",
		"event", "voting_answer_accepted",
		"module", "knowledge-base/voting-engine",
		"layer", "application",
		"question_id", questionID,
		"answer_id", answerID,
		"previous_answer_id", previousAnswerID,
		"answer_author_id", answer.AuthorID,
	)
	return nil
}

func (uc AcceptUseCase) appendAcceptEvent(
	ctx context.Context,
	question ports.QuestionState,
	answer ports.AnswerState,
	previousAnswerID string,
	requesterID string,
) {
	if uc.Outbox == nil {
		return
	}
	logger := application.ResolveLogger(uc.Logger)
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("accept event id generation failed",
			"event", "voting_accept_event_id_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}
	envelope, err := newVotingEnvelope(eventID, contractsv1.TopicAnswerAccepted, question.QuestionID, now, map[string]any{
		"question_id":        question.QuestionID,
		"answer_id":          answer.AnswerID,
		"answer_author_id":   answer.AuthorID,
		"previous_answer_id": previousAnswerID,
		"accepted_by":        requesterID,
		"occurred_at":        now.Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("accept event encode failed",
			"event", "voting_accept_event_encode_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Error("accept event outbox append failed",
			"event", "voting_accept_event_outbox_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"event_id", eventID,
			"error", err.Error(),
		)
	}
}
