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

// ApplyVoteCommand is the write-model input for a vote transition.
type ApplyVoteCommand struct {
	ActorID    string
	TargetKind entities.VotableKind
	TargetID   string
	Action     entities.VoteAction
}

// ApplyVoteResult returns the recomputed score plus transition markers the
// transport layer may surface.
type ApplyVoteResult struct {
	Score        int
	LedgerChange bool
}

// VoteUseCase orchestrates the vote pipeline: ledger transition, score
// recomputation, author reputation delta, notification emission. The three
// persistence effects are independent writes issued in that exact order;
// only the ledger write can fail the operation.
type VoteUseCase struct {
	Votables      ports.VotableRepository
	Reputation    ports.ReputationWriter
	Notifications ports.NotificationEmitter
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// ApplyVote transitions the target's vote ledger for the actor.
//
// Re-voting the same direction is a no-op: no ledger change, no reputation
// delta, no notification. Switching direction applies only the new action's
// delta; the prior direction's delta is intentionally not refunded. Removal
// reverses exactly what the prior vote applied and never notifies.
func (uc VoteUseCase) ApplyVote(ctx context.Context, cmd ApplyVoteCommand) (ApplyVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID := strings.TrimSpace(cmd.ActorID)
	targetID := strings.TrimSpace(cmd.TargetID)
	logger.Info("vote apply processing started",
		"event", "voting_apply_started",
		"module", "knowledge-base/voting-engine",
		"layer", "application",
		"actor_id", actorID,
		"target_kind", string(cmd.TargetKind),
		"target_id", targetID,
		"action", string(cmd.Action),
	)

	if actorID == "" || targetID == "" || !entities.IsValidVotableKind(cmd.TargetKind) {
		logger.Warn("vote apply validation failed",
			"event", "voting_apply_validation_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"actor_id", actorID,
			"target_id", targetID,
		)
		return ApplyVoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	if cmd.Action != entities.VoteActionUp &&
		cmd.Action != entities.VoteActionDown &&
		cmd.Action != entities.VoteActionRemove {
		return ApplyVoteResult{}, domainerrors.ErrInvalidVoteAction
	}

	target, err := uc.Votables.GetVotable(ctx, cmd.TargetKind, targetID)
	if err != nil {
		return ApplyVoteResult{}, err
	}
	if strings.EqualFold(strings.TrimSpace(target.AuthorID), actorID) {
		logger.Warn("self vote rejected",
			"event", "voting_self_vote_rejected",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"actor_id", actorID,
			"target_kind", string(target.Kind),
			"target_id", targetID,
		)
		return ApplyVoteResult{}, domainerrors.ErrSelfVoteForbidden
	}

	hadUp := target.HasUpvoter(actorID)
	hadDown := target.HasDownvoter(actorID)

	// The reputation delta is derived from the transition actually performed,
	// not the requested action. Clearing the opposite set during a switch
	// reverses nothing.
	delta := 0
	changed := false
	switch cmd.Action {
	case entities.VoteActionUp:
		if !hadUp {
			target.RemoveDownvoter(actorID)
			target.AddUpvoter(actorID)
			delta = entities.UpvoteDelta(target.Kind)
			changed = true
		}
	case entities.VoteActionDown:
		if !hadDown {
			target.RemoveUpvoter(actorID)
			target.AddDownvoter(actorID)
			delta = -entities.DownvoteDelta
			changed = true
		}
	case entities.VoteActionRemove:
		if hadUp {
			target.RemoveUpvoter(actorID)
			delta -= entities.UpvoteDelta(target.Kind)
			changed = true
		}
		if hadDown {
			target.RemoveDownvoter(actorID)
			delta += entities.DownvoteDelta
			changed = true
		}
	}

	target.RecomputeScore()

	if !changed {
		logger.Info("vote apply no-op",
			"event", "voting_apply_noop",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"actor_id", actorID,
			"target_kind", string(target.Kind),
			"target_id", targetID,
			"action", string(cmd.Action),
			"score", target.Score,
		)
		return ApplyVoteResult{Score: target.Score}, nil
	}

	now := uc.now()
	target.UpdatedAt = now
	if err := uc.Votables.SaveVotable(ctx, target); err != nil {
		logger.Error("vote ledger save failed",
			"event", "voting_ledger_save_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"actor_id", actorID,
			"target_kind", string(target.Kind),
			"target_id", targetID,
			"error", err.Error(),
		)
		return ApplyVoteResult{}, err
	}

	// Secondary effects past this point never fail the vote: the ledger is
	// committed and the caller sees the new score regardless.
	uc.applyReputation(ctx, target.AuthorID, delta, targetID)

	if cmd.Action != entities.VoteActionRemove {
		uc.notify(ctx, ports.Notification{
			RecipientID: target.AuthorID,
			SenderID:    actorID,
			Type:        notificationTypeFor(target.Kind),
			QuestionID:  questionRef(target),
			AnswerID:    answerRef(target),
			VoteAction:  string(cmd.Action),
		})
	}

	uc.appendVoteEvent(ctx, eventTypeFor(cmd.Action), target, actorID, cmd.Action, delta, now)

	logger.Info("vote applied",
		"event", "voting_applied",
		"module", "knowledge-base/voting-engine",
		"layer", "application",
		"actor_id", actorID,
		"target_kind", string(target.Kind),
		"target_id", targetID,
		"action", string(cmd.Action),
		"score", target.Score,
		"reputation_delta", delta,
	)
	return ApplyVoteResult{Score: target.Score, LedgerChange: true}, nil
}

func (uc VoteUseCase) applyReputation(ctx context.Context, authorID string, delta int, targetID string) {
	if delta == 0 || uc.Reputation == nil {
		return
	}
	if err := uc.Reputation.ApplyReputationDelta(ctx, authorID, delta); err != nil {
		application.ResolveLogger(uc.Logger).Error("reputation delta write failed; vote already committed",
			"event", "voting_reputation_write_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"author_id", authorID,
			"target_id", targetID,
			"delta", delta,
			"error", err.Error(),
		)
	}
}

func (uc VoteUseCase) notify(ctx context.Context, notification ports.Notification) {
	if uc.Notifications == nil {
		return
	}
	if err := uc.Notifications.EmitNotification(ctx, notification); err != nil {
		application.ResolveLogger(uc.Logger).Error("notification emit failed; vote already committed",
			"event", "voting_notification_emit_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"recipient_id", notification.RecipientID,
			"type", notification.Type,
			"error", err.Error(),
		)
	}
}

func (uc VoteUseCase) appendVoteEvent(
	ctx context.Context,
	eventType string,
	target entities.Votable,
	actorID string,
	action entities.VoteAction,
	delta int,
	occurredAt time.Time,
) {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return
	}
	logger := application.ResolveLogger(uc.Logger)
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("vote event id generation failed",
			"event", "voting_event_id_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}
	envelope, err := newVotingEnvelope(eventID, eventType, target.ID, occurredAt, map[string]any{
		"target_kind":      string(target.Kind),
		"target_id":        target.ID,
		"author_id":        target.AuthorID,
		"actor_id":         actorID,
		"action":           string(action),
		"score":            target.Score,
		"reputation_delta": delta,
		"occurred_at":      occurredAt.Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("vote event encode failed",
			"event", "voting_event_encode_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Error("vote event outbox append failed",
			"event", "voting_event_outbox_failed",
			"module", "knowledge-base/voting-engine",
			"layer", "application",
			"event_id", eventID,
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func notificationTypeFor(kind entities.VotableKind) string {
	if kind == entities.VotableKindAnswer {
		return ports.NotificationVoteOnAnswer
	}
	return ports.NotificationVoteOnQuestion
}

func eventTypeFor(action entities.VoteAction) string {
	if action == entities.VoteActionRemove {
		return contractsv1.TopicVoteRemoved
	}
	return contractsv1.TopicVoteApplied
}

func questionRef(target entities.Votable) string {
	if target.Kind == entities.VotableKindQuestion {
		return target.ID
	}
	return ""
}

func answerRef(target entities.Votable) string {
	if target.Kind == entities.VotableKindAnswer {
		return target.ID
	}
	return ""
}
