package httpadapter

import (
	"context"
	"log/slog"

	"quorum/contexts/knowledge-base/voting-engine/application/commands"
	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	httptransport "quorum/contexts/knowledge-base/voting-engine/transport/http"
)

type Handler struct {
	Votes      commands.VoteUseCase
	Acceptance commands.AcceptUseCase
	Logger     *slog.Logger
}

func (h Handler) VoteQuestionHandler(
	ctx context.Context,
	actorID string,
	questionID string,
	req httptransport.VoteRequest,
) (httptransport.VoteResponse, error) {
	return h.vote(ctx, actorID, entities.VotableKindQuestion, questionID, req)
}

func (h Handler) VoteAnswerHandler(
	ctx context.Context,
	actorID string,
	answerID string,
	req httptransport.VoteRequest,
) (httptransport.VoteResponse, error) {
	return h.vote(ctx, actorID, entities.VotableKindAnswer, answerID, req)
}

func (h Handler) vote(
	ctx context.Context,
	actorID string,
	kind entities.VotableKind,
	targetID string,
	req httptransport.VoteRequest,
) (httptransport.VoteResponse, error) {
	action, ok := entities.ParseVoteAction(req.VoteType)
	if !ok {
		return httptransport.VoteResponse{}, domainerrors.ErrInvalidVoteAction
	}
	result, err := h.Votes.ApplyVote(ctx, commands.ApplyVoteCommand{
		ActorID:    actorID,
		TargetKind: kind,
		TargetID:   targetID,
		Action:     action,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{Votes: result.Score}, nil
}

func (h Handler) AcceptAnswerHandler(
	ctx context.Context,
	requesterID string,
	questionID string,
	answerID string,
) (httptransport.AcceptAnswerResponse, error) {
	err := h.Acceptance.AcceptAnswer(ctx, commands.AcceptAnswerCommand{
		RequesterID: requesterID,
		QuestionID:  questionID,
		AnswerID:    answerID,
	})
	if err != nil {
		return httptransport.AcceptAnswerResponse{}, err
	}
	return httptransport.AcceptAnswerResponse{Message: "answer accepted"}, nil
}
