package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"quorum/contexts/knowledge-base/answer-service/application"
	"quorum/contexts/knowledge-base/answer-service/domain/entities"
	httptransport "quorum/contexts/knowledge-base/answer-service/transport/http"
)

type Handler struct {
	Answers application.Service
	Logger  *slog.Logger
}

func (h Handler) PostHandler(
	ctx context.Context,
	authorID string,
	questionID string,
	req httptransport.PostAnswerRequest,
) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.Post(ctx, application.PostCommand{
		AuthorID:   authorID,
		QuestionID: questionID,
		Body:       req.Body,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return answerResponse(answer), nil
}

func (h Handler) GetHandler(ctx context.Context, answerID string) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.Get(ctx, answerID)
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return answerResponse(answer), nil
}

func (h Handler) ListByQuestionHandler(ctx context.Context, questionID string) (httptransport.AnswerListResponse, error) {
	answers, err := h.Answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return httptransport.AnswerListResponse{}, err
	}
	items := make([]httptransport.AnswerResponse, 0, len(answers))
	for _, answer := range answers {
		items = append(items, answerResponse(answer))
	}
	return httptransport.AnswerListResponse{Items: items, Total: len(items)}, nil
}

func (h Handler) UpdateHandler(
	ctx context.Context,
	requesterID string,
	answerID string,
	req httptransport.UpdateAnswerRequest,
) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.Update(ctx, application.UpdateCommand{
		RequesterID: requesterID,
		AnswerID:    answerID,
		Body:        req.Body,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return answerResponse(answer), nil
}

func (h Handler) DeleteHandler(ctx context.Context, requesterID string, answerID string) error {
	return h.Answers.Delete(ctx, requesterID, answerID)
}

func answerResponse(answer entities.Answer) httptransport.AnswerResponse {
	return httptransport.AnswerResponse{
		AnswerID:   answer.ID,
		QuestionID: answer.QuestionID,
		AuthorID:   answer.AuthorID,
		Body:       answer.Body,
		Score:      answer.Score,
		IsAccepted: answer.IsAccepted,
		CreatedAt:  answer.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  answer.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
