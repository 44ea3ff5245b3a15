package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"quorum/contexts/knowledge-base/question-service/application"
	"quorum/contexts/knowledge-base/question-service/domain/entities"
	"quorum/contexts/knowledge-base/question-service/ports"
	httptransport "quorum/contexts/knowledge-base/question-service/transport/http"
)

type Handler struct {
	Questions application.Service
	Logger    *slog.Logger
}

func (h Handler) AskHandler(ctx context.Context, authorID string, req httptransport.AskQuestionRequest) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.Ask(ctx, application.AskCommand{
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
		Tags:     req.Tags,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return questionResponse(question), nil
}

func (h Handler) GetHandler(ctx context.Context, questionID string) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.Get(ctx, questionID)
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return questionResponse(question), nil
}

func (h Handler) ListHandler(ctx context.Context, filter ports.ListFilter) (httptransport.QuestionListResponse, error) {
	page, err := h.Questions.List(ctx, filter)
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	items := make([]httptransport.QuestionResponse, 0, len(page.Items))
	for _, question := range page.Items {
		items = append(items, questionResponse(question))
	}
	return httptransport.QuestionListResponse{Items: items, Total: page.Total}, nil
}

func (h Handler) UpdateHandler(
	ctx context.Context,
	requesterID string,
	questionID string,
	req httptransport.UpdateQuestionRequest,
) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.Update(ctx, application.UpdateCommand{
		RequesterID: requesterID,
		QuestionID:  questionID,
		Title:       req.Title,
		Body:        req.Body,
		Tags:        req.Tags,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return questionResponse(question), nil
}

func (h Handler) DeleteHandler(ctx context.Context, requesterID string, questionID string) error {
	return h.Questions.Delete(ctx, requesterID, questionID)
}

func questionResponse(question entities.Question) httptransport.QuestionResponse {
	tags := question.Tags
	if tags == nil {
		tags = []string{}
	}
	return httptransport.QuestionResponse{
		QuestionID:        question.ID,
		AuthorID:          question.AuthorID,
		Title:             question.Title,
		Body:              question.Body,
		Tags:              tags,
		Score:             question.Score,
		AnswerCount:       question.AnswerCount,
		AcceptedAnswerID:  question.AcceptedAnswerID,
		HasAcceptedAnswer: question.HasAcceptedAnswer,
		CreatedAt:         question.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         question.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
