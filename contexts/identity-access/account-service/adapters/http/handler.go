package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"quorum/contexts/identity-access/account-service/application"
	"quorum/contexts/identity-access/account-service/domain/entities"
	httptransport "quorum/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	Accounts application.Service
	Logger   *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.AuthResponse, error) {
	result, err := h.Accounts.Register(ctx, application.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.AuthResponse{}, err
	}
	return httptransport.AuthResponse{
		Token: result.Token,
		User:  accountResponse(result.Account, true),
	}, nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.AuthResponse, error) {
	result, err := h.Accounts.Login(ctx, application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.AuthResponse{}, err
	}
	return httptransport.AuthResponse{
		Token: result.Token,
		User:  accountResponse(result.Account, true),
	}, nil
}

// ProfileHandler serves public profiles; the email is only included when the
// viewer is the account owner.
func (h Handler) ProfileHandler(ctx context.Context, accountID string, viewerID string) (httptransport.AccountResponse, error) {
	account, err := h.Accounts.GetProfile(ctx, accountID)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return accountResponse(account, viewerID == account.ID), nil
}

func accountResponse(account entities.Account, includeEmail bool) httptransport.AccountResponse {
	resp := httptransport.AccountResponse{
		AccountID:      account.ID,
		Username:       account.Username,
		Reputation:     account.Reputation,
		QuestionsAsked: account.QuestionsAsked,
		AnswersGiven:   account.AnswersGiven,
		CreatedAt:      account.CreatedAt.UTC().Format(time.RFC3339),
	}
	if includeEmail {
		resp.Email = account.Email
	}
	return resp
}
