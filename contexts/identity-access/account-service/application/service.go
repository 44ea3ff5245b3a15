package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/identity-access/account-service/domain/errors"
	"quorum/contexts/identity-access/account-service/domain/entities"
	"quorum/contexts/identity-access/account-service/ports"

	"golang.org/x/crypto/bcrypt"
)

type RegisterCommand struct {
	Username string
	Email    string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

// AuthResult pairs the account with a signed access token.
type AuthResult struct {
	Account entities.Account
	Token   string
}

type Service struct {
	Repo       ports.AccountRepository
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	BcryptCost int
	Logger     *slog.Logger
}

func (s Service) Register(ctx context.Context, cmd RegisterCommand) (AuthResult, error) {
	logger := resolveLogger(s.Logger)
	username := strings.TrimSpace(cmd.Username)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if username == "" || !strings.Contains(email, "@") || len(cmd.Password) < 8 {
		logger.Warn("account register validation failed",
			"event", "account_register_validation_failed",
			"module", "identity-access/account-service",
			"layer", "application",
			"username", username,
		)
		return AuthResult{}, domainerrors.ErrInvalidInput
	}

	cost := s.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), cost)
	if err != nil {
		return AuthResult{}, err
	}

	accountID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return AuthResult{}, err
	}
	now := s.now()
	account := entities.Account{
		ID:           accountID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateAccount(ctx, account); err != nil {
		return AuthResult{}, err
	}

	token, err := s.Tokens.IssueToken(account.ID)
	if err != nil {
		return AuthResult{}, err
	}
	logger.Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.ID,
		"username", username,
	)
	return AuthResult{Account: account, Token: token}, nil
}

func (s Service) Login(ctx context.Context, cmd LoginCommand) (AuthResult, error) {
	logger := resolveLogger(s.Logger)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return AuthResult{}, domainerrors.ErrInvalidInput
	}

	account, err := s.Repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			// Same error as a bad password so probing cannot enumerate emails.
			return AuthResult{}, domainerrors.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(cmd.Password)); err != nil {
		logger.Warn("account login rejected",
			"event", "account_login_rejected",
			"module", "identity-access/account-service",
			"layer", "application",
			"account_id", account.ID,
		)
		return AuthResult{}, domainerrors.ErrInvalidCredentials
	}

	token, err := s.Tokens.IssueToken(account.ID)
	if err != nil {
		return AuthResult{}, err
	}
	logger.Info("account logged in",
		"event", "account_logged_in",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.ID,
	)
	return AuthResult{Account: account, Token: token}, nil
}

func (s Service) GetProfile(ctx context.Context, accountID string) (entities.Account, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return entities.Account{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetAccount(ctx, accountID)
}

// ApplyReputationDelta is the single reputation mutation path; the voting
// engine reaches it through a port wired in bootstrap.
func (s Service) ApplyReputationDelta(ctx context.Context, accountID string, delta int) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domainerrors.ErrInvalidInput
	}
	return s.Repo.ApplyReputationDelta(ctx, accountID, delta)
}

func (s Service) RecordQuestionAsked(ctx context.Context, accountID string) error {
	return s.Repo.IncrementQuestionsAsked(ctx, strings.TrimSpace(accountID))
}

func (s Service) RecordAnswerGiven(ctx context.Context, accountID string) error {
	return s.Repo.IncrementAnswersGiven(ctx, strings.TrimSpace(accountID))
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
