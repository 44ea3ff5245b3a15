package ports

import (
	"context"
	"time"

	"quorum/contexts/identity-access/account-service/domain/entities"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account entities.Account) error
	GetAccount(ctx context.Context, accountID string) (entities.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (entities.Account, error)
	ApplyReputationDelta(ctx context.Context, accountID string, delta int) error
	IncrementQuestionsAsked(ctx context.Context, accountID string) error
	IncrementAnswersGiven(ctx context.Context, accountID string) error
}

// TokenIssuer abstracts the platform JWT manager so the module stays free of
// token mechanics.
type TokenIssuer interface {
	IssueToken(accountID string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
