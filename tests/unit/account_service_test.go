package unit

import (
	"context"
	"errors"
	"testing"

	accountservice "quorum/contexts/identity-access/account-service"
	domainerrors "quorum/contexts/identity-access/account-service/domain/errors"
	httptransport "quorum/contexts/identity-access/account-service/transport/http"
)

type staticTokenIssuer struct{}

func (staticTokenIssuer) IssueToken(accountID string) (string, error) {
	return "token-for-" + accountID, nil
}

func registerReq(username string, email string) httptransport.RegisterRequest {
	return httptransport.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "hunter2-hunter2",
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	module := accountservice.NewInMemoryModule(staticTokenIssuer{}, nil)

	registered, err := module.Handler.RegisterHandler(context.Background(), registerReq("alice", "alice@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if registered.Token == "" || registered.User.AccountID == "" {
		t.Fatalf("expected token and account id, got %+v", registered)
	}
	if registered.User.Reputation != 0 {
		t.Fatalf("new accounts start at zero reputation, got %d", registered.User.Reputation)
	}

	logged, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2-hunter2",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.User.AccountID != registered.User.AccountID {
		t.Fatalf("login resolved a different account")
	}
	if logged.User.Email != "alice@example.com" {
		t.Fatalf("login response must include the caller's own email")
	}

	// Another viewer gets the public profile without the email.
	profile, err := module.Handler.ProfileHandler(context.Background(), registered.User.AccountID, "someone-else")
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.Email != "" {
		t.Fatalf("public profile must not leak the email, got %q", profile.Email)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	module := accountservice.NewInMemoryModule(staticTokenIssuer{}, nil)

	if _, err := module.Handler.RegisterHandler(context.Background(), registerReq("alice", "alice@example.com")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := module.Handler.RegisterHandler(context.Background(), registerReq("alice", "other@example.com"))
	if !errors.Is(err, domainerrors.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	_, err = module.Handler.RegisterHandler(context.Background(), registerReq("bob", "alice@example.com"))
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	module := accountservice.NewInMemoryModule(staticTokenIssuer{}, nil)

	cases := []httptransport.RegisterRequest{
		{Username: "", Email: "a@example.com", Password: "long-enough-pass"},
		{Username: "alice", Email: "not-an-email", Password: "long-enough-pass"},
		{Username: "alice", Email: "a@example.com", Password: "short"},
	}
	for i, req := range cases {
		if _, err := module.Handler.RegisterHandler(context.Background(), req); !errors.Is(err, domainerrors.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	module := accountservice.NewInMemoryModule(staticTokenIssuer{}, nil)

	if _, err := module.Handler.RegisterHandler(context.Background(), registerReq("alice", "alice@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password!",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials on bad password, got %v", err)
	}

	// Unknown email maps to the same error so login does not reveal accounts.
	_, err = module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "nobody@example.com",
		Password: "irrelevant-pass",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials on unknown email, got %v", err)
	}
}

func TestReputationAndActivityCounters(t *testing.T) {
	module := accountservice.NewInMemoryModule(staticTokenIssuer{}, nil)

	registered, err := module.Handler.RegisterHandler(context.Background(), registerReq("alice", "alice@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	accountID := registered.User.AccountID

	if err := module.Service.ApplyReputationDelta(context.Background(), accountID, 10); err != nil {
		t.Fatalf("apply delta failed: %v", err)
	}
	if err := module.Service.ApplyReputationDelta(context.Background(), accountID, -12); err != nil {
		t.Fatalf("apply negative delta failed: %v", err)
	}
	if err := module.Service.RecordQuestionAsked(context.Background(), accountID); err != nil {
		t.Fatalf("record question failed: %v", err)
	}
	if err := module.Service.RecordAnswerGiven(context.Background(), accountID); err != nil {
		t.Fatalf("record answer failed: %v", err)
	}

	account, err := module.Service.GetProfile(context.Background(), accountID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	// Reputation is unbounded and may go negative.
	if account.Reputation != -2 {
		t.Fatalf("expected reputation -2, got %d", account.Reputation)
	}
	if account.QuestionsAsked != 1 || account.AnswersGiven != 1 {
		t.Fatalf("expected counters 1/1, got %d/%d", account.QuestionsAsked, account.AnswersGiven)
	}
}
