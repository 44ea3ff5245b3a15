package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "quorum/contexts/identity-access/account-service/domain/errors"
	"quorum/contexts/identity-access/account-service/domain/entities"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]entities.Account
	byEmail  map[string]string
	byName   map[string]string
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]entities.Account),
		byEmail:  make(map[string]string),
		byName:   make(map[string]string),
	}
}

func (s *Store) CreateAccount(_ context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(account.Email))
	username := strings.ToLower(strings.TrimSpace(account.Username))
	if _, taken := s.byName[username]; taken {
		return domainerrors.ErrUsernameTaken
	}
	if _, taken := s.byEmail[email]; taken {
		return domainerrors.ErrEmailTaken
	}
	s.accounts[account.ID] = account
	s.byEmail[email] = account.ID
	s.byName[username] = account.ID
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[strings.TrimSpace(accountID)]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return s.accounts[accountID], nil
}

func (s *Store) ApplyReputationDelta(_ context.Context, accountID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[strings.TrimSpace(accountID)]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	account.Reputation += delta
	account.UpdatedAt = time.Now().UTC()
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) IncrementQuestionsAsked(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[strings.TrimSpace(accountID)]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	account.QuestionsAsked++
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) IncrementAnswersGiven(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[strings.TrimSpace(accountID)]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	account.AnswersGiven++
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
