package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "quorum/contexts/knowledge-base/answer-service/domain/errors"
	"quorum/contexts/knowledge-base/answer-service/domain/entities"
	"quorum/contexts/knowledge-base/answer-service/ports"

	"github.com/google/uuid"
)

// Store backs the answer module for tests and also satisfies the
// QuestionDirectory port through seeded question summaries.
type Store struct {
	mu        sync.RWMutex
	answers   map[string]entities.Answer
	questions map[string]ports.QuestionSummary
	counts    map[string]int
}

func NewStore() *Store {
	return &Store{
		answers:   make(map[string]entities.Answer),
		questions: make(map[string]ports.QuestionSummary),
		counts:    make(map[string]int),
	}
}

func (s *Store) SeedQuestion(summary ports.QuestionSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[strings.TrimSpace(summary.QuestionID)] = summary
}

func (s *Store) AnswerCountOf(questionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[strings.TrimSpace(questionID)]
}

func (s *Store) SaveAnswer(_ context.Context, answer entities.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[strings.TrimSpace(answer.ID)] = cloneAnswer(answer)
	return nil
}

func (s *Store) GetAnswer(_ context.Context, answerID string) (entities.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.answers[strings.TrimSpace(answerID)]
	if !ok {
		return entities.Answer{}, domainerrors.ErrAnswerNotFound
	}
	return cloneAnswer(answer), nil
}

func (s *Store) ListAnswersByQuestion(_ context.Context, questionID string) ([]entities.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questionID = strings.TrimSpace(questionID)
	items := make([]entities.Answer, 0)
	for _, answer := range s.answers {
		if answer.QuestionID == questionID {
			items = append(items, cloneAnswer(answer))
		}
	}
	return items, nil
}

func (s *Store) GetQuestionSummary(_ context.Context, questionID string) (ports.QuestionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return ports.QuestionSummary{}, domainerrors.ErrQuestionNotFound
	}
	return summary, nil
}

func (s *Store) IncrementAnswerCount(_ context.Context, questionID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	questionID = strings.TrimSpace(questionID)
	if _, ok := s.questions[questionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	s.counts[questionID] += delta
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneAnswer(answer entities.Answer) entities.Answer {
	clone := answer
	clone.Upvoters = append([]string(nil), answer.Upvoters...)
	clone.Downvoters = append([]string(nil), answer.Downvoters...)
	return clone
}
