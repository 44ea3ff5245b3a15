package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "quorum/contexts/knowledge-base/question-service/domain/errors"
	"quorum/contexts/knowledge-base/question-service/domain/entities"
	"quorum/contexts/knowledge-base/question-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.RWMutex
	questions map[string]entities.Question
}

func NewStore() *Store {
	return &Store{questions: make(map[string]entities.Question)}
}

func (s *Store) SaveQuestion(_ context.Context, question entities.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[strings.TrimSpace(question.ID)] = cloneQuestion(question)
	return nil
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return cloneQuestion(question), nil
}

func (s *Store) ListQuestions(_ context.Context, filter ports.ListFilter) (ports.QuestionPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.Question, 0, len(s.questions))
	for _, question := range s.questions {
		if question.Deleted {
			continue
		}
		if filter.Tag != "" && !hasTag(question.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, cloneQuestion(question))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return ports.QuestionPage{Items: []entities.Question{}, Total: total}, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return ports.QuestionPage{Items: matched[filter.Offset:end], Total: total}, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func hasTag(tags []string, target string) bool {
	for _, tag := range tags {
		if tag == target {
			return true
		}
	}
	return false
}

func cloneQuestion(question entities.Question) entities.Question {
	clone := question
	clone.Tags = append([]string(nil), question.Tags...)
	clone.Upvoters = append([]string(nil), question.Upvoters...)
	clone.Downvoters = append([]string(nil), question.Downvoters...)
	return clone
}
