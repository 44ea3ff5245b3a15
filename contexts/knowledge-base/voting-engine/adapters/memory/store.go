package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	"quorum/contexts/knowledge-base/voting-engine/ports"

	"github.com/google/uuid"
)

type votableKey struct {
	kind entities.VotableKind
	id   string
}

// Store backs the voting engine for tests: it implements every port the use
// cases need (votables, acceptance state, reputation, notifications, outbox,
// clock, id generation) behind one mutex.
type Store struct {
	mu sync.RWMutex

	votables      map[votableKey]entities.Votable
	questions     map[string]ports.QuestionState
	answers       map[string]ports.AnswerState
	reputation    map[string]int
	notifications []ports.Notification
	outbox        []ports.OutboxMessage

	failReputation    bool
	failNotifications bool
}

func NewStore() *Store {
	return &Store{
		votables:   make(map[votableKey]entities.Votable),
		questions:  make(map[string]ports.QuestionState),
		answers:    make(map[string]ports.AnswerState),
		reputation: make(map[string]int),
	}
}

// SeedQuestion registers a question with an empty ledger in both the votable
// and acceptance projections.
func (s *Store) SeedQuestion(questionID string, authorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	questionID = strings.TrimSpace(questionID)
	s.votables[votableKey{entities.VotableKindQuestion, questionID}] = entities.Votable{
		Kind:     entities.VotableKindQuestion,
		ID:       questionID,
		AuthorID: strings.TrimSpace(authorID),
	}
	s.questions[questionID] = ports.QuestionState{
		QuestionID: questionID,
		AuthorID:   strings.TrimSpace(authorID),
	}
}

func (s *Store) SeedAnswer(answerID string, questionID string, authorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answerID = strings.TrimSpace(answerID)
	s.votables[votableKey{entities.VotableKindAnswer, answerID}] = entities.Votable{
		Kind:     entities.VotableKindAnswer,
		ID:       answerID,
		AuthorID: strings.TrimSpace(authorID),
	}
	s.answers[answerID] = ports.AnswerState{
		AnswerID:   answerID,
		QuestionID: strings.TrimSpace(questionID),
		AuthorID:   strings.TrimSpace(authorID),
	}
}

func (s *Store) SetReputation(accountID string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reputation[strings.TrimSpace(accountID)] = score
}

// FailSecondaryWrites makes reputation and notification writes error so tests
// can assert the pipeline's best-effort handling.
func (s *Store) FailSecondaryWrites(reputation bool, notifications bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReputation = reputation
	s.failNotifications = notifications
}

func (s *Store) GetVotable(_ context.Context, kind entities.VotableKind, targetID string) (entities.Votable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	votable, ok := s.votables[votableKey{kind, strings.TrimSpace(targetID)}]
	if !ok {
		return entities.Votable{}, domainerrors.ErrTargetNotFound
	}
	return cloneVotable(votable), nil
}

func (s *Store) SaveVotable(_ context.Context, votable entities.Votable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votables[votableKey{votable.Kind, strings.TrimSpace(votable.ID)}] = cloneVotable(votable)
	return nil
}

func (s *Store) GetQuestionState(_ context.Context, questionID string) (ports.QuestionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return ports.QuestionState{}, domainerrors.ErrQuestionNotFound
	}
	return state, nil
}

func (s *Store) GetAnswerState(_ context.Context, answerID string) (ports.AnswerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.answers[strings.TrimSpace(answerID)]
	if !ok {
		return ports.AnswerState{}, domainerrors.ErrAnswerNotFound
	}
	return state, nil
}

func (s *Store) SetAccepted(_ context.Context, questionID string, answerID string, previousAnswerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questionID = strings.TrimSpace(questionID)
	answerID = strings.TrimSpace(answerID)
	question, ok := s.questions[questionID]
	if !ok {
		return domainerrors.ErrQuestionNotFound
	}
	answer, ok := s.answers[answerID]
	if !ok {
		return domainerrors.ErrAnswerNotFound
	}

	if previousAnswerID = strings.TrimSpace(previousAnswerID); previousAnswerID != "" {
		if previous, ok := s.answers[previousAnswerID]; ok {
			previous.IsAccepted = false
			s.answers[previousAnswerID] = previous
		}
	}
	answer.IsAccepted = true
	s.answers[answerID] = answer
	question.AcceptedAnswerID = answerID
	s.questions[questionID] = question
	return nil
}

func (s *Store) ApplyReputationDelta(_ context.Context, accountID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReputation {
		return domainerrors.ErrInvalidVoteInput
	}
	s.reputation[strings.TrimSpace(accountID)] += delta
	return nil
}

func (s *Store) EmitNotification(_ context.Context, notification ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNotifications {
		return domainerrors.ErrInvalidVoteInput
	}
	s.notifications = append(s.notifications, notification)
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := encodeEnvelope(event)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, ports.OutboxMessage{
		OutboxID:  event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    "pending",
		CreatedAt: event.OccurredAt,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.Status != "pending" {
			continue
		}
		items = append(items, row)
		if len(items) == limit {
			break
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].OutboxID == outboxID {
			s.outbox[i].Status = "published"
			published := publishedAt
			s.outbox[i].PublishedAt = &published
			return nil
		}
	}
	return domainerrors.ErrTargetNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Inspection helpers for tests.

func (s *Store) Votable(kind entities.VotableKind, targetID string) (entities.Votable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	votable, ok := s.votables[votableKey{kind, strings.TrimSpace(targetID)}]
	return cloneVotable(votable), ok
}

func (s *Store) ReputationOf(accountID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reputation[strings.TrimSpace(accountID)]
}

func (s *Store) Notifications() []ports.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Notification(nil), s.notifications...)
}

func (s *Store) QuestionStateOf(questionID string) (ports.QuestionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.questions[strings.TrimSpace(questionID)]
	return state, ok
}

func (s *Store) AnswerStateOf(answerID string) (ports.AnswerState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.answers[strings.TrimSpace(answerID)]
	return state, ok
}

func (s *Store) OutboxMessages() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.OutboxMessage(nil), s.outbox...)
}

func encodeEnvelope(event ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(event)
}

func cloneVotable(votable entities.Votable) entities.Votable {
	clone := votable
	clone.Upvoters = append([]string(nil), votable.Upvoters...)
	clone.Downvoters = append([]string(nil), votable.Downvoters...)
	return clone
}
