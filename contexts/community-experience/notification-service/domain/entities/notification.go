package entities

import "time"

// NotificationType enumerates the events that fan out to a recipient's
// inbox.
type NotificationType string

const (
	NotificationAnswerToQuestion NotificationType = "answer_to_question"
	NotificationVoteOnQuestion   NotificationType = "vote_on_question"
	NotificationVoteOnAnswer     NotificationType = "vote_on_answer"
	NotificationAnswerAccepted   NotificationType = "answer_accepted"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationAnswerToQuestion,
		NotificationVoteOnQuestion,
		NotificationVoteOnAnswer,
		NotificationAnswerAccepted:
		return true
	}
	return false
}

// Notification is a single inbox entry. SenderID may be empty when the
// producing module withholds the actor, vote notifications do this so
// voters stay anonymous to the content author.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    string
	Type        NotificationType
	QuestionID  string
	AnswerID    string
	VoteAction  string
	Read        bool
	CreatedAt   time.Time
}
