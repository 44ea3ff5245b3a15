package entities

// Reputation point values. Answers reward more than questions and downvotes
// cost the target less than upvotes reward, biasing incentives toward
// answering. Removal reverses the exact delta the prior vote applied.
const (
	QuestionUpvoteDelta = 5
	AnswerUpvoteDelta   = 10
	DownvoteDelta       = 2
	AcceptedAnswerAward = 15
)

// UpvoteDelta returns the reputation gain the target author receives when an
// upvote lands on a votable of the given kind.
func UpvoteDelta(kind VotableKind) int {
	if kind == VotableKindAnswer {
		return AnswerUpvoteDelta
	}
	return QuestionUpvoteDelta
}
