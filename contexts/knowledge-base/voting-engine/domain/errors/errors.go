package errors

import "errors"

var (
	ErrInvalidVoteAction  = errors.New("invalid vote action")
	ErrInvalidVoteInput   = errors.New("invalid vote input")
	ErrSelfVoteForbidden  = errors.New("voting on your own post is forbidden")
	ErrTargetNotFound     = errors.New("vote target not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrNotQuestionAuthor  = errors.New("only the question author may accept an answer")
	ErrAnswerMismatch     = errors.New("answer does not belong to the question")
	ErrInvalidAcceptInput = errors.New("invalid accept input")
)
