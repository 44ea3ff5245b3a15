package errors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid answer input")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotAuthor        = errors.New("only the answer author may modify it")
)
