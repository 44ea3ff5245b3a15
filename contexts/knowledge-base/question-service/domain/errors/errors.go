package errors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid question input")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotAuthor        = errors.New("only the question author may modify it")
)
