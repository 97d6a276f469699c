package domain

import "errors"

// Validation errors returned by the value record constructors.
// These indicate a caller defect, not an environmental condition, and
// are never absorbed the way backend failures are.
var (
	// ErrEmptyQuestionText indicates a blank or whitespace-only question.
	ErrEmptyQuestionText = errors.New("question text cannot be empty")

	// ErrEmptyProvider indicates a blank provider name on a response.
	ErrEmptyProvider = errors.New("provider name cannot be empty")

	// ErrEmptyAnswer indicates a blank answer on a response.
	ErrEmptyAnswer = errors.New("answer text cannot be empty")

	// ErrInvalidQuestion indicates a response was built against a
	// question that did not come from NewQuestion.
	ErrInvalidQuestion = errors.New("response must reference a valid question")
)
