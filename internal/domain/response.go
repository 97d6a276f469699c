package domain

import "strings"

// Response represents one provider's answer to a Question.
// It is created by a provider adapter on successful completion and never
// mutated. Absence of an answer is modeled by the collector as a nil
// *Response, never as a Response with empty text; empty text is rejected
// at construction.
type Response struct {
	// Provider names the source of this answer. Non-blank.
	Provider string `json:"provider"`

	// Question is the question this response answers. Always equal to
	// the value passed to the provider.
	Question Question `json:"question"`

	// Answer is the provider's answer text. Non-blank.
	Answer string `json:"answer"`
}

// NewResponse validates and creates a Response.
// It returns ErrEmptyProvider for a blank provider name,
// ErrInvalidQuestion for a zero-value question, and ErrEmptyAnswer for a
// blank answer.
func NewResponse(provider string, question Question, answer string) (Response, error) {
	if strings.TrimSpace(provider) == "" {
		return Response{}, ErrEmptyProvider
	}
	if question.IsZero() {
		return Response{}, ErrInvalidQuestion
	}
	if strings.TrimSpace(answer) == "" {
		return Response{}, ErrEmptyAnswer
	}
	return Response{Provider: provider, Question: question, Answer: answer}, nil
}

// ShortPreview returns the first n characters of the answer followed by
// an ellipsis marker, or the full answer when it already fits.
func (r Response) ShortPreview(n int) string { return shortPreview(r.Answer, n) }
