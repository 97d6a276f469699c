// Package domain contains the immutable value records shared by every
// layer of the arena: the Question posed to the providers and the
// Response each provider returns. Values are constructed only through
// validating factories; a validation failure yields an error, never a
// partially built record.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question represents a single prompt sent to every provider in a run.
// A Question is created once per generation cycle and never mutated;
// the same value is passed to all providers and to the judge.
type Question struct {
	// ID uniquely identifies this question. It is stable for the
	// lifetime of a run and appears in all diagnostics.
	ID string `json:"id"`

	// Text is the question itself. Guaranteed non-blank by NewQuestion.
	Text string `json:"text"`

	// CreatedAt records when the question was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewQuestion creates a Question with a fresh UUID and the current time.
// It returns ErrEmptyQuestionText if text is blank or whitespace-only.
func NewQuestion(text string) (Question, error) {
	if strings.TrimSpace(text) == "" {
		return Question{}, ErrEmptyQuestionText
	}
	return Question{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// WithText returns a copy of the question carrying new text but the same
// identity and creation time. This is how a run restates a question
// (e.g. appending a brevity instruction) without minting a new ID.
func (q Question) WithText(text string) (Question, error) {
	if strings.TrimSpace(text) == "" {
		return Question{}, ErrEmptyQuestionText
	}
	return Question{ID: q.ID, Text: text, CreatedAt: q.CreatedAt}, nil
}

// IsZero reports whether the question is the zero value, i.e. was not
// built through NewQuestion.
func (q Question) IsZero() bool { return q.ID == "" && q.Text == "" }

// ShortPreview returns the first n characters of the question text
// followed by an ellipsis marker, or the full text when it already fits.
func (q Question) ShortPreview(n int) string { return shortPreview(q.Text, n) }

// shortPreview truncates on rune boundaries so multibyte text never
// yields invalid UTF-8.
func shortPreview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
