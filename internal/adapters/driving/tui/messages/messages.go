// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// QuestionSubmitted is sent when the user presses enter on a question.
type QuestionSubmitted struct {
	Question string
}

// TurnCompleted carries the outcome of a question/answer turn.
type TurnCompleted struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// Failed returns true if the turn ended with an error.
func (t TurnCompleted) Failed() bool {
	return t.Err != nil
}

// ErrorOccurred signals that an error happened outside a turn.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
