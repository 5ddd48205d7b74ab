package driving

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// SessionService owns one conversation: the transcript shown to the user
// and the memory sent to the model.
type SessionService interface {
	// Ask runs one question/answer turn.
	// Returns domain.ErrInvalidInput for blank input and
	// domain.ErrTurnInProgress while another turn is running.
	Ask(ctx context.Context, input string) (*domain.Answer, error)

	// Transcript returns a copy of the displayed messages.
	Transcript() []domain.Message

	// Memory returns a copy of the conversation memory.
	Memory() domain.Memory

	// IsProcessing returns true while a turn is running.
	IsProcessing() bool
}
