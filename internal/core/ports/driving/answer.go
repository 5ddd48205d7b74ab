package driving

import (
	"context"

	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// AnswerService produces a grounded answer for one question.
type AnswerService interface {
	// Answer answers question given the conversation so far.
	// memory is read-only; callers own it.
	Answer(ctx context.Context, question string, memory domain.Memory) (*domain.Answer, error)
}
