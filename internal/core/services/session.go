package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session holds one conversation. It runs at most one turn at a time.
type Session struct {
	answerer driving.AnswerService

	mu         sync.RWMutex
	transcript []domain.Message
	memory     domain.Memory
	processing bool
}

// NewSession creates an idle session with empty memory.
func NewSession(answerer driving.AnswerService) *Session {
	return &Session{answerer: answerer}
}

// Ask runs one turn. The question is shown in the transcript immediately;
// it joins memory together with the answer only when the turn succeeds.
// A failed turn is recorded in the transcript and leaves memory unchanged.
func (s *Session) Ask(ctx context.Context, input string) (*domain.Answer, error) {
	question := strings.TrimSpace(input)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return nil, domain.ErrTurnInProgress
	}
	s.processing = true
	s.transcript = append(s.transcript, domain.Message{Role: domain.RoleUser, Content: question})
	memory := s.memory.Clone()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	answer, err := s.answerer.Answer(ctx, question, memory)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logger.Error("turn failed: %v", err)
		s.transcript = append(s.transcript, domain.Message{
			Role:    domain.RoleSystem,
			Content: err.Error(),
			Err:     err,
		})
		return nil, err
	}

	s.memory = s.memory.Append(question, answer.Text)
	s.transcript = append(s.transcript, domain.Message{
		Role:    domain.RoleAssistant,
		Content: answer.Text,
		Sources: answer.SourceURLs(),
	})
	return answer, nil
}

// Transcript returns a copy of the displayed messages.
func (s *Session) Transcript() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Memory returns a copy of the conversation memory.
func (s *Session) Memory() domain.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memory.Clone()
}

// IsProcessing returns true while a turn is running.
func (s *Session) IsProcessing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}
