package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// Ensure Answerer implements the interfaces.
var (
	_ driving.AnswerService   = (*Answerer)(nil)
	_ driven.PromptStoreAware = (*Answerer)(nil)
)

// defaultChatSystemPrompt is the fallback when no PromptStore is configured.
const defaultChatSystemPrompt = `You are a helpful assistant answering questions about the web pages below.
Use only the following pieces of context to answer the user's question. If the context does not contain the answer, say that you don't know; do not make one up.

Context:
%s`

// defaultCondensePrompt is the fallback when no PromptStore is configured.
const defaultCondensePrompt = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question, in its original language.
Return ONLY the standalone question.

Chat History:
%s
Follow Up Input: %s
Standalone question:`

// AnswerConfig holds the chat parameters for answers.
type AnswerConfig struct {
	// TopK is the number of chunks used as context.
	TopK int

	// Temperature is passed to the chat model.
	Temperature float64

	// MaxTokens caps the answer length. Zero leaves it to the model.
	MaxTokens int
}

// Answerer produces answers grounded in retrieved page excerpts.
type Answerer struct {
	retriever   driving.RetrievalService
	llm         driven.LLMService
	promptStore driven.PromptStore
	cfg         AnswerConfig
}

// NewAnswerer creates a new answerer.
func NewAnswerer(retriever driving.RetrievalService, llm driven.LLMService, cfg AnswerConfig) *Answerer {
	return &Answerer{
		retriever: retriever,
		llm:       llm,
		cfg:       cfg,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the answerer uses the built-in prompts.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Answer answers question using memory for follow-up context.
//
// A follow-up is first rewritten into a standalone question, which is used
// for retrieval. The chat request then carries the system prompt with the
// retrieved context, every memory turn in order, and the question as asked.
func (a *Answerer) Answer(ctx context.Context, question string, memory domain.Memory) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if a.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	standalone := question
	if !memory.IsEmpty() {
		condensed, err := a.condense(ctx, question, memory)
		if err != nil {
			return nil, err
		}
		standalone = condensed
	}

	sources, err := a.retriever.Retrieve(ctx, standalone, a.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("retrieved %d chunks for %q", len(sources), standalone)

	messages := make([]driven.ChatMessage, 0, len(memory)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleSystem.String(),
		Content: fmt.Sprintf(a.prompt(driven.PromptChatSystem, defaultChatSystemPrompt, 1), formatContext(sources)),
	})
	for _, turn := range memory {
		messages = append(messages, driven.ChatMessage{Role: turn.Role.String(), Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser.String(), Content: question})

	text, err := a.llm.Chat(ctx, messages, a.chatOptions())
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	return &domain.Answer{
		Text:               strings.TrimSpace(text),
		StandaloneQuestion: standalone,
		Sources:            sources,
	}, nil
}

// condense asks the model to rewrite a follow-up as a standalone question.
// An empty rewrite falls back to the question as asked.
func (a *Answerer) condense(ctx context.Context, question string, memory domain.Memory) (string, error) {
	prompt := fmt.Sprintf(a.prompt(driven.PromptCondenseQuestion, defaultCondensePrompt, 2), formatHistory(memory), question)

	rewritten, err := a.llm.Chat(ctx, []driven.ChatMessage{
		{Role: domain.RoleUser.String(), Content: prompt},
	}, a.chatOptions())
	if err != nil {
		return "", fmt.Errorf("condense question: %w", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	logger.Debug("standalone question: %q", rewritten)
	return rewritten, nil
}

func (a *Answerer) chatOptions() driven.ChatOptions {
	return driven.ChatOptions{
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}
}

// prompt loads a template from the store, falling back to the default when
// the store is unset, fails, or the template has the wrong number of %s.
func (a *Answerer) prompt(name, fallback string, placeholders int) string {
	if a.promptStore == nil {
		return fallback
	}
	tmpl, err := a.promptStore.Load(name)
	if err != nil {
		logger.Warn("load prompt %s: %v", name, err)
		return fallback
	}
	if strings.Count(tmpl, "%s") != placeholders {
		logger.Warn("prompt %s needs %d %%s placeholder(s), using default", name, placeholders)
		return fallback
	}
	return tmpl
}

// formatContext joins the retrieved chunk texts, best first.
func formatContext(sources []domain.RetrievedChunk) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// formatHistory renders memory for the condense prompt.
func formatHistory(memory domain.Memory) string {
	var b strings.Builder
	for _, turn := range memory {
		switch turn.Role {
		case domain.RoleUser:
			b.WriteString("Human: ")
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			continue
		}
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
