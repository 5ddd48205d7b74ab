package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// fakeSession implements driving.SessionService, answering with reply.
type fakeSession struct {
	mu         sync.Mutex
	transcript []domain.Message
	memory     domain.Memory
	asked      []string
	reply      func(question string) (string, error)
}

func (f *fakeSession) Ask(_ context.Context, input string) (*domain.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.asked = append(f.asked, input)
	f.transcript = append(f.transcript, domain.Message{Role: domain.RoleUser, Content: input})

	text, err := "answer to " + input, error(nil)
	if f.reply != nil {
		text, err = f.reply(input)
	}
	if err != nil {
		f.transcript = append(f.transcript, domain.Message{Role: domain.RoleSystem, Content: err.Error(), Err: err})
		return nil, err
	}

	f.memory = f.memory.Append(input, text)
	f.transcript = append(f.transcript, domain.Message{
		Role:    domain.RoleAssistant,
		Content: text,
		Sources: []string{"https://mc.example/tuition"},
	})
	return &domain.Answer{Text: text}, nil
}

func (f *fakeSession) Transcript() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.transcript...)
}

func (f *fakeSession) Memory() domain.Memory {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.memory.Clone()
}

func (f *fakeSession) IsProcessing() bool { return false }

func newTestView(session *fakeSession) *View {
	v := NewView(nil, nil, session, Header{Title: "MC Admissions Chatbot", Intro: "Ask me anything"})
	v.SetDimensions(100, 30)
	return v
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// turnResult runs the commands returned on submit and returns the turn outcome.
func turnResult(t *testing.T, cmd tea.Cmd) messages.TurnCompleted {
	t.Helper()
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "submit returns spinner tick and turn")
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(messages.TurnCompleted); ok {
			return done
		}
	}
	t.Fatal("no TurnCompleted in batch")
	return messages.TurnCompleted{}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil, Header{})

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.False(t, v.Thinking())
	assert.Equal(t, "Initialising...", v.View())
	assert.NotNil(t, v.Init())
}

func TestView_SetDimensions(t *testing.T) {
	v := newTestView(&fakeSession{})

	assert.True(t, v.Ready())
	assert.Equal(t, 100, v.Width())
	assert.Equal(t, 30, v.Height())

	v.Update(tea.WindowSizeMsg{Width: 60, Height: 5})
	assert.Equal(t, 60, v.Width())
	assert.NotEmpty(t, v.View())
}

func TestView_RendersHeaderAndHints(t *testing.T) {
	v := newTestView(&fakeSession{})

	view := v.View()

	assert.Contains(t, view, "MC Admissions Chatbot")
	assert.Contains(t, view, "Ask me anything")
	assert.Contains(t, view, "enter: send")
	assert.NotContains(t, view, ThinkingText)
}

func TestView_AskTurn(t *testing.T) {
	session := &fakeSession{}
	v := newTestView(session)

	typeText(v, "  How much is tuition?  ")
	assert.Equal(t, "  How much is tuition?  ", v.Input())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, v.Thinking())
	assert.Empty(t, v.Input())
	assert.Equal(t, status.StateThinking, v.Status())
	assert.Contains(t, v.View(), ThinkingText)
	require.Len(t, v.Messages(), 1, "question is shown while thinking")
	assert.Equal(t, "How much is tuition?", v.Messages()[0].Content)

	done := turnResult(t, cmd)
	require.NoError(t, done.Err)
	assert.Equal(t, []string{"How much is tuition?"}, session.asked)

	v.Update(done)

	assert.False(t, v.Thinking())
	assert.Equal(t, status.StateReady, v.Status())
	require.Len(t, v.Messages(), 2)
	view := v.View()
	assert.Contains(t, view, "answer to How much is tuition?")
	assert.Contains(t, view, "https://mc.example/tuition")
	assert.Contains(t, view, "1 question answered")
	assert.NotContains(t, view, ThinkingText)
}

func TestView_RefusesInputWhileThinking(t *testing.T) {
	session := &fakeSession{}
	v := newTestView(session)

	typeText(v, "first")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	typeText(v, "second")
	_, again := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, again)
	assert.Empty(t, v.Input())
	assert.Nil(t, v.submit("third"))

	v.Update(turnResult(t, cmd))
	assert.Equal(t, []string{"first"}, session.asked)
}

func TestView_EmptyQuestionIgnored(t *testing.T) {
	v := newTestView(&fakeSession{})

	typeText(v, "   ")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Thinking())
}

func TestView_FailedTurn(t *testing.T) {
	session := &fakeSession{reply: func(string) (string, error) {
		return "", domain.ErrRateLimited
	}}
	v := newTestView(session)

	_, cmd := v.Update(messages.QuestionSubmitted{Question: "tuition?"})
	v.Update(turnResult(t, cmd))

	assert.ErrorIs(t, v.Err(), domain.ErrRateLimited)
	assert.Equal(t, status.StateError, v.Status())
	assert.Contains(t, v.View(), "Error: rate limited")
	assert.False(t, v.Thinking())
}

func TestView_NoSession(t *testing.T) {
	v := NewView(nil, nil, nil, Header{})
	v.SetDimensions(80, 24)

	_, cmd := v.Update(messages.QuestionSubmitted{Question: "q"})
	require.NotNil(t, cmd)

	msg := cmd()
	v.Update(msg)

	assert.True(t, errors.Is(v.Err(), ErrNoSession))
	assert.Equal(t, status.StateError, v.Status())
}

func TestView_ClearKey(t *testing.T) {
	v := newTestView(&fakeSession{})

	typeText(v, "draft")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, v.Input())
}

func TestView_ScrollKeysDoNotType(t *testing.T) {
	v := newTestView(&fakeSession{})

	v.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	v.Update(tea.KeyMsg{Type: tea.KeyPgDown})

	assert.Empty(t, v.Input())
}

func TestView_SpinnerTickIgnoredWhenIdle(t *testing.T) {
	v := newTestView(&fakeSession{})

	_, cmd := v.Update(v.spinner.Tick())

	assert.Nil(t, cmd)
}
