// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
)

// ErrNoSession is returned when the view has no session to ask.
var ErrNoSession = errors.New("session not available")

// ThinkingText is shown next to the spinner while a turn runs.
const ThinkingText = "Thinking..."

// Rows taken by everything except the transcript: header (2) and its
// gap, thinking line, bordered input (3) and status bar.
const chromeHeight = 8

// Header holds the text shown above the transcript.
type Header struct {
	Title string
	Intro string
}

// View shows the header, transcript, input line and status bar.
// Only one question is in flight at a time.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	header     Header
	transcript *transcript.Transcript
	input      *input.ChatInput
	statusbar  *status.Bar
	spinner    spinner.Model

	session driving.SessionService
	ctx     context.Context

	width    int
	height   int
	ready    bool
	thinking bool
	err      error
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService, header Header) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	v := &View{
		styles:     s,
		keymap:     km,
		header:     header,
		transcript: transcript.New(s, "Type a question below and press enter."),
		input:      input.NewChatInput(s),
		statusbar:  status.NewBar(s, km),
		spinner:    sp,
		session:    session,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.syncTranscript()
	return v
}

// WithContext sets the context passed to every turn.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.QuestionSubmitted:
		return v, v.submit(msg.Question)

	case messages.TurnCompleted:
		return v, v.handleTurnCompleted(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.ScrollUp):
		v.transcript.ScrollUp()
		return v, nil

	case key.Matches(msg, v.keymap.ScrollDown):
		v.transcript.ScrollDown()
		return v, nil

	case v.thinking:
		// One input at a time.
		return v, nil

	case key.Matches(msg, v.keymap.Send):
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.input.Reset()
		return v, v.submit(question)

	case key.Matches(msg, v.keymap.Clear):
		v.input.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts a turn. The question is shown at once; the transcript is
// re-read from the session when the turn completes.
func (v *View) submit(question string) tea.Cmd {
	if v.thinking {
		return nil
	}
	if v.session == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoSession}
		}
	}

	v.thinking = true
	v.err = nil
	v.input.Blur()
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	pending := append(v.session.Transcript(), domain.Message{Role: domain.RoleUser, Content: question})
	v.transcript.SetMessages(pending)

	return tea.Batch(v.spinner.Tick, v.ask(question))
}

// ask runs the turn off the update loop.
func (v *View) ask(question string) tea.Cmd {
	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		answer, err := session.Ask(ctx, question)
		return messages.TurnCompleted{Question: question, Answer: answer, Err: err}
	}
}

// handleTurnCompleted returns the view to idle and renders the outcome.
func (v *View) handleTurnCompleted(msg messages.TurnCompleted) tea.Cmd {
	v.thinking = false
	v.syncTranscript()

	if msg.Failed() {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.err = nil
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}

	return v.input.Focus()
}

// syncTranscript renders the session's transcript.
func (v *View) syncTranscript() {
	if v.session == nil {
		return
	}
	v.transcript.SetMessages(v.session.Transcript())
	v.statusbar.SetRounds(v.session.Memory().Rounds())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	title := v.styles.Title.Render(v.header.Title)
	intro := v.styles.Intro.Render(v.header.Intro)

	thinking := ""
	if v.thinking {
		thinking = v.spinner.View() + " " + v.styles.Muted.Render(ThinkingText)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		intro,
		"",
		v.transcript.View(),
		thinking,
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	transcriptHeight := height - chromeHeight
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.transcript.SetSize(width, transcriptHeight)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Thinking returns whether a turn is running.
func (v *View) Thinking() bool {
	return v.thinking
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.input.Value()
}

// Messages returns the messages currently rendered.
func (v *View) Messages() []domain.Message {
	return v.transcript.Messages()
}

// Err returns the error of the last turn, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}
