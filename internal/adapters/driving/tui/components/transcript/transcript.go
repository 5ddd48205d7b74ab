// Package transcript provides the scrolling conversation view for the TUI.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagechat/internal/core/domain"
)

// Speaker labels shown before each block.
const (
	UserLabel      = "You"
	AssistantLabel = "Assistant"
	ErrorLabel     = "Error"
)

// Transcript renders conversation messages in a scrollable viewport.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	messages []domain.Message
	empty    string
}

// New creates an empty transcript. emptyText is shown until the first message.
func New(s *styles.Styles, emptyText string) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	vp := viewport.New(80, 10)
	// Keys belong to the input line; scrolling goes through ScrollUp/ScrollDown.
	vp.KeyMap = viewport.KeyMap{}

	t := &Transcript{
		viewport: vp,
		styles:   s,
		empty:    emptyText,
	}
	t.refresh()
	return t
}

// Update forwards mouse wheel messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// SetMessages replaces the rendered messages and scrolls to the newest one.
func (t *Transcript) SetMessages(messages []domain.Message) {
	t.messages = messages
	t.refresh()
	t.viewport.GotoBottom()
}

// Messages returns the rendered messages.
func (t *Transcript) Messages() []domain.Message {
	return t.messages
}

// SetSize sets the viewport dimensions and re-wraps the content.
func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// ScrollUp scrolls up one page.
func (t *Transcript) ScrollUp() {
	t.viewport.PageUp()
}

// ScrollDown scrolls down one page.
func (t *Transcript) ScrollDown() {
	t.viewport.PageDown()
}

// AtBottom returns whether the newest message is in view.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

func (t *Transcript) refresh() {
	if len(t.messages) == 0 {
		t.viewport.SetContent(t.styles.Muted.Render(t.empty))
		return
	}
	t.viewport.SetContent(Render(t.messages, t.styles, t.viewport.Width))
}

// Render formats messages as labelled blocks wrapped to width, separated
// by blank lines. Answers list their source URLs underneath.
func Render(messages []domain.Message, s *styles.Styles, width int) string {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if width < 20 {
		width = 20
	}
	body := s.Normal.Width(width)

	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		var b strings.Builder
		switch {
		case m.IsError() || m.Role == domain.RoleSystem:
			b.WriteString(s.Error.Width(width).Render(ErrorLabel + ": " + m.Content))
		case m.Role == domain.RoleUser:
			b.WriteString(s.UserLabel.Render(UserLabel))
			b.WriteString("\n")
			b.WriteString(body.Render(m.Content))
		default:
			b.WriteString(s.AssistantLabel.Render(AssistantLabel))
			b.WriteString("\n")
			b.WriteString(body.Render(m.Content))
			for _, src := range m.Sources {
				b.WriteString("\n")
				b.WriteString(s.Sources.Render("- " + src))
			}
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
