package main

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/science-santa/pkg/dialogue"
	"github.com/jwebster45206/science-santa/pkg/session"
)

const (
	SantaName = "Santa"
	UserName  = "You"
)

// screen is what the console draws. The controller writes it through the
// game.Presenter methods; only the bubbletea update loop touches it.
type screen struct {
	history        []session.Message
	options        []dialogue.Option
	score          int
	victoryPending bool
}

func (s *screen) RenderMood(score int) {
	s.score = score
}

func (s *screen) RenderHistory(history []session.Message) {
	s.history = history
}

func (s *screen) RenderOptions(options []dialogue.Option) {
	s.options = options
}

func (s *screen) ShowVictory() {
	s.victoryPending = true
}

// takeVictory reports a pending victory once.
func (s *screen) takeVictory() bool {
	v := s.victoryPending
	s.victoryPending = false
	return v
}

func speakerName(msg session.Message) string {
	if msg.IsUser() {
		return UserName
	}
	return SantaName
}

// formatMessage wraps a chat line and styles the speaker label.
func formatMessage(msg session.Message, width int) string {
	name := speakerName(msg)
	wrapWidth := width - len(name) - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	label := santaStyle.Render(name + ": ")
	if msg.IsUser() {
		label = userStyle.Render(name + ": ")
	}

	lines := strings.Split(wordwrap.String(msg.Text, wrapWidth), "\n")
	indent := strings.Repeat(" ", len(name)+2)
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return label + strings.Join(lines, "\n")
}

// transcript is the plain-text chat used by the copy command.
func transcript(history []session.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(speakerName(msg))
		sb.WriteString(": ")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
