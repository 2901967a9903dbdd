package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/science-santa/internal/game"
	"github.com/jwebster45206/science-santa/pkg/jolliness"
)

const (
	sidePanelWidth = 36
	waitingText    = "Preparing response..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctrl   *game.Controller
	screen *screen
	logger *slog.Logger

	chatViewport viewport.Model
	gauge        progress.Model
	spinner      spinner.Model
	help         help.Model

	cursor int
	ready  bool
	width  int
	height int
	status string

	showQuitModal    bool
	showVictoryModal bool

	copyToClipboard func(string) error
}

type turnDoneMsg struct {
	outcome game.Outcome
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	santaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	portraitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	tierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")). // green
			Italic(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("34")).
				Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Align(lipgloss.Center)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("34")).
			Bold(true).
			Padding(0, 2)
)

// NewConsoleUI wires the model to a controller whose presenter is scr.
func NewConsoleUI(ctrl *game.Controller, scr *screen, logger *slog.Logger) ConsoleUI {
	snap := ctrl.Snapshot()
	scr.RenderHistory(snap.History)
	scr.RenderOptions(snap.Options)
	scr.RenderMood(snap.Score)

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	gauge := progress.New(
		progress.WithGradient("#C41E3A", "#2E8B57"),
		progress.WithWidth(sidePanelWidth-4),
	)

	return ConsoleUI{
		ctrl:            ctrl,
		screen:          scr,
		logger:          logger,
		chatViewport:    chatVp,
		gauge:           gauge,
		spinner:         sp,
		help:            help.New(),
		copyToClipboard: clipboard.WriteAll,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) awaiting() bool {
	return m.ctrl.State() == game.StateAwaitingResponse
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showVictoryModal {
		return m.updateVictoryModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeChatContent()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.chatViewport, cmd = m.chatViewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.showQuitModal = true
			return m, nil
		case key.Matches(msg, keys.Copy):
			m.copyTranscript()
			return m, nil
		}

		if m.awaiting() {
			// choices are locked until Santa answers
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Pick):
			return m.choose(int(msg.String()[0] - '1'))
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.screen.options)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, keys.Select):
			return m.choose(m.cursor)
		}

	case turnDoneMsg:
		m.ctrl.Finish(msg.outcome)
		m.cursor = 0
		m.layout()
		m.writeChatContent()
		return m, nil

	case spinner.TickMsg:
		return m.tickSpinner(msg)
	}

	var cmd tea.Cmd
	m.chatViewport, cmd = m.chatViewport.Update(msg)
	return m, cmd
}

// tickSpinner keeps the spinner running while a turn is in flight, even
// behind a modal.
func (m ConsoleUI) tickSpinner(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if !m.awaiting() {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// choose starts a turn for the option at idx. Out of range picks are ignored.
func (m ConsoleUI) choose(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.screen.options) {
		return m, nil
	}

	turn, ok := m.ctrl.Begin(m.screen.options[idx])
	if !ok {
		return m, nil
	}

	m.status = ""
	if m.screen.takeVictory() {
		m.showVictoryModal = true
	}
	m.layout()
	m.writeChatContent()
	return m, tea.Batch(m.spinner.Tick, runTurn(turn))
}

// runTurn calls the model off the update loop and reports back.
func runTurn(turn *game.Turn) tea.Cmd {
	return func() tea.Msg {
		return turnDoneMsg{outcome: turn.Run(context.Background())}
	}
}

func (m *ConsoleUI) copyTranscript() {
	if err := m.copyToClipboard(transcript(m.screen.history)); err != nil {
		m.logger.Warn("Failed to copy transcript", "error", err)
		m.status = "Could not copy the conversation: " + err.Error()
		return
	}
	m.status = "Conversation copied to clipboard."
}

func (m ConsoleUI) chatWidth() int {
	w := m.width - sidePanelWidth - 4
	if w < 20 {
		w = 20
	}
	return w
}

// optionsHeight is the number of rows the option block needs.
func (m ConsoleUI) optionsHeight() int {
	if m.awaiting() || len(m.screen.options) == 0 {
		return 1
	}
	rows := 0
	for i, opt := range m.screen.options {
		rows += strings.Count(m.optionLine(i, opt.Text), "\n") + 1
	}
	return rows
}

// layout sizes the viewport around the option block.
func (m *ConsoleUI) layout() {
	m.chatViewport.Width = m.chatWidth()
	h := m.height - m.optionsHeight() - 6
	if h < 3 {
		h = 3
	}
	m.chatViewport.Height = h
}

func (m *ConsoleUI) writeChatContent() {
	width := m.chatViewport.Width - 2

	var content strings.Builder
	for _, msg := range m.screen.history {
		content.WriteString(formatMessage(msg, width))
		content.WriteString("\n\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) optionLine(i int, text string) string {
	prefix := fmt.Sprintf("%d. ", i+1)
	width := m.chatWidth() - len(prefix) - 2
	if width < 10 {
		width = 10
	}
	lines := strings.Split(wordwrap.String(text, width), "\n")
	indent := strings.Repeat(" ", len(prefix))
	for j := 1; j < len(lines); j++ {
		lines[j] = indent + lines[j]
	}
	return prefix + strings.Join(lines, "\n")
}

func (m ConsoleUI) renderOptions() string {
	if m.awaiting() {
		return m.spinner.View() + " " + loadingStyle.Render(waitingText)
	}
	if len(m.screen.options) == 0 {
		return statusStyle.Render("Santa has nothing more to say. Press esc to quit.")
	}

	lines := make([]string, 0, len(m.screen.options))
	for i, opt := range m.screen.options {
		line := m.optionLine(i, opt.Text)
		if i == m.cursor {
			lines = append(lines, selectedOptionStyle.Render(line))
		} else {
			lines = append(lines, optionStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m ConsoleUI) renderSidePanel() string {
	score := m.screen.score
	tier := jolliness.TierFor(score)

	var content strings.Builder
	content.WriteString(titleStyle.Render("SCIENCE SANTA") + "\n\n")
	content.WriteString(portraitStyle.Render(portraitFor(score)) + "\n\n")
	content.WriteString(fmt.Sprintf("Jolliness Level %d/100\n", score))
	content.WriteString(m.gauge.ViewAs(float64(score)/float64(jolliness.Max)) + "\n")
	content.WriteString(tierStyle.Render(tier.Name))
	return content.String()
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showVictoryModal {
		return m.renderVictoryModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := m.chatWidth()
	footer := m.help.View(keys)
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}

	chatPanel := chatPanelStyle.Width(chatWidth + 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			separatorStyle.Render(strings.Repeat("─", chatWidth)),
			m.renderOptions(),
			"",
			footer,
		),
	)

	sidePanel := sidePanelStyle.Width(sidePanelWidth).Render(m.renderSidePanel())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidePanel, chatPanel)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true

	case spinner.TickMsg:
		return m.tickSpinner(msg)

	case turnDoneMsg:
		m.ctrl.Finish(msg.outcome)
		m.cursor = 0
		m.layout()
		m.writeChatContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			return m, nil
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateVictoryModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true

	case spinner.TickMsg:
		return m.tickSpinner(msg)

	case turnDoneMsg:
		m.ctrl.Finish(msg.outcome)
		m.writeChatContent()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.showQuitModal = true
		case key.Matches(msg, keys.Select):
			m.showVictoryModal = false
			m.ctrl.Restart()
			m.cursor = 0
			m.status = ""
			m.layout()
			m.writeChatContent()
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the North Pole?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to stop chatting with Santa?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N or Esc to keep chatting"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderVictoryModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("* HO HO HO! *"))
	content.WriteString("\n\n")
	content.WriteString("You've restored my Christmas spirit to maximum jolliness! Thank you for the wonderful conversation!")
	content.WriteString("\n\n")
	content.WriteString(tierStyle.Render("Science Santa is ready to spread joy and knowledge throughout the land!"))
	content.WriteString("\n\n")
	content.WriteString(buttonStyle.Render("Start New Conversation"))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Enter to start over, Esc to quit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}
