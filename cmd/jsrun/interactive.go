package main

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostbridge/jsvm"
	"github.com/hostbridge/jsvm/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// replEntry is one evaluated line and its outcome.
type replEntry struct {
	input    string
	output   string
	location string
	failed   bool
}

type replModel struct {
	env     *jsvm.Environment
	ctx     *jsvm.Context
	cfg     *config
	input   textinput.Model
	history []replEntry
	recall  int
	seq     int
	busy    bool
}

type evalResultMsg struct {
	entry replEntry
}

func newReplModel(cfg *config) (*replModel, error) {
	env := jsvm.NewEnvironment()
	tmpl, err := buildGlobals(env, cfg.Globals)
	if err != nil {
		env.Dispose()
		return nil, err
	}
	ctx := jsvm.NewContext(env, tmpl)

	ti := textinput.New()
	ti.Placeholder = "1 + 1"
	ti.Prompt = "js> "
	ti.Width = 72
	ti.Focus()

	return &replModel{
		env:    env,
		ctx:    ctx,
		cfg:    cfg,
		input:  ti,
		recall: -1,
	}, nil
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.ctx.Dispose()
			m.env.Dispose()
			return m, tea.Quit

		case "ctrl+l":
			m.history = nil
			m.recall = -1

		case "up":
			if len(m.history) > 0 {
				if m.recall < 0 {
					m.recall = len(m.history)
				}
				if m.recall > 0 {
					m.recall--
				}
				m.input.SetValue(m.history[m.recall].input)
				m.input.CursorEnd()
			}

		case "down":
			if m.recall >= 0 {
				m.recall++
				if m.recall >= len(m.history) {
					m.recall = -1
					m.input.SetValue("")
				} else {
					m.input.SetValue(m.history[m.recall].input)
					m.input.CursorEnd()
				}
			}

		case "enter":
			src := strings.TrimSpace(m.input.Value())
			if src == "" || m.busy {
				break
			}
			m.input.SetValue("")
			m.recall = -1
			m.busy = true
			m.seq++
			return m, m.eval(src)
		}

	case evalResultMsg:
		m.history = append(m.history, msg.entry)
		m.busy = false
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// eval runs one line against the persistent context. The configured
// timeout bounds each evaluation independently.
func (m *replModel) eval(src string) tea.Cmd {
	origin := fmt.Sprintf("repl:%d", m.seq)
	ctx, env, timeout := m.ctx, m.env, m.cfg.Timeout.Duration
	return func() tea.Msg {
		if timeout > 0 {
			timer := time.AfterFunc(timeout, env.TerminateExecution)
			defer timer.Stop()
		}

		v, err := ctx.RunScript(src, origin)
		if err != nil {
			entry := replEntry{input: src, failed: true}
			var serr *errors.Error
			if stderrors.As(err, &serr) {
				entry.output = serr.Message
				if serr.HasLocation() {
					entry.location = *serr.Location
				}
			} else {
				entry.output = err.Error()
			}
			return evalResultMsg{entry: entry}
		}
		return evalResultMsg{entry: replEntry{input: src, output: v.DetailString()}}
	}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jsrun"))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(inputStyle.Render("js> " + e.input))
		b.WriteString("\n")
		if e.failed {
			b.WriteString(errorStyle.Render(e.output))
			if e.location != "" {
				b.WriteString("\n")
				b.WriteString(locationStyle.Render("  at " + e.location))
			}
		} else {
			b.WriteString(resultStyle.Render(e.output))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: eval • up/down: history • ctrl+l: clear • esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func runInteractive(cfg *config) error {
	m, err := newReplModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive mode: %w", err)
	}
	return nil
}
