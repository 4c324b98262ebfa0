// Package terminal renders a Tap Merge board in the terminal with Bubble Tea.
package terminal

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/ui/scene"
)

// sessionReadyMsg is sent once the board for this terminal exists
type sessionReadyMsg struct {
	info *service.SessionInfo
}

// errMsg carries a failure from a command back to Update
type errMsg struct {
	err error
}

// Model is the Bubble Tea model for one board
type Model struct {
	ctx        context.Context
	svc        service.GameService
	configName string
	director   *scene.Director
	log        *logrus.Entry

	sessionID string
	state     *engine.BoardState
	cursor    engine.Position
	last      *service.TapOutcome
	status    string
	err       error
}

// NewModel creates a model that plays a fresh session of the named preset
func NewModel(ctx context.Context, svc service.GameService, configName string) *Model {
	return &Model{
		ctx:        ctx,
		svc:        svc,
		configName: configName,
		director:   scene.NewDirector("terminal"),
		log:        logrus.WithField("component", "terminal"),
	}
}

// Run plays until the user quits or ctx is cancelled
func Run(ctx context.Context, svc service.GameService, configName string) error {
	p := tea.NewProgram(NewModel(ctx, svc, configName), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.createSession
}

func (m *Model) createSession() tea.Msg {
	info, err := m.svc.CreateSession(m.ctx, m.configName)
	if err != nil {
		return errMsg{err: err}
	}
	return sessionReadyMsg{info: info}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		m.sessionID = msg.info.ID
		m.state = msg.info.BoardState
		if cfg := msg.info.BoardConfig; cfg != nil && cfg.InitialArmed != nil {
			m.cursor = *cfg.InitialArmed
		}
		m.status = fmt.Sprintf("Session %s (%s)", msg.info.ID, msg.info.ConfigName)
		if err := m.director.Loaded(m.ctx); err != nil {
			m.err = err
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.log.WithError(msg.err).Error("Terminal command failed")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m.quit()
	case tea.KeyUp:
		m.moveCursor(0, -1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(0, 1)
		return m, nil
	case tea.KeyLeft:
		m.moveCursor(-1, 0)
		return m, nil
	case tea.KeyRight:
		m.moveCursor(1, 0)
		return m, nil
	case tea.KeyEnter, tea.KeySpace:
		m.tap()
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "k":
		m.moveCursor(0, -1)
	case "j":
		m.moveCursor(0, 1)
	case "h":
		m.moveCursor(-1, 0)
	case "l":
		m.moveCursor(1, 0)
	case "r":
		m.reset()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if err := m.director.Quit(m.ctx); err != nil {
		m.err = err
	}
	return m, tea.Quit
}

func (m *Model) moveCursor(dc, dr int) {
	if !m.director.Is(scene.Board) || m.state == nil {
		return
	}
	col := m.cursor.Col + dc
	row := m.cursor.Row + dr
	if col < 0 || col >= m.state.Cols || row < 0 || row >= m.state.Rows {
		return
	}
	m.cursor = engine.Position{Col: col, Row: row}
}

func (m *Model) tap() {
	if !m.director.Is(scene.Board) {
		return
	}
	outcome, err := m.svc.Tap(m.ctx, m.sessionID, m.cursor.Col, m.cursor.Row, false)
	if err != nil {
		m.err = err
		return
	}
	m.last = outcome
	m.status = outcome.Message
	if outcome.BoardState != nil {
		m.state = outcome.BoardState
	}
}

func (m *Model) reset() {
	if !m.director.Is(scene.Board) {
		return
	}
	if err := m.director.Reload(m.ctx); err != nil {
		m.err = err
		return
	}
	state, err := m.svc.Reset(m.ctx, m.sessionID)
	if err != nil {
		m.err = err
		return
	}
	m.state = state
	m.last = nil
	m.status = "Board reset"
	if err := m.director.Loaded(m.ctx); err != nil {
		m.err = err
	}
}

func (m *Model) View() string {
	if m.director.Is(scene.Quit) {
		return ""
	}

	var b strings.Builder
	b.WriteString("Tap Merge\n\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("Error: %v\n\n", m.err))
	}

	if m.director.Is(scene.Loading) || m.state == nil {
		b.WriteString("Loading...\n")
		return b.String()
	}

	b.WriteString(renderBoard(m.state, m.cursor))
	b.WriteString(fmt.Sprintf("\nMax: %d  Blanks: %d  Taps: %d\n",
		m.state.MaxValue, m.state.Blanks, m.state.CurrentTaps))

	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	if m.last != nil && m.last.Result != nil {
		for _, ia := range m.last.Result.Interactions {
			b.WriteString(fmt.Sprintf("  %s from (%d,%d)\n", ia.Kind, ia.Source.Col, ia.Source.Row))
		}
	}

	b.WriteString("\narrows/hjkl move • space/enter tap • r reset • q quit\n")
	return b.String()
}

// renderBoard draws the grid with brackets around the cursor tile
func renderBoard(state *engine.BoardState, cursor engine.Position) string {
	width := len(fmt.Sprint(state.MaxValue)) + 1
	if width < 2 {
		width = 2
	}

	var b strings.Builder
	for r, row := range state.Tiles {
		for c, t := range row {
			label := ""
			if t.Value != 0 {
				label = fmt.Sprint(t.Value)
			}
			if t.Armed {
				label += "*"
			}
			cell := fmt.Sprintf("%*s", width, label)
			if c == cursor.Col && r == cursor.Row {
				b.WriteString("[" + cell + "]")
			} else {
				b.WriteString(" " + cell + " ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
