package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/timada-org/todos/internal/board"
	"github.com/timada-org/todos/pkg/client"
	"github.com/timada-org/todos/pkg/todo"
)

type mode int

const (
	modeList mode = iota
	modeTitle
	modeDescription
	modeSearch
	modeColor
	modeColorFilter
)

type changedMsg struct{}

type eventMsg client.Event

type streamClosedMsg struct{}

type resultMsg struct {
	op  string
	err error
}

type Model struct {
	ctx    context.Context
	board  *board.Board
	events <-chan client.Event

	input  textinput.Model
	mode   mode
	cursor int
	status string
}

// New builds the terminal model. events may be nil when live updates are off.
func New(ctx context.Context, b *board.Board, events <-chan client.Event) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 200

	return Model{
		ctx:    ctx,
		board:  b,
		events: events,
		input:  input,
	}
}

func Run(ctx context.Context, b *board.Board, events <-chan client.Event) error {
	_, err := tea.NewProgram(New(ctx, b, events), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run("refresh", m.board.Refresh), m.waitForChange(), m.waitForEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.clampCursor()
		return m, m.waitForChange()

	case eventMsg:
		event := client.Event(msg)
		if event.IsSystem() {
			return m, m.waitForEvent()
		}
		return m, tea.Batch(m.run("refresh", m.board.Refresh), m.waitForEvent())

	case streamClosedMsg:
		log.Warn("event stream closed")
		return m, nil

	case resultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
			log.Warn("operation failed", "op", msg.op, "err", msg.err)
		} else {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.updateList(msg)
		}
		return m.updateInput(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.board.State()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.cursor++
		m.clampCursor()

	case "k", "up":
		m.cursor--
		m.clampCursor()

	case "a":
		return m.prompt(modeTitle, "Title", state.Draft.Title)

	case "/":
		return m.prompt(modeSearch, "Search", state.Query.Search)

	case "C":
		return m.prompt(modeColorFilter, "Filter by color (empty clears)", state.Query.Color)

	case "F":
		m.board.Dispatch(board.OnlyFavoritesChanged{Enabled: !state.Query.OnlyFavorites})
		m.clampCursor()

	case "r":
		return m, m.run("refresh", m.board.Refresh)

	case "f":
		if t, ok := m.selected(); ok {
			return m, m.run("favorite", func(ctx context.Context) error {
				return m.board.ToggleFavorite(ctx, t.ID)
			})
		}

	case "c":
		if t, ok := m.selected(); ok {
			return m.prompt(modeColor, "Color", t.ColorText())
		}

	case "d":
		if t, ok := m.selected(); ok {
			return m, m.run("delete", func(ctx context.Context) error {
				return m.board.Delete(ctx, t.ID)
			})
		}
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeSearch {
			m.board.Dispatch(board.SearchChanged{Text: ""})
		}
		return m.leave(), nil

	case "enter":
		return m.commit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	state := m.board.State()
	switch m.mode {
	case modeSearch:
		m.board.Dispatch(board.SearchChanged{Text: m.input.Value()})
	case modeTitle:
		m.board.Dispatch(board.DraftChanged{Draft: board.Draft{Title: m.input.Value(), Description: state.Draft.Description}})
	case modeDescription:
		m.board.Dispatch(board.DraftChanged{Draft: board.Draft{Title: state.Draft.Title, Description: m.input.Value()}})
	}

	return m, cmd
}

func (m Model) commit() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	switch m.mode {
	case modeTitle:
		if strings.TrimSpace(value) == "" {
			m.status = board.ErrTitleRequired.Error()
			return m, nil
		}
		return m.prompt(modeDescription, "Description (optional)", m.board.State().Draft.Description)

	case modeDescription:
		return m.leave(), m.run("create", m.board.Submit)

	case modeColor:
		t, ok := m.selected()
		m = m.leave()
		if !ok {
			return m, nil
		}
		return m, m.run("color", func(ctx context.Context) error {
			return m.board.SetColor(ctx, t.ID, value)
		})

	case modeColorFilter:
		m.board.Dispatch(board.ColorFilterChanged{Color: strings.TrimSpace(value)})
	}

	return m.leave(), nil
}

func (m Model) prompt(next mode, placeholder string, value string) (tea.Model, tea.Cmd) {
	m.mode = next
	m.status = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()

	return m, m.input.Focus()
}

func (m Model) leave() Model {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
	m.clampCursor()

	return m
}

func (m Model) selected() (todo.Todo, bool) {
	visible := m.board.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return todo.Todo{}, false
	}

	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.board.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// run executes op off the update loop and reports its outcome.
func (m Model) run(name string, op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := op(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return resultMsg{op: name, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	changes := m.board.Changes()
	return func() tea.Msg {
		<-changes
		return changedMsg{}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}

	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(event)
	}
}
