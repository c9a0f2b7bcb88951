// Package tui is the terminal client for the item API: an add-item form above
// the current list. The list is never edited locally; every mutation is
// followed by a full refetch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"item-tracker/internal/models"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	msgFetchFailed   = "Failed to fetch items. Please try again."
	msgNameEmpty     = "Item name cannot be empty."
	msgAdded         = "Item added successfully!"
	msgDeleted       = "Item deleted successfully!"
	successLifetime  = 3 * time.Second
	defaultTimeout   = 10 * time.Second
	descriptionLimit = 500
)

// API is the subset of client.Client the UI needs.
type API interface {
	List(ctx context.Context) ([]models.Item, error)
	Create(ctx context.Context, name, description string) (models.Item, error)
	Delete(ctx context.Context, id string) (string, error)
}

type focus int

const (
	focusName focus = iota
	focusDescription
	focusList
	focusCount
)

type (
	itemsLoadedMsg struct {
		items   []models.Item
		success string
	}
	// fetchFailedMsg keeps the success text of the mutation that triggered
	// the refetch; the mutation itself went through.
	fetchFailedMsg struct {
		err     error
		success string
	}
	itemCreatedMsg struct{ item models.Item }
	itemDeletedMsg struct{ id string }

	mutationFailedMsg struct {
		action string
		err    error
	}

	clearSuccessMsg struct{ seq int }
)

// Model is the whole UI state. It is passed by value through Update and View.
type Model struct {
	api     API
	timeout time.Duration

	items  []models.Item
	cursor int
	focus  focus

	name        textinput.Model
	description textinput.Model

	loading    bool
	err        string
	success    string
	successSeq int

	keys keyMap
	help help.Model
}

func New(api API) Model {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "e.g., Buy groceries"
	name.CharLimit = 200
	name.Focus()

	desc := textinput.New()
	desc.Prompt = "> "
	desc.Placeholder = "e.g., Milk, eggs, bread"
	desc.CharLimit = descriptionLimit

	return Model{
		api:         api,
		timeout:     defaultTimeout,
		name:        name,
		description: desc,
		loading:     true,
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch(""))
}

func (m Model) Items() []models.Item { return m.items }
func (m Model) Loading() bool        { return m.loading }
func (m Model) Err() string          { return m.err }
func (m Model) Success() string      { return m.success }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case itemsLoadedMsg:
		m.loading = false
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m.showSuccess(msg.success)

	case fetchFailedMsg:
		m.loading = false
		m.err = msgFetchFailed
		return m.showSuccess(msg.success)

	case itemCreatedMsg:
		m.name.SetValue("")
		m.description.SetValue("")
		return m, m.fetch(msgAdded)

	case itemDeletedMsg:
		return m, m.fetch(msgDeleted)

	case mutationFailedMsg:
		m.loading = false
		m.err = fmt.Sprintf("Failed to %s item: %s", msg.action, msg.err.Error())
		return m, nil

	case clearSuccessMsg:
		// A newer banner owns the screen; leave it alone.
		if msg.seq == m.successSeq {
			m.success = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.err = ""
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusList {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Delete):
			return m.deleteSelected()
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.err = ""
			return m, m.fetch("")
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submit()
	}
	return m.updateInputs(msg)
}

// showSuccess sets the banner and schedules its removal. Empty text is a no-op.
func (m Model) showSuccess(text string) (tea.Model, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	m.success = text
	m.successSeq++
	seq := m.successSeq
	return m, tea.Tick(successLifetime, func(time.Time) tea.Msg { return clearSuccessMsg{seq: seq} })
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.err = ""
	m.success = ""

	name := strings.TrimSpace(m.name.Value())
	if name == "" {
		m.err = msgNameEmpty
		return m, nil
	}
	description := strings.TrimSpace(m.description.Value())

	m.loading = true
	return m, m.create(name, description)
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	if m.loading || len(m.items) == 0 {
		return m, nil
	}
	m.err = ""
	m.success = ""
	m.loading = true
	return m, m.remove(m.items[m.cursor].ID)
}

func (m Model) setFocus(f focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.name.Blur()
	m.description.Blur()
	switch f {
	case focusName:
		return m, m.name.Focus()
	case focusDescription:
		return m, m.description.Focus()
	}
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.name, cmd = m.name.Update(msg)
	case focusDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m Model) fetch(success string) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := api.List(ctx)
		if err != nil {
			return fetchFailedMsg{err: err, success: success}
		}
		return itemsLoadedMsg{items: items, success: success}
	}
}

func (m Model) create(name, description string) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		it, err := api.Create(ctx, name, description)
		if err != nil {
			return mutationFailedMsg{action: "add", err: err}
		}
		return itemCreatedMsg{item: it}
	}
}

func (m Model) remove(id string) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := api.Delete(ctx, id); err != nil {
			return mutationFailedMsg{action: "delete", err: err}
		}
		return itemDeletedMsg{id: id}
	}
}
