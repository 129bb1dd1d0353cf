// Package tui provides terminal user interface components for blaze
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blaze-data/blaze/internal/vcs"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	Tag    *vcs.Tag
}

// tagItem implements list.Item for release tag display
type tagItem struct {
	tag vcs.Tag
}

func (i tagItem) Title() string {
	return i.tag.Name
}

func (i tagItem) Description() string {
	date := i.tag.Date
	if date == "" {
		date = "unknown date"
	}
	return fmt.Sprintf("● tagged %s", date)
}

func (i tagItem) FilterValue() string {
	return i.tag.Name
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the release tag picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new release tag picker
func NewPicker(tags []vcs.Tag) Model {
	items := make([]list.Item, len(tags))
	for i, tag := range tags {
		items[i] = tagItem{tag: tag}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "Blaze - Select Release Tag"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		list: l,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(tagItem); ok {
				tag := item.tag
				m.result = PickerResult{
					Action: ActionSelect,
					Tag:    &tag,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive release tag picker
func RunPicker(tags []vcs.Tag) (PickerResult, error) {
	if len(tags) == 0 {
		return PickerResult{Action: ActionNone}, nil
	}

	m := NewPicker(tags)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive fallback that just lists the tags
func SimplePicker(tags []vcs.Tag) string {
	var sb strings.Builder

	sb.WriteString("Blaze - Release Tags\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(tags) == 0 {
		sb.WriteString("No tags found.\n")
		sb.WriteString("Create one with: git tag <prefix><version>\n")
		return sb.String()
	}

	for i, tag := range tags {
		date := tag.Date
		if date == "" {
			date = "unknown date"
		}
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, tag.Name, date))
	}

	return sb.String()
}
