package reminderlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/reminders"
)

type AddReminderMsg struct{}

type DismissReminderMsg struct {
	ID string
}

type DeleteReminderMsg struct {
	ID string
}

type Item struct {
	Reminder models.Reminder
	Now      time.Time
}

func (i Item) Title() string {
	title := fmt.Sprintf("⏰ %s at %s", i.Reminder.Title, i.Reminder.TimeSlot)
	switch {
	case i.Reminder.Dismissed:
		title = "[DISMISSED] " + title
	case reminders.IsPastDue(i.Reminder, i.Now):
		title = "[PAST DUE] " + title
	}
	return title
}

func (i Item) Description() string {
	if i.Reminder.Description != "" {
		return fmt.Sprintf("%s · %s", i.Reminder.Date, i.Reminder.Description)
	}
	return i.Reminder.Date
}

func (i Item) FilterValue() string { return i.Reminder.Title }

type KeyMap struct {
	Add     key.Binding
	Dismiss key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func items(rs []models.Reminder, now time.Time) []list.Item {
	out := make([]list.Item, len(rs))
	for i, r := range rs {
		out[i] = Item{Reminder: r, Now: now}
	}
	return out
}

func New(rs []models.Reminder, now time.Time, width, height int) Model {
	l := list.New(items(rs, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Reminders"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Dismiss, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Dismiss, keys.Delete}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func (m *Model) SetReminders(rs []models.Reminder, now time.Time) {
	m.list.SetItems(items(rs, now))
}

// Selected returns the highlighted reminder, if any.
func (m Model) Selected() (models.Reminder, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Reminder{}, false
	}
	return item.Reminder, true
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddReminderMsg{} }
		case key.Matches(msg, m.keys.Dismiss):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DismissReminderMsg{ID: r.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteReminderMsg{ID: r.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
