package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/tui/components/reminderlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reminderList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case reminderlist.AddReminderMsg:
		return m, m.openReminderForm()

	case reminderlist.DismissReminderMsg:
		if err := m.reminders.Dismiss(msg.ID); err != nil {
			m.status = err.Error()
		}
		m.refresh()
		return m, nil

	case reminderlist.DeleteReminderMsg:
		if err := m.reminders.Delete(msg.ID); err != nil {
			m.status = err.Error()
		}
		m.refresh()
		return m, nil
	}

	switch m.state {
	case constants.StateEditing, constants.StateAddReminder, constants.StateEditSchedule:
		return m.updateForm(msg)
	case constants.StateConfirmClear:
		return m.updateConfirmClear(msg)
	case constants.StateReminders:
		return m.updateReminders(msg)
	default:
		return m.updatePlanner(msg)
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if err := m.session.Close(); err != nil {
		m.status = err.Error()
	}
	return m, tea.Quit
}

func (m Model) updatePlanner(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit()
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = constants.StateReminders
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.PrevDay):
		m.setDate(m.date.AddDate(0, 0, -1))
	case key.Matches(keyMsg, m.keys.NextDay):
		m.setDate(m.date.AddDate(0, 0, 1))
	case key.Matches(keyMsg, m.keys.Today):
		m.setDate(m.today())
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(keyMsg, m.keys.AddPriority):
		if !m.day.CanAddPriority() {
			m.status = planner.ErrPriorityLimit.Error()
			return m, nil
		}
		return m, m.openInput(actionAddPriority, row{}, "New priority", "")
	case key.Matches(keyMsg, m.keys.Add):
		return m, m.addToSelected()
	case key.Matches(keyMsg, m.keys.Edit):
		return m, m.editSelected()
	case key.Matches(keyMsg, m.keys.Delete):
		m.deleteSelected()
	case key.Matches(keyMsg, m.keys.Notes):
		return m, m.openInput(actionNotes, row{}, "Notes", m.day.BrainDump)
	case key.Matches(keyMsg, m.keys.Schedule):
		return m, m.openScheduleForm()
	case key.Matches(keyMsg, m.keys.ClearDay):
		m.previousState = m.state
		m.state = constants.StateConfirmClear
	}
	return m, nil
}

func (m *Model) toggleSelected() {
	r, ok := m.selected()
	if !ok {
		return
	}
	switch r.kind {
	case rowPriority:
		if p, ok := m.priority(r.priorityID); ok && len(p.Subtasks) > 0 {
			m.status = "completion follows subtasks"
			return
		}
		m.update(func(d models.PlannerDay) models.PlannerDay {
			return planner.TogglePriority(d, r.priorityID)
		})
	case rowSubtask:
		m.update(func(d models.PlannerDay) models.PlannerDay {
			return planner.ToggleSubtask(d, r.priorityID, r.subtaskID)
		})
	case rowItem:
		m.update(func(d models.PlannerDay) models.PlannerDay {
			return planner.CycleItemStatus(d, r.slot, r.itemID)
		})
	}
}

func (m *Model) addToSelected() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowPriority, rowSubtask:
		return m.openInput(actionAddSubtask, r, "New subtask", "")
	default:
		return m.openInput(actionAddItem, r, "New item", "")
	}
}

func (m *Model) editSelected() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowPriority:
		p, _ := m.priority(r.priorityID)
		return m.openInput(actionRename, r, "Rename priority", p.Name)
	case rowSubtask:
		s, _ := m.subtask(r.priorityID, r.subtaskID)
		return m.openInput(actionRename, r, "Rename subtask (blank deletes)", s.Name)
	case rowItem:
		it, _ := m.item(r.slot, r.itemID)
		return m.openInput(actionRename, r, "Edit item (blank deletes)", it.Text)
	}
	return nil
}

func (m *Model) deleteSelected() {
	r, ok := m.selected()
	if !ok {
		return
	}
	m.update(func(d models.PlannerDay) models.PlannerDay {
		switch r.kind {
		case rowPriority:
			return planner.DeletePriority(d, r.priorityID)
		case rowSubtask:
			return planner.DeleteSubtask(d, r.priorityID, r.subtaskID)
		case rowItem:
			return planner.DeleteItem(d, r.slot, r.itemID)
		}
		return d
	})
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.formError = ""
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// stay in the form so the user can correct the value
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) submitForm() error {
	switch m.state {
	case constants.StateAddReminder:
		return m.submitReminder()
	case constants.StateEditSchedule:
		return m.submitSchedule()
	default:
		return m.submitInput()
	}
}

func (m Model) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.update(planner.ClearDay)
		m.cursor = 0
		m.state = m.previousState
	case "n", "N", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateReminders(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "ctrl+c":
			return m.quit()
		case key.Matches(keyMsg, m.keys.Tab), keyMsg.Type == tea.KeyEsc:
			m.state = constants.StatePlanner
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.reminderList, cmd = m.reminderList.Update(msg)
	return m, cmd
}
