package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

const defaultWidth = 80

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateReminders:
		content = docStyle.Render(m.reminderList.View())
	case constants.StateEditing, constants.StateAddReminder, constants.StateEditSchedule:
		content = m.viewForm()
	case constants.StateConfirmClear:
		content = m.viewConfirmClear()
	default:
		content = docStyle.Render(m.viewPlanner())
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := constants.StatePlanner
	if m.state == constants.StateReminders || m.previousState == constants.StateReminders && m.state == constants.StateAddReminder {
		active = constants.StateReminders
	}
	for _, t := range []struct {
		title string
		state constants.SessionState
	}{{"Planner", constants.StatePlanner}, {"Reminders", constants.StateReminders}} {
		if t.state == active {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title))
		}
	}
	tabs = append(tabs, inactiveTabStyle.Render(m.date.Format("Monday, January 2, 2006")))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width - 4
}

func (m Model) viewPlanner() string {
	var b strings.Builder
	width := m.contentWidth()
	byRow := make(map[row]string, len(m.rows))

	b.WriteString(headerStyle.Render(fmt.Sprintf("Top priorities (%d/%d)", len(m.day.TopPriorities), constants.MaxTopPriorities)))
	b.WriteString("\n")
	if len(m.day.TopPriorities) == 0 {
		b.WriteString(slotStyle.Render("  press p to add a priority"))
		b.WriteString("\n")
	}
	for _, p := range m.day.TopPriorities {
		label := p.Name
		if len(p.Subtasks) > 0 {
			label = fmt.Sprintf("%s (%d/%d)", p.Name, p.CompletedSubtasks(), len(p.Subtasks))
		}
		byRow[row{kind: rowPriority, priorityID: p.ID}] = checkbox(p.IsComplete()) + " " + styleDone(label, p.IsComplete())
		for _, s := range p.Subtasks {
			byRow[row{kind: rowSubtask, priorityID: p.ID, subtaskID: s.ID}] = "    " + checkbox(s.Completed) + " " + styleDone(s.Name, s.Completed)
		}
	}

	slotReminders := make(map[string][]models.Reminder)
	for _, r := range m.reminders.ForDate(m.date) {
		slot := timeslot.DisplayToSlotKey(r.TimeSlot)
		slotReminders[slot] = append(slotReminders[slot], r)
	}
	for slot, items := range m.day.HourlySlots {
		for _, it := range items {
			byRow[row{kind: rowItem, slot: slot, itemID: it.ID}] = "    " + statusMark(it.Status) + " " + styleStatus(it.Text, it.Status)
		}
	}

	scheduleStarted := false
	for i, r := range m.rows {
		if r.kind == rowSlot && !scheduleStarted {
			scheduleStarted = true
			b.WriteString("\n")
			b.WriteString(headerStyle.Render("Schedule"))
			b.WriteString("\n")
		}
		line := byRow[r]
		if r.kind == rowSlot {
			line = slotStyle.Render(fmt.Sprintf("%-9s", timeslot.SlotKeyToDisplay(r.slot)))
			for _, rem := range slotReminders[r.slot] {
				line += " " + reminderStyle.Render("⏰ "+rem.Title)
			}
		}
		line = truncate.StringWithTail(line, uint(width), "…")
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.day.BrainDump != "" {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Notes"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(m.day.BrainDump, width))
		b.WriteString("\n")
	}
	return b.String()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func statusMark(s models.TaskStatus) string {
	switch s {
	case models.StatusCompleted:
		return "[x]"
	case models.StatusError:
		return "[!]"
	default:
		return "[ ]"
	}
}

func styleDone(s string, done bool) string {
	if done {
		return doneStyle.Render(s)
	}
	return s
}

func styleStatus(s string, status models.TaskStatus) string {
	switch status {
	case models.StatusCompleted:
		return doneStyle.Render(s)
	case models.StatusError:
		return errorItemStyle.Render(s)
	default:
		return s
	}
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, dangerStyle.Render(m.formError))
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmClear() string {
	return lipgloss.Place(m.contentWidth(), max(m.height-4, 6),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Clear everything planned for %s?", timeslot.DateKey(m.date))),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
