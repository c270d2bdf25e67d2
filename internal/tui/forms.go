package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

func NewInputForm(title string, multiline bool, fm *InputFormModel) *huh.Form {
	var field huh.Field
	if multiline {
		field = huh.NewText().Title(title).Value(&fm.Text)
	} else {
		field = huh.NewInput().Title(title).Value(&fm.Text)
	}
	return huh.NewForm(huh.NewGroup(field)).WithShowHelp(true)
}

func NewReminderForm(fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return models.ErrBlankTitle
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return models.ErrInvalidDate
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Time").
				Options(huh.NewOptions(timeslot.TimeSlotOptions(timeslot.DefaultHours())...)...).
				Value(&fm.Time),
		),
	).WithShowHelp(true)
}

func hourOptions(from, to int) []huh.Option[int] {
	var opts []huh.Option[int]
	for h := from; h <= to; h++ {
		opts = append(opts, huh.NewOption(timeslot.HourToDisplay(h), h))
	}
	return opts
}

func NewScheduleForm(fm *ScheduleFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Start hour").
				Options(hourOptions(constants.MinStartHour, constants.MaxStartHour)...).
				Value(&fm.StartHour),
			huh.NewSelect[int]().
				Title("End hour").
				Options(hourOptions(constants.MinEndHour, constants.MaxEndHour)...).
				Value(&fm.EndHour),
		),
	).WithShowHelp(true)
}

func (m *Model) openInput(action inputAction, target row, title, initial string) tea.Cmd {
	m.action = action
	m.target = target
	m.input = &InputFormModel{Text: initial}
	m.form = NewInputForm(title, action == actionNotes, m.input)
	m.formError = ""
	m.previousState = m.state
	m.state = constants.StateEditing
	return m.form.Init()
}

func (m *Model) openReminderForm() tea.Cmd {
	slot := ""
	if r, ok := m.selected(); ok && r.slot != "" && m.state == constants.StatePlanner {
		slot = timeslot.SlotKeyToDisplay(r.slot)
	}
	m.reminderForm = &ReminderFormModel{Date: timeslot.DateKey(m.date), Time: slot}
	m.form = NewReminderForm(m.reminderForm)
	m.formError = ""
	m.previousState = m.state
	m.state = constants.StateAddReminder
	return m.form.Init()
}

func (m *Model) openScheduleForm() tea.Cmd {
	cfg := m.schedule.Config()
	m.scheduleForm = &ScheduleFormModel{StartHour: cfg.StartHour, EndHour: cfg.EndHour}
	m.form = NewScheduleForm(m.scheduleForm)
	m.formError = ""
	m.previousState = m.state
	m.state = constants.StateEditSchedule
	return m.form.Init()
}

// submitInput applies the completed single-field form to the day.
func (m *Model) submitInput() error {
	text := m.input.Text
	t := m.target
	switch m.action {
	case actionAddPriority:
		var err error
		m.update(func(d models.PlannerDay) models.PlannerDay {
			if strings.TrimSpace(text) == "" {
				return d
			}
			var out models.PlannerDay
			out, _, err = planner.AddPriority(d, text)
			return out
		})
		return err
	case actionAddSubtask:
		m.update(func(d models.PlannerDay) models.PlannerDay {
			out, _ := planner.AddSubtask(d, t.priorityID, text)
			return out
		})
	case actionAddItem:
		m.update(func(d models.PlannerDay) models.PlannerDay {
			out, _ := planner.AddItem(d, t.slot, text)
			return out
		})
	case actionRename:
		m.update(func(d models.PlannerDay) models.PlannerDay {
			switch t.kind {
			case rowPriority:
				return planner.RenamePriority(d, t.priorityID, text)
			case rowSubtask:
				return planner.RenameSubtask(d, t.priorityID, t.subtaskID, text)
			case rowItem:
				return planner.EditItem(d, t.slot, t.itemID, text)
			}
			return d
		})
	case actionNotes:
		m.update(func(d models.PlannerDay) models.PlannerDay {
			return planner.SetBrainDump(d, text)
		})
	}
	return nil
}

func (m *Model) submitReminder() error {
	fm := m.reminderForm
	_, err := m.reminders.Add(models.NewReminder{
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		TimeSlot:    fm.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}
	m.refresh()
	return nil
}

func (m *Model) submitSchedule() error {
	cfg := models.ScheduleConfig{StartHour: m.scheduleForm.StartHour, EndHour: m.scheduleForm.EndHour}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.schedule.Update(cfg); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	m.refresh()
	return nil
}
