package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/reminders"
	"github.com/julianstephens/dayplanner/internal/schedule"
	"github.com/julianstephens/dayplanner/internal/tui/components/reminderlist"
)

type rowKind int

const (
	rowPriority rowKind = iota
	rowSubtask
	rowSlot
	rowItem
)

// row is one selectable line of the planner view.
type row struct {
	kind       rowKind
	priorityID string
	subtaskID  string
	slot       string
	itemID     string
}

type inputAction int

const (
	actionAddPriority inputAction = iota
	actionAddSubtask
	actionAddItem
	actionRename
	actionNotes
)

// InputFormModel backs the single-field prompts.
type InputFormModel struct {
	Text string
}

type ReminderFormModel struct {
	Title       string
	Description string
	Date        string
	Time        string
}

type ScheduleFormModel struct {
	StartHour int
	EndHour   int
}

type Options struct {
	Store    kv.Storage
	Location *time.Location
	Now      func() time.Time
	Debounce time.Duration
	// SessionOptions are appended after the defaults.
	SessionOptions []planner.SessionOption
}

type Model struct {
	session   *planner.Session
	reminders *reminders.Store
	schedule  *schedule.Store
	loc       *time.Location
	now       func() time.Time

	date   time.Time
	day    models.PlannerDay
	rows   []row
	cursor int

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	reminderList  reminderlist.Model

	form         *huh.Form
	input        *InputFormModel
	action       inputAction
	target       row
	reminderForm *ReminderFormModel
	scheduleForm *ScheduleFormModel
	formError    string
	status       string

	width    int
	height   int
	quitting bool
}

func NewModel(opts Options) Model {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clock := opts.Now
	if clock == nil {
		clock = time.Now
	}
	now := func() time.Time { return clock().In(loc) }

	sessionOpts := []planner.SessionOption{
		planner.WithDebounce(opts.Debounce),
		planner.WithErrorHandler(func(date time.Time, err error) {
			logger.Error("Failed to save planner day", "date", planner.StorageKey(date), "error", err)
		}),
	}
	sessionOpts = append(sessionOpts, opts.SessionOptions...)

	m := Model{
		session:   planner.NewSession(opts.Store, sessionOpts...),
		reminders: reminders.New(opts.Store, reminders.WithClock(now)),
		schedule:  schedule.New(opts.Store),
		loc:       loc,
		now:       now,
		state:     constants.StatePlanner,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.reminderList = reminderlist.New(m.reminders.All(), now(), 0, 0)
	m.setDate(m.today())
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Close flushes the day being edited.
func (m Model) Close() error {
	return m.session.Close()
}

func (m Model) today() time.Time {
	n := m.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, m.loc)
}

func (m *Model) setDate(date time.Time) {
	m.session.SetDate(date)
	m.date = date
	m.cursor = 0
	m.status = ""
	m.refresh()
}

// update applies fn through the session and refreshes the view.
func (m *Model) update(fn func(models.PlannerDay) models.PlannerDay) {
	m.session.Update(fn)
	m.refresh()
}

func (m *Model) refresh() {
	m.day = m.session.Data()
	m.rows = m.buildRows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.reminderList.SetReminders(m.reminders.All(), m.now())
}

func (m Model) buildRows() []row {
	var rows []row
	for _, p := range m.day.TopPriorities {
		rows = append(rows, row{kind: rowPriority, priorityID: p.ID})
		for _, s := range p.Subtasks {
			rows = append(rows, row{kind: rowSubtask, priorityID: p.ID, subtaskID: s.ID})
		}
	}
	for _, slot := range schedule.SlotKeys(m.schedule.Config()) {
		rows = append(rows, row{kind: rowSlot, slot: slot})
		for _, it := range m.day.HourlySlots[slot] {
			rows = append(rows, row{kind: rowItem, slot: slot, itemID: it.ID})
		}
	}
	return rows
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) priority(id string) (models.TopPriority, bool) {
	for _, p := range m.day.TopPriorities {
		if p.ID == id {
			return p, true
		}
	}
	return models.TopPriority{}, false
}

func (m Model) subtask(priorityID, id string) (models.SubTask, bool) {
	p, ok := m.priority(priorityID)
	if !ok {
		return models.SubTask{}, false
	}
	for _, s := range p.Subtasks {
		if s.ID == id {
			return s, true
		}
	}
	return models.SubTask{}, false
}

func (m Model) item(slot, id string) (models.HourlyItem, bool) {
	for _, it := range m.day.HourlySlots[slot] {
		if it.ID == id {
			return it, true
		}
	}
	return models.HourlyItem{}, false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StatePlanner {
		keys = append(keys, m.keys.PrevDay, m.keys.NextDay, m.keys.Toggle, m.keys.Add)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state == constants.StatePlanner {
		return m.keys.FullHelp()
	}
	return [][]key.Binding{{m.keys.Tab, m.keys.Quit, m.keys.Help}}
}
