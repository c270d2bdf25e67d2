package models

import "github.com/julianstephens/dayplanner/internal/constants"

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusError     TaskStatus = "error"
)

var statusCycle = []TaskStatus{StatusPending, StatusCompleted, StatusError}

// IsValid reports whether s is one of the three known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// Next cycles pending -> completed -> error -> pending. Unknown statuses
// restart the cycle at pending.
func (s TaskStatus) Next() TaskStatus {
	idx := -1
	for i, st := range statusCycle {
		if st == s {
			idx = i
			break
		}
	}
	return statusCycle[(idx+1)%len(statusCycle)]
}

type SubTask struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed" yaml:"completed"`
}

type TopPriority struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Completed bool      `json:"completed" yaml:"completed"` // only meaningful while Subtasks is empty
	Subtasks  []SubTask `json:"subtasks" yaml:"subtasks"`
}

// CompletedSubtasks returns how many subtasks are done.
func (p TopPriority) CompletedSubtasks() int {
	n := 0
	for _, s := range p.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// IsComplete returns the effective completion: the stored flag when there are
// no subtasks, otherwise whether every subtask is done.
func (p TopPriority) IsComplete() bool {
	if len(p.Subtasks) == 0 {
		return p.Completed
	}
	return p.CompletedSubtasks() == len(p.Subtasks)
}

type HourlyItem struct {
	ID     string     `json:"id" yaml:"id"`
	Text   string     `json:"text" yaml:"text"`
	Status TaskStatus `json:"status" yaml:"status"`
}

// PlannerDay is the record persisted for a single calendar date.
type PlannerDay struct {
	TopPriorities []TopPriority           `json:"topPriorities" yaml:"topPriorities"`
	BrainDump     string                  `json:"brainDump" yaml:"brainDump"`
	HourlySlots   map[string][]HourlyItem `json:"hourlySlots" yaml:"hourlySlots"`
	LastSaved     string                  `json:"lastSaved,omitempty" yaml:"lastSaved,omitempty"` // ISO-8601 timestamp
}

// CanAddPriority reports whether another top priority fits.
func (d PlannerDay) CanAddPriority() bool {
	return len(d.TopPriorities) < constants.MaxTopPriorities
}

// Clone returns a deep copy so callers can mutate the result freely.
func (d PlannerDay) Clone() PlannerDay {
	out := PlannerDay{
		BrainDump: d.BrainDump,
		LastSaved: d.LastSaved,
	}
	if d.TopPriorities != nil {
		out.TopPriorities = make([]TopPriority, len(d.TopPriorities))
		for i, p := range d.TopPriorities {
			p.Subtasks = append([]SubTask(nil), p.Subtasks...)
			if p.Subtasks == nil {
				p.Subtasks = []SubTask{}
			}
			out.TopPriorities[i] = p
		}
	}
	if d.HourlySlots != nil {
		out.HourlySlots = make(map[string][]HourlyItem, len(d.HourlySlots))
		for k, items := range d.HourlySlots {
			cp := make([]HourlyItem, len(items))
			copy(cp, items)
			out.HourlySlots[k] = cp
		}
	}
	return out
}
