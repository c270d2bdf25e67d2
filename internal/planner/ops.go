package planner

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/dayplanner/internal/models"
)

// ErrPriorityLimit is returned when a day already holds three priorities.
var ErrPriorityLimit = errors.New("a day holds at most 3 top priorities")

// The functions below never modify their input; each returns an updated copy
// suitable for Session.Update. Unknown ids leave the day unchanged.

func AddPriority(day models.PlannerDay, name string) (models.PlannerDay, models.TopPriority, error) {
	if !day.CanAddPriority() {
		return day, models.TopPriority{}, ErrPriorityLimit
	}
	p := models.TopPriority{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Subtasks: []models.SubTask{},
	}
	out := day.Clone()
	out.TopPriorities = append(out.TopPriorities, p)
	return out, p, nil
}

func updatePriority(day models.PlannerDay, id string, fn func(*models.TopPriority)) models.PlannerDay {
	out := day.Clone()
	for i := range out.TopPriorities {
		if out.TopPriorities[i].ID == id {
			fn(&out.TopPriorities[i])
			break
		}
	}
	return out
}

// RenamePriority ignores a blank name.
func RenamePriority(day models.PlannerDay, id, name string) models.PlannerDay {
	name = strings.TrimSpace(name)
	if name == "" {
		return day.Clone()
	}
	return updatePriority(day, id, func(p *models.TopPriority) { p.Name = name })
}

// TogglePriority flips the stored flag of a priority without subtasks.
// Completion of a priority with subtasks is derived and cannot be toggled.
func TogglePriority(day models.PlannerDay, id string) models.PlannerDay {
	return updatePriority(day, id, func(p *models.TopPriority) {
		if len(p.Subtasks) == 0 {
			p.Completed = !p.Completed
		}
	})
}

// DeletePriority removes the priority together with its subtasks.
func DeletePriority(day models.PlannerDay, id string) models.PlannerDay {
	out := day.Clone()
	kept := out.TopPriorities[:0]
	for _, p := range out.TopPriorities {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	out.TopPriorities = kept
	return out
}

// AddSubtask appends a subtask and ignores a blank name. Adding the first
// subtask clears the priority's own completed flag, which stops being
// meaningful once completion is derived from subtasks.
func AddSubtask(day models.PlannerDay, priorityID, name string) (models.PlannerDay, models.SubTask) {
	name = strings.TrimSpace(name)
	if name == "" {
		return day.Clone(), models.SubTask{}
	}
	s := models.SubTask{ID: uuid.NewString(), Name: name}
	return updatePriority(day, priorityID, func(p *models.TopPriority) {
		if len(p.Subtasks) == 0 {
			p.Completed = false
		}
		p.Subtasks = append(p.Subtasks, s)
	}), s
}

func updateSubtask(day models.PlannerDay, priorityID, subtaskID string, fn func([]models.SubTask, int) []models.SubTask) models.PlannerDay {
	return updatePriority(day, priorityID, func(p *models.TopPriority) {
		for i := range p.Subtasks {
			if p.Subtasks[i].ID == subtaskID {
				p.Subtasks = fn(p.Subtasks, i)
				return
			}
		}
	})
}

func ToggleSubtask(day models.PlannerDay, priorityID, subtaskID string) models.PlannerDay {
	return updateSubtask(day, priorityID, subtaskID, func(s []models.SubTask, i int) []models.SubTask {
		s[i].Completed = !s[i].Completed
		return s
	})
}

// RenameSubtask deletes the subtask when the new name is blank.
func RenameSubtask(day models.PlannerDay, priorityID, subtaskID, name string) models.PlannerDay {
	name = strings.TrimSpace(name)
	if name == "" {
		return DeleteSubtask(day, priorityID, subtaskID)
	}
	return updateSubtask(day, priorityID, subtaskID, func(s []models.SubTask, i int) []models.SubTask {
		s[i].Name = name
		return s
	})
}

func DeleteSubtask(day models.PlannerDay, priorityID, subtaskID string) models.PlannerDay {
	return updateSubtask(day, priorityID, subtaskID, func(s []models.SubTask, i int) []models.SubTask {
		return append(s[:i], s[i+1:]...)
	})
}

func SetBrainDump(day models.PlannerDay, text string) models.PlannerDay {
	out := day.Clone()
	out.BrainDump = text
	return out
}

// AddItem appends a pending item to slot. The text is trimmed and blank text
// is a no-op. Dropping a priority, subtask or item onto a slot lands here too.
func AddItem(day models.PlannerDay, slot, text string) (models.PlannerDay, models.HourlyItem) {
	text = strings.TrimSpace(text)
	if text == "" {
		return day.Clone(), models.HourlyItem{}
	}
	item := models.HourlyItem{ID: uuid.NewString(), Text: text, Status: models.StatusPending}
	out := day.Clone()
	if out.HourlySlots == nil {
		out.HourlySlots = map[string][]models.HourlyItem{}
	}
	out.HourlySlots[slot] = append(out.HourlySlots[slot], item)
	return out, item
}

func updateItem(day models.PlannerDay, slot, id string, fn func([]models.HourlyItem, int) []models.HourlyItem) models.PlannerDay {
	out := day.Clone()
	items := out.HourlySlots[slot]
	for i := range items {
		if items[i].ID == id {
			out.HourlySlots[slot] = fn(items, i)
			break
		}
	}
	return out
}

// EditItem replaces an item's text, removing the item when text is blank.
func EditItem(day models.PlannerDay, slot, id, text string) models.PlannerDay {
	text = strings.TrimSpace(text)
	if text == "" {
		return DeleteItem(day, slot, id)
	}
	return updateItem(day, slot, id, func(items []models.HourlyItem, i int) []models.HourlyItem {
		items[i].Text = text
		return items
	})
}

// CycleItemStatus moves an item pending -> completed -> error -> pending.
func CycleItemStatus(day models.PlannerDay, slot, id string) models.PlannerDay {
	return updateItem(day, slot, id, func(items []models.HourlyItem, i int) []models.HourlyItem {
		items[i].Status = items[i].Status.Next()
		return items
	})
}

func DeleteItem(day models.PlannerDay, slot, id string) models.PlannerDay {
	return updateItem(day, slot, id, func(items []models.HourlyItem, i int) []models.HourlyItem {
		return append(items[:i], items[i+1:]...)
	})
}

// ClearDay discards everything recorded for the day.
func ClearDay(models.PlannerDay) models.PlannerDay {
	return Default()
}

// FindItem locates an item by id across all slots.
func FindItem(day models.PlannerDay, id string) (slot string, item models.HourlyItem, ok bool) {
	for k, items := range day.HourlySlots {
		for _, it := range items {
			if it.ID == id {
				return k, it, true
			}
		}
	}
	return "", models.HourlyItem{}, false
}
