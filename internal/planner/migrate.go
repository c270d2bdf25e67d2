package planner

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/models"
)

// PartialPriority is a stored priority whose completed and subtasks fields
// may be missing.
type PartialPriority struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Completed *bool            `json:"completed"`
	Subtasks  []models.SubTask `json:"subtasks"`
}

// EnsurePriorityFields fills an absent completed flag with false and absent
// subtasks with an empty list.
func EnsurePriorityFields(p PartialPriority) models.TopPriority {
	out := models.TopPriority{
		ID:       p.ID,
		Name:     p.Name,
		Subtasks: p.Subtasks,
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	if out.Subtasks == nil {
		out.Subtasks = []models.SubTask{}
	}
	return out
}

// MigrateLegacyPriorities converts the old one-string-per-priority list.
// Blank names are dropped and survivors are trimmed and given fresh ids.
func MigrateLegacyPriorities(names []string) []models.TopPriority {
	out := []models.TopPriority{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, models.TopPriority{
			ID:       uuid.NewString(),
			Name:     name,
			Subtasks: []models.SubTask{},
		})
	}
	return out
}

// MigrateHourlyCompleted maps the boolean completion flags to statuses.
func MigrateHourlyCompleted(completed map[string]bool) map[string]models.TaskStatus {
	statuses := make(map[string]models.TaskStatus, len(completed))
	for key, done := range completed {
		if done {
			statuses[key] = models.StatusCompleted
		} else {
			statuses[key] = models.StatusPending
		}
	}
	return statuses
}

// MigrateToHourlySlots turns one free-text plan per slot into at most one
// item per slot. Blank text yields an empty slot.
func MigrateToHourlySlots(plans map[string]string, statuses map[string]models.TaskStatus) map[string][]models.HourlyItem {
	slots := make(map[string][]models.HourlyItem, len(plans))
	for key, text := range plans {
		text = strings.TrimSpace(text)
		if text == "" {
			slots[key] = []models.HourlyItem{}
			continue
		}
		status, ok := statuses[key]
		if !ok || !status.IsValid() {
			status = models.StatusPending
		}
		slots[key] = []models.HourlyItem{{
			ID:     uuid.NewString(),
			Text:   text,
			Status: status,
		}}
	}
	return slots
}

// rawDay captures every field any generation of the day record has used.
type rawDay struct {
	TopPriorities   json.RawMessage `json:"topPriorities"`
	Priorities      json.RawMessage `json:"priorities"`
	BrainDump       json.RawMessage `json:"brainDump"`
	HourlySlots     json.RawMessage `json:"hourlySlots"`
	HourlyPlans     json.RawMessage `json:"hourlyPlans"`
	HourlyStatuses  json.RawMessage `json:"hourlyStatuses"`
	HourlyCompleted json.RawMessage `json:"hourlyCompleted"`
	LastSaved       json.RawMessage `json:"lastSaved"`
}

func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isArray(raw json.RawMessage) bool  { return jsonKind(raw) == '[' }
func isObject(raw json.RawMessage) bool { return jsonKind(raw) == '{' }

func decodePriorities(r rawDay) []models.TopPriority {
	if isArray(r.TopPriorities) {
		var elems []json.RawMessage
		if err := json.Unmarshal(r.TopPriorities, &elems); err != nil {
			return []models.TopPriority{}
		}
		if len(elems) > constants.MaxTopPriorities {
			elems = elems[:constants.MaxTopPriorities]
		}
		out := make([]models.TopPriority, 0, len(elems))
		for _, e := range elems {
			if !isObject(e) {
				continue
			}
			var p PartialPriority
			if err := json.Unmarshal(e, &p); err != nil {
				// a malformed subtasks list should not cost the priority itself
				var bare struct {
					ID        string `json:"id"`
					Name      string `json:"name"`
					Completed *bool  `json:"completed"`
				}
				if json.Unmarshal(e, &bare) != nil {
					continue
				}
				p = PartialPriority{ID: bare.ID, Name: bare.Name, Completed: bare.Completed}
			}
			out = append(out, EnsurePriorityFields(p))
		}
		return out
	}

	if isArray(r.Priorities) {
		var elems []json.RawMessage
		if err := json.Unmarshal(r.Priorities, &elems); err != nil {
			return []models.TopPriority{}
		}
		names := make([]string, 0, len(elems))
		for _, e := range elems {
			var name string
			if json.Unmarshal(e, &name) == nil {
				names = append(names, name)
			}
		}
		out := MigrateLegacyPriorities(names)
		if len(out) > constants.MaxTopPriorities {
			out = out[:constants.MaxTopPriorities]
		}
		return out
	}

	return []models.TopPriority{}
}

func decodeItems(raw json.RawMessage) []models.HourlyItem {
	var items []models.HourlyItem
	if !isArray(raw) || json.Unmarshal(raw, &items) != nil {
		return []models.HourlyItem{}
	}
	for i := range items {
		if !items[i].Status.IsValid() {
			items[i].Status = models.StatusPending
		}
	}
	return items
}

func decodeHourly(r rawDay) map[string][]models.HourlyItem {
	slots := defaultSlots()

	if isObject(r.HourlySlots) {
		var stored map[string]json.RawMessage
		if json.Unmarshal(r.HourlySlots, &stored) == nil {
			for key, raw := range stored {
				slots[key] = decodeItems(raw)
			}
			return slots
		}
	}

	if isObject(r.HourlyPlans) {
		var rawPlans map[string]json.RawMessage
		if json.Unmarshal(r.HourlyPlans, &rawPlans) != nil {
			return slots
		}
		plans := make(map[string]string, len(rawPlans))
		for key, raw := range rawPlans {
			var text string
			_ = json.Unmarshal(raw, &text)
			plans[key] = text
		}
		for key, items := range MigrateToHourlySlots(plans, legacyStatuses(r)) {
			slots[key] = items
		}
	}

	return slots
}

// legacyStatuses resolves per-slot status: an hourlyStatuses entry wins over
// an hourlyCompleted entry for the same key.
func legacyStatuses(r rawDay) map[string]models.TaskStatus {
	statuses := map[string]models.TaskStatus{}
	if isObject(r.HourlyCompleted) {
		var rawCompleted map[string]json.RawMessage
		if json.Unmarshal(r.HourlyCompleted, &rawCompleted) == nil {
			completed := make(map[string]bool, len(rawCompleted))
			for key, raw := range rawCompleted {
				var done bool
				if json.Unmarshal(raw, &done) == nil {
					completed[key] = done
				}
			}
			statuses = MigrateHourlyCompleted(completed)
		}
	}
	if isObject(r.HourlyStatuses) {
		var rawStatuses map[string]json.RawMessage
		if json.Unmarshal(r.HourlyStatuses, &rawStatuses) == nil {
			for key, raw := range rawStatuses {
				var s models.TaskStatus
				if json.Unmarshal(raw, &s) == nil && s.IsValid() {
					statuses[key] = s
				}
			}
		}
	}
	return statuses
}

func decodeString(raw json.RawMessage) string {
	var s string
	if jsonKind(raw) != '"' || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
