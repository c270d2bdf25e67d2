// Package export moves a single day, with its reminders, in and out of the
// store as a JSON or YAML document.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/reminders"
	"github.com/julianstephens/dayplanner/internal/timeslot"
)

// DocumentVersion is bumped when the document layout changes.
const DocumentVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat = errors.New("unknown export format (want json or yaml)")
	ErrNewerDocument = errors.New("document was written by a newer version")
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type Document struct {
	Version   int               `json:"version" yaml:"version"`
	Date      string            `json:"date" yaml:"date"`
	Day       models.PlannerDay `json:"day" yaml:"day"`
	Reminders []models.Reminder `json:"reminders,omitempty" yaml:"reminders,omitempty"`
}

// Build collects the stored day and that date's reminders. A date with
// nothing stored exports the default day.
func Build(store kv.Storage, date time.Time) Document {
	rs := reminders.New(store).ForDate(date)
	reminders.SortBySlot(rs)
	return Document{
		Version:   DocumentVersion,
		Date:      timeslot.DateKey(date),
		Day:       planner.LoadOrDefault(store, date),
		Reminders: rs,
	}
}

func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return ErrUnknownFormat
	}
}

// Read parses a document. The day goes through the planner decoder, so
// documents holding older record shapes are upgraded. Reminders that do not
// validate are dropped.
func Read(r io.Reader, format Format) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}

	var fields map[string]interface{}
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(raw, &fields)
	case FormatYAML:
		err = yaml.Unmarshal(raw, &fields)
	default:
		return Document{}, ErrUnknownFormat
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse document: %w", err)
	}
	if fields == nil {
		return Document{}, planner.ErrNotObject
	}

	doc := Document{Version: DocumentVersion}
	if v, ok := fields["version"]; ok {
		n, ok := asInt(v)
		if !ok {
			return Document{}, fmt.Errorf("invalid document version %v", v)
		}
		if n > DocumentVersion {
			return Document{}, fmt.Errorf("%w (version %d)", ErrNewerDocument, n)
		}
	}

	date, _ := fields["date"].(string)
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return Document{}, fmt.Errorf("document date must be YYYY-MM-DD, got %q", date)
	}
	doc.Date = date

	dayJSON, err := json.Marshal(fields["day"])
	if err != nil {
		return Document{}, fmt.Errorf("failed to read day: %w", err)
	}
	if doc.Day, err = planner.Decode(dayJSON); err != nil {
		return Document{}, fmt.Errorf("failed to read day: %w", err)
	}

	if list, ok := fields["reminders"].([]interface{}); ok {
		doc.Reminders = decodeReminders(list)
	}
	return doc, nil
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}

func decodeReminders(list []interface{}) []models.Reminder {
	out := make([]models.Reminder, 0, len(list))
	for i, elem := range list {
		b, err := json.Marshal(elem)
		if err != nil {
			continue
		}
		var r models.Reminder
		if err := json.Unmarshal(b, &r); err != nil {
			logger.Warn("Skipping unreadable reminder in import", "index", i, "error", err)
			continue
		}
		n := models.NewReminder{Title: r.Title, Description: r.Description, Date: r.Date, TimeSlot: r.TimeSlot}
		if r.ID == "" || n.Validate() != nil {
			logger.Warn("Skipping invalid reminder in import", "index", i)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Result summarises an Apply.
type Result struct {
	Date              time.Time
	RemindersAdded    int
	RemindersReplaced int
}

// Apply writes doc into store. The day record is overwritten; reminders are
// merged by id, replacing existing ones with the same id.
func Apply(store kv.Storage, doc Document, loc *time.Location) (Result, error) {
	date, err := time.ParseInLocation(constants.DateFormat, doc.Date, loc)
	if err != nil {
		return Result{}, fmt.Errorf("invalid document date %q: %w", doc.Date, err)
	}
	if err := planner.Save(store, date, doc.Day); err != nil {
		return Result{}, fmt.Errorf("failed to save day: %w", err)
	}

	res := Result{Date: date}
	if len(doc.Reminders) == 0 {
		return res, nil
	}
	existing := reminders.Load(store)
	index := make(map[string]int, len(existing))
	for i, r := range existing {
		index[r.ID] = i
	}
	for _, r := range doc.Reminders {
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
		}
		if i, ok := index[r.ID]; ok {
			existing[i] = r
			res.RemindersReplaced++
			continue
		}
		index[r.ID] = len(existing)
		existing = append(existing, r)
		res.RemindersAdded++
	}
	if err := reminders.Save(store, existing); err != nil {
		return res, fmt.Errorf("failed to save reminders: %w", err)
	}
	return res, nil
}
