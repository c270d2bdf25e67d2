// Package cli holds the state shared by every command and the argument
// helpers they have in common.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/dayplanner/internal/backup"
	"github.com/julianstephens/dayplanner/internal/config"
	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/logger"
	"github.com/julianstephens/dayplanner/internal/models"
	"github.com/julianstephens/dayplanner/internal/planner"
	"github.com/julianstephens/dayplanner/internal/reminders"
	"github.com/julianstephens/dayplanner/internal/schedule"
)

type Context struct {
	Store      kv.Storage
	Backend    kv.Backend
	Config     *config.Config
	ConfigDir  string
	ConfigPath string
	Location   *time.Location

	// MarkdownStyle is the glamour style used for notes, e.g. "dark" or
	// "notty".
	MarkdownStyle string

	Out io.Writer
	In  io.Reader
	Now func() time.Time
}

// Writer returns Out, defaulting to stdout.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Reader returns In, defaulting to stdin.
func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

func (c *Context) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.Loc())
}

// Loc returns the configured timezone, defaulting to local time.
func (c *Context) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Today returns midnight of the current day in the configured timezone.
func (c *Context) Today() time.Time {
	n := c.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// ParseDate accepts YYYY-MM-DD, "today", "tomorrow", "yesterday", or an
// empty string for today.
func (c *Context) ParseDate(s string) (time.Time, error) {
	today := c.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(s), c.Loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, tomorrow or yesterday)", s)
	}
	return d, nil
}

// EditDay loads date through a planner session, applies fn and flushes the
// result. Nothing is written when fn fails.
func (c *Context) EditDay(date time.Time, fn func(models.PlannerDay) (models.PlannerDay, error)) (models.PlannerDay, error) {
	s := planner.NewSession(c.Store, planner.WithDebounce(c.Config.Debounce()))
	s.SetDate(date)
	next, err := fn(s.Data())
	if err != nil {
		return models.PlannerDay{}, err
	}
	s.Set(next)
	if err := s.Close(); err != nil {
		return next, fmt.Errorf("failed to save %s: %w", planner.StorageKey(date), err)
	}
	return next, nil
}

func (c *Context) Reminders() *reminders.Store {
	return reminders.New(c.Store, reminders.WithClock(c.now))
}

func (c *Context) Schedule() *schedule.Store {
	return schedule.New(c.Store)
}

// PerformAutomaticBackup backs up local stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.ForStorage(c.Store)
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on In, defaulting to no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.Reader()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
