// Package notifier delivers desktop notifications through the companion tray
// app. The tray advertises itself with a "port|pid|secret" lockfile and
// accepts JSON posts on 127.0.0.1.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/models"
)

var ErrTrayNotRunning = errors.New("dayplanner-tray is not running")

type Payload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Tray is a validated lockfile entry.
type Tray struct {
	Port   int
	PID    int
	Secret string
}

func (t Tray) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", t.Port)
}

type Notifier struct {
	userConfigDir func() (string, error)
	findProcess   func(int) (ps.Process, error)
	client        *http.Client
}

type Option func(*Notifier)

func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		userConfigDir: os.UserConfigDir,
		findProcess:   ps.FindProcess,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify locates the running tray and posts text to it.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := n.TrayConfigDir()
	if err != nil {
		return err
	}
	tray, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return Send(ctx, n.client, tray.URL(), tray.Secret, Payload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// TrayConfigDir returns the tray's config directory, honouring a custom
// lockfile_dir from its settings.json.
func (n *Notifier) TrayConfigDir() (string, error) {
	configDir, err := n.userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if d := store.Settings.LockfileDir; d != nil && *d != "" {
			return *d, nil
		}
	}
	return trayDir, nil
}

// ParseLockfile validates "port|pid|secret".
func ParseLockfile(content string) (Tray, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return Tray{}, errors.New("lockfile is malformed")
	}
	if strings.TrimSpace(parts[0]) == "" {
		return Tray{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return Tray{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return Tray{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Tray{}, errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(parts[2]) == "" {
		return Tray{}, errors.New("secret in lockfile is empty")
	}
	return Tray{Port: port, PID: pid, Secret: parts[2]}, nil
}

func (n *Notifier) locate(lockfilePath string) (Tray, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return Tray{}, ErrTrayNotRunning
	}
	tray, err := ParseLockfile(string(content))
	if err != nil {
		return Tray{}, err
	}
	proc, err := n.findProcess(tray.PID)
	if err != nil || proc == nil {
		return Tray{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(proc.Executable(), constants.TrayExecutable) {
		return Tray{}, fmt.Errorf("process with PID %d is not %s (is %s)", tray.PID, constants.TrayExecutable, proc.Executable())
	}
	return tray, nil
}

// Send posts payload to url with the shared secret header.
func Send(ctx context.Context, client *http.Client, url, secret string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.SecretHeader, secret)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}

// Message formats the notification text for a reminder.
func Message(r models.Reminder) string {
	if r.Description == "" {
		return fmt.Sprintf("%s (%s)", r.Title, r.TimeSlot)
	}
	return fmt.Sprintf("%s (%s): %s", r.Title, r.TimeSlot, r.Description)
}
