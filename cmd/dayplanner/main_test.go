package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkipsLoad(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"init", true},
		{"migrate", true},
		{"doctor", true},
		{"keyring set <connection-string>", true},
		{"day show", false},
		{"reminder add <title>", false},
		{"tui", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := skipsLoad(tt.command); got != tt.want {
			t.Errorf("skipsLoad(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

// buildCLI compiles the binary once per test, or uses DAYPLANNER_BIN.
func buildCLI(t *testing.T) string {
	t.Helper()
	if bin := os.Getenv("DAYPLANNER_BIN"); bin != "" {
		return bin
	}
	if testing.Short() {
		t.Skip("skipping end-to-end workflow in short mode")
	}
	bin := filepath.Join(t.TempDir(), "dayplanner")
	out, err := exec.Command("go", "build", "-o", bin, ".").CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build CLI: %v\nOutput: %s", err, out)
	}
	return bin
}

// isolatedEnv points HOME at dir and drops any DAYPLANNER_* overrides.
func isolatedEnv(dir string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "DAYPLANNER_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		fmt.Sprintf("HOME=%s", dir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", filepath.Join(dir, ".config")),
	)
}

func runCmd(t *testing.T, path string, env []string, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	cliPath := buildCLI(t)
	home := t.TempDir()
	env := isolatedEnv(home)
	const day = "2026-03-10"

	out := runCmd(t, cliPath, env, "", "init")
	expectOutput(t, out, "Initialized dayplanner storage at:", "Wrote default config to:")
	if _, err := os.Stat(filepath.Join(home, ".config", "dayplanner", "config.toml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	runCmd(t, cliPath, env, "", "priority", "add", "Ship", "release", "--date", day)
	runCmd(t, cliPath, env, "", "subtask", "add", "1", "Tag", "the", "build", "--date", day)
	runCmd(t, cliPath, env, "", "slot", "add", "9:30 AM", "Standup", "--date", day)
	runCmd(t, cliPath, env, "", "slot", "drop", "2:00 PM", "--priority", "1", "--subtask", "1", "--date", day)
	runCmd(t, cliPath, env, "", "day", "notes", "buy", "milk", "--date", day)
	runCmd(t, cliPath, env, "", "reminder", "add", "Call", "Sam", "-t", "4:30 PM", "-d", day)

	out = runCmd(t, cliPath, env, "", "day", "show", "--date", day)
	expectOutput(t, out, "Ship release", "Tag the build", "Standup", "Call Sam", "buy milk")

	exportPath := filepath.Join(home, "day.json")
	runCmd(t, cliPath, env, "", "day", "export", "--date", day, "-o", exportPath)
	raw, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("export is not valid JSON: %s", raw)
	}

	runCmd(t, cliPath, env, "y\n", "day", "clear", "--date", day)
	out = runCmd(t, cliPath, env, "", "day", "show", "--date", day)
	if strings.Contains(out, "Ship release") {
		t.Errorf("day should be empty after clear:\n%s", out)
	}

	runCmd(t, cliPath, env, "", "day", "import", exportPath, "--yes")
	out = runCmd(t, cliPath, env, "", "day", "show", "--date", day)
	expectOutput(t, out, "Ship release", "Standup")

	runCmd(t, cliPath, env, "", "schedule", "set", "--start", "6 AM", "--end", "9 PM")
	out = runCmd(t, cliPath, env, "", "schedule", "show")
	expectOutput(t, out, "Visible hours: 6 AM to 9 PM")

	out = runCmd(t, cliPath, env, "", "backup", "create")
	expectOutput(t, out, "✓ Backup created:")

	out = runCmd(t, cliPath, env, "", "doctor")
	expectOutput(t, out, "✓ Backups present: OK", "All diagnostics passed!")
}
