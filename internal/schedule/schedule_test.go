package schedule

import (
	"testing"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
	"github.com/julianstephens/dayplanner/internal/models"
)

func TestLoad(t *testing.T) {
	def := models.DefaultScheduleConfig()
	tests := []struct {
		name string
		raw  string
		want models.ScheduleConfig
	}{
		{"valid", `{"startHour":6,"endHour":20}`, models.ScheduleConfig{StartHour: 6, EndHour: 20}},
		{"bounds", `{"startHour":5,"endHour":12}`, models.ScheduleConfig{StartHour: 5, EndHour: 12}},
		{"upper bounds", `{"startHour":11,"endHour":23}`, models.ScheduleConfig{StartHour: 11, EndHour: 23}},
		{"start too early", `{"startHour":4,"endHour":20}`, def},
		{"start too late", `{"startHour":12,"endHour":20}`, def},
		{"end too early", `{"startHour":7,"endHour":11}`, def},
		{"end too late", `{"startHour":7,"endHour":24}`, def},
		{"missing end", `{"startHour":7}`, def},
		{"strings", `{"startHour":"7","endHour":"20"}`, def},
		{"corrupt", `not json`, def},
		{"array", `[7,20]`, def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			_ = store.Set(constants.ScheduleConfigKey, tt.raw)
			if got := Load(store); got != tt.want {
				t.Errorf("Load = %+v, want %+v", got, tt.want)
			}
		})
	}

	if got := Load(kv.NewMemory()); got != def {
		t.Errorf("missing config should load the default, got %+v", got)
	}
}

func TestSaveIsUnconditional(t *testing.T) {
	store := kv.NewMemory()
	invalid := models.ScheduleConfig{StartHour: 20, EndHour: 8}
	if err := Save(store, invalid); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, ok, _ := store.Get(constants.ScheduleConfigKey)
	if !ok || raw != `{"startHour":20,"endHour":8}` {
		t.Errorf("stored %q", raw)
	}
	if got := Load(store); got != models.DefaultScheduleConfig() {
		t.Errorf("invalid stored config should load as default, got %+v", got)
	}
}

func TestStoreUpdate(t *testing.T) {
	mem := kv.NewMemory()
	s := New(mem)
	if s.Config() != models.DefaultScheduleConfig() {
		t.Errorf("new store should start from the default, got %+v", s.Config())
	}

	cfg := models.ScheduleConfig{StartHour: 8, EndHour: 18}
	if err := s.Update(cfg); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if s.Config() != cfg {
		t.Errorf("Config = %+v, want %+v", s.Config(), cfg)
	}
	if got := New(mem).Config(); got != cfg {
		t.Errorf("reloaded config = %+v, want %+v", got, cfg)
	}
}

func TestHours(t *testing.T) {
	hours := Hours(models.ScheduleConfig{StartHour: 11, EndHour: 13})
	want := []string{"11 AM", "12 PM", "1 PM"}
	if len(hours) != len(want) {
		t.Fatalf("Hours = %v, want %v", hours, want)
	}
	for i := range want {
		if hours[i] != want[i] {
			t.Errorf("Hours[%d] = %q, want %q", i, hours[i], want[i])
		}
	}

	if got := len(SlotKeys(models.DefaultScheduleConfig())); got != 34 {
		t.Errorf("default config should show 34 slots, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := models.DefaultScheduleConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if err := (models.ScheduleConfig{StartHour: 11, EndHour: 12}).Validate(); err != nil {
		t.Errorf("11-12 should be valid: %v", err)
	}
	if err := (models.ScheduleConfig{StartHour: 0, EndHour: 0}).Validate(); err == nil {
		t.Error("zero config should be invalid")
	}
}
