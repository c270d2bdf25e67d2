package migrations

import (
	"io/fs"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

var createIndex = regexp.MustCompile(`(?i)CREATE\s+INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?idx_(\w+)`)

func TestDialectsShareFiles(t *testing.T) {
	sqlite, err := fs.Glob(FS, "sqlite/*.sql")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	postgres, err := fs.Glob(FS, "postgres/*.sql")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	for i := range sqlite {
		sqlite[i] = strings.TrimPrefix(sqlite[i], "sqlite/")
	}
	for i := range postgres {
		postgres[i] = strings.TrimPrefix(postgres[i], "postgres/")
	}
	if len(sqlite) == 0 || !reflect.DeepEqual(sqlite, postgres) {
		t.Errorf("expected matching migrations per dialect, got sqlite=%v postgres=%v", sqlite, postgres)
	}
}

func TestIndexMigrationsNameTheirIndex(t *testing.T) {
	files, err := fs.Glob(FS, "*/*_index.sql")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected index migrations")
	}
	for _, name := range files {
		raw, err := fs.ReadFile(FS, name)
		if err != nil {
			t.Fatalf("ReadFile %s failed: %v", name, err)
		}
		m := createIndex.FindStringSubmatch(string(raw))
		if m == nil {
			t.Errorf("%s creates no index", name)
			continue
		}
		base := name[strings.LastIndex(name, "/")+1:]
		_, label, _ := strings.Cut(strings.TrimSuffix(base, "_index.sql"), "_")
		if label != m[1] {
			t.Errorf("%s creates idx_%s, file name says %s", name, m[1], label)
		}
	}
}
