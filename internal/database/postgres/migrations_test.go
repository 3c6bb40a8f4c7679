package postgres

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"10_labels.sql": {Data: []byte("ALTER TABLE cards ADD COLUMN note TEXT;")},
		"2_index.sql":   {Data: []byte("CREATE INDEX x ON cards(label);")},
		"001_cards.sql": {Data: []byte("CREATE TABLE cards (id TEXT);")},
		"README.md":     {Data: []byte("ignored")},
	}

	list, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("loadMigrations failed: %v", err)
	}
	var got []string
	for _, m := range list {
		got = append(got, m.String())
	}
	if want := "001_cards,002_index,010_labels"; strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
	if list[2].sql != "ALTER TABLE cards ADD COLUMN note TEXT;" {
		t.Errorf("unexpected sql %q", list[2].sql)
	}
}

func TestLoadMigrations_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{"no version", fstest.MapFS{"cards.sql": {}}, "001_name.sql"},
		{"no name", fstest.MapFS{"003_.sql": {}}, "001_name.sql"},
		{"zero version", fstest.MapFS{"000_cards.sql": {}}, "001_name.sql"},
		{"duplicate version", fstest.MapFS{"001_cards.sql": {}, "1_again.sql": {}}, "share version 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadMigrations(tc.fsys)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	root, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	list, err := loadMigrations(root)
	if err != nil {
		t.Fatalf("embedded migrations are invalid: %v", err)
	}
	if len(list) == 0 || list[0].version != 1 || list[0].name != "cards" {
		t.Fatalf("expected 001_cards first, got %v", list)
	}
	for _, col := range []string{"original", "cropped", "position", "label"} {
		if !strings.Contains(list[0].sql, col) {
			t.Errorf("cards table is missing column %s", col)
		}
	}
}
