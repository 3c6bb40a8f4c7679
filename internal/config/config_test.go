package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/card-generator/internal/constants"
)

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "unset", value: "", expected: 7},
		{name: "valid", value: "12", expected: 12},
		{name: "invalid", value: "abc", expected: 7},
		{name: "zero", value: "0", expected: 7},
		{name: "negative", value: "-3", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			if got := envInt("TEST_ENV_INT", 7); got != tt.expected {
				t.Errorf("envInt = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("TEST_ENV_LIST", " https://a.example.com, ,https://b.example.com ")
	got := envList("TEST_ENV_LIST")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("envList = %q", got)
	}
}

func TestEmbeddedStyles(t *testing.T) {
	styles, err := ParseStyles(stylesYAML)
	if err != nil {
		t.Fatalf("embedded styles should parse: %v", err)
	}
	if styles.Defaults.BorderColor != "#2D5A27" {
		t.Errorf("expected default border #2D5A27, got %s", styles.Defaults.BorderColor)
	}
	if styles.Defaults.FontFamily != "Comic Sans MS" {
		t.Errorf("expected default font Comic Sans MS, got %s", styles.Defaults.FontFamily)
	}
	if len(styles.Palette) == 0 {
		t.Error("expected a non-empty palette")
	}
	files := styles.FontFiles()
	if _, ok := files[styles.Defaults.FontFamily]; !ok {
		t.Error("default font family should be registered")
	}
	names := styles.FamilyNames()
	if len(names) != len(styles.Fonts) || names[0] != "Comic Sans MS" {
		t.Errorf("unexpected family names %v", names)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CARD_RENDERER", "RENDER_CONCURRENCY", "DATABASE_URL", "MARIADB_DSN", "STYLES_FILE"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Render.Renderer != "raster" {
		t.Errorf("expected raster renderer, got %q", cfg.Render.Renderer)
	}
	if cfg.Render.Concurrency != constants.DefaultRenderConcurrency {
		t.Errorf("expected concurrency %d, got %d", constants.DefaultRenderConcurrency, cfg.Render.Concurrency)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("unexpected pool defaults %+v", cfg.Database)
	}
}

func TestLoad_StylesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	doc := "defaults:\n  border_color: \"#000000\"\n  font_family: \"Georgia\"\nfonts:\n  - family: Georgia\n    file: georgiab.ttf\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STYLES_FILE", path)

	cfg := Load()
	if cfg.Styles.Defaults.FontFamily != "Georgia" {
		t.Errorf("expected styles from file, got %+v", cfg.Styles.Defaults)
	}
}

func TestLoad_StylesFileMissing(t *testing.T) {
	t.Setenv("STYLES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	cfg := Load()
	if cfg.Styles.Defaults.BorderColor != "#2D5A27" {
		t.Errorf("expected embedded styles fallback, got %+v", cfg.Styles.Defaults)
	}
}
