package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kozaktomas/card-generator/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var stylesYAML []byte

type Config struct {
	Database DatabaseConfig
	MariaDB  MariaDBConfig
	Render   RenderConfig
	Web      WebConfig
	Styles   StylesConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type MariaDBConfig struct {
	DSN string // e.g. cards:cards@tcp(mariadb:3306)/cards?parseTime=true
}

type RenderConfig struct {
	Renderer    string // "raster" (default) or "gg"
	FontDir     string // directory holding the TTF files named in styles.yaml
	Concurrency int    // parallel card renders in batch operations
}

type WebConfig struct {
	AllowedOrigins []string
}

type StylesConfig struct {
	Defaults StyleDefaults `yaml:"defaults" json:"defaults"`
	Palette  []Swatch      `yaml:"palette" json:"palette"`
	Fonts    []FontFamily  `yaml:"fonts" json:"fonts"`
}

type StyleDefaults struct {
	BorderColor string `yaml:"border_color" json:"border_color"`
	FontFamily  string `yaml:"font_family" json:"font_family"`
}

type Swatch struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

type FontFamily struct {
	Family string `yaml:"family" json:"family"`
	File   string `yaml:"file" json:"-"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envList splits a comma separated environment variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for part := range strings.SplitSeq(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseStyles decodes a styles document.
func ParseStyles(data []byte) (StylesConfig, error) {
	var styles StylesConfig
	if err := yaml.Unmarshal(data, &styles); err != nil {
		return StylesConfig{}, fmt.Errorf("parsing styles: %w", err)
	}
	return styles, nil
}

// loadStyles reads STYLES_FILE when set and the embedded styles otherwise.
func loadStyles() StylesConfig {
	if path := os.Getenv("STYLES_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if styles, err := ParseStyles(data); err == nil {
				return styles
			}
		}
		fmt.Fprintf(os.Stderr, "WARNING: cannot use STYLES_FILE %s, using built-in styles\n", path)
	}
	styles, err := ParseStyles(stylesYAML)
	if err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded styles.yaml: " + err.Error())
	}
	return styles
}

func Load() *Config {
	renderer := os.Getenv("CARD_RENDERER")
	if renderer == "" {
		renderer = "raster"
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		MariaDB: MariaDBConfig{
			DSN: os.Getenv("MARIADB_DSN"),
		},
		Render: RenderConfig{
			Renderer:    renderer,
			FontDir:     os.Getenv("FONT_DIR"),
			Concurrency: envInt("RENDER_CONCURRENCY", constants.DefaultRenderConcurrency),
		},
		Web: WebConfig{
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Styles: loadStyles(),
	}
}

// FontFiles maps each configured family to its file name.
func (s StylesConfig) FontFiles() map[string]string {
	files := make(map[string]string, len(s.Fonts))
	for _, f := range s.Fonts {
		files[f.Family] = f.File
	}
	return files
}

// FamilyNames returns the configured families in declaration order.
func (s StylesConfig) FamilyNames() []string {
	names := make([]string, 0, len(s.Fonts))
	for _, f := range s.Fonts {
		names = append(names, f.Family)
	}
	return names
}
