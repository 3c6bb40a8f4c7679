package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/printsheet"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// imageFolder creates a folder with two images, one nested, and a text file.
func imageFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b_zebra.png"), 30, 20)
	writePNG(t, filepath.Join(dir, "a", "lion-cub.png"), 20, 30)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write notes: %v", err)
	}
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"scan.tif", true},
		{"icon.webp", true},
		{"notes.txt", false},
		{"raw.cr2", false},
		{"noext", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isImageFile(tc.name); got != tc.expected {
				t.Errorf("isImageFile(%q) = %v, want %v", tc.name, got, tc.expected)
			}
		})
	}
}

func TestCollectCards(t *testing.T) {
	dir := imageFolder(t)

	list, err := collectCards(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(list))
	}
	// WalkDir visits entries in lexical order, so the nested folder comes first.
	if list[0].Label != "lion cub" || list[1].Label != "b zebra" {
		t.Errorf("unexpected labels: %q, %q", list[0].Label, list[1].Label)
	}
}

func TestCollectCards_LabelsFile(t *testing.T) {
	dir := imageFolder(t)
	labels := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(labels, []byte("lion\n\nzebra\nextra\n"), 0o644); err != nil {
		t.Fatalf("failed to write labels: %v", err)
	}

	list, err := collectCards(dir, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list[0].Label != "lion" || list[1].Label != "zebra" {
		t.Errorf("unexpected labels: %q, %q", list[0].Label, list[1].Label)
	}
}

func TestCollectCards_Errors(t *testing.T) {
	empty := t.TempDir()
	if _, err := collectCards(empty, ""); !errors.Is(err, cards.ErrEmptyCollection) {
		t.Errorf("expected ErrEmptyCollection for empty folder, got %v", err)
	}

	file := filepath.Join(empty, "x.png")
	writePNG(t, file, 5, 5)
	if _, err := collectCards(file, ""); err == nil {
		t.Error("expected error for a file path")
	}

	if _, err := collectCards(filepath.Join(empty, "missing"), ""); err == nil {
		t.Error("expected error for a missing folder")
	}
}

func TestRenderCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "red-apple.png")
	writePNG(t, src, 40, 40)
	out := t.TempDir()

	if err := execute(t, "render", src, "--variant", "all", "--out", out, "--border", "navy"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	expected := map[string][2]int{
		"red_apple_control.png": {416, 491},
		"red_apple_picture.png": {416, 416},
		"red_apple_label.png":   {416, 76},
	}
	for name, size := range expected {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Errorf("%s is not a PNG: %v", name, err)
			continue
		}
		if cfg.Width != size[0] || cfg.Height != size[1] {
			t.Errorf("%s: expected %dx%d, got %dx%d", name, size[0], size[1], cfg.Width, cfg.Height)
		}
	}
}

func TestRenderCommand_InvalidVariant(t *testing.T) {
	src := filepath.Join(t.TempDir(), "apple.png")
	writePNG(t, src, 10, 10)

	err := execute(t, "render", src, "--variant", "poster", "--out", t.TempDir())
	if !errors.Is(err, cards.ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestCropCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "owl.png")
	writePNG(t, src, 100, 80)
	out := filepath.Join(dir, "owl_square.png")

	// Display at half size: a 25x25 selection is 50x50 source pixels.
	err := execute(t, "crop", src, "--x", "10", "--y", "5", "--w", "25", "--h", "25",
		"--display-w", "50", "--display-h", "40", "--out", out)
	if err != nil {
		t.Fatalf("crop failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 50 {
		t.Errorf("expected 50x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestBundleCommand(t *testing.T) {
	dir := imageFolder(t)
	out := filepath.Join(t.TempDir(), "animals.zip")

	if err := execute(t, "bundle", dir, "--out", out, "--concurrency", "2"); err != nil {
		t.Fatalf("bundle failed: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	expected := "lion_cub_control.png,lion_cub_picture.png,lion_cub_label.png," +
		"b_zebra_control.png,b_zebra_picture.png,b_zebra_label.png"
	if strings.Join(names, ",") != expected {
		t.Errorf("unexpected entries: %v", names)
	}
}

func TestPrintCommand(t *testing.T) {
	dir := imageFolder(t)
	outDir := t.TempDir()

	t.Run("report", func(t *testing.T) {
		out := filepath.Join(outDir, "report.json")
		if err := execute(t, "print", dir, "--format", "report", "--layout", "large", "--out", out); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected report: %v", err)
		}
		var report printsheet.Report
		if err := json.Unmarshal(data, &report); err != nil {
			t.Fatalf("invalid report: %v", err)
		}
		if report.Kind != printsheet.KindLarge || report.PageCount != 1 || report.CardCount != 2 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("html", func(t *testing.T) {
		out := filepath.Join(outDir, "cards.html")
		if err := execute(t, "print", dir, "--format", "html", "--layout", "standard", "--out", out); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected html: %v", err)
		}
		if !strings.Contains(string(data), "Control Cards - Page 1") {
			t.Error("expected control card page")
		}
	})

	t.Run("pdf", func(t *testing.T) {
		out := filepath.Join(outDir, "cards.pdf")
		if err := execute(t, "print", dir, "--format", "pdf", "--out", out); err != nil {
			t.Fatalf("print failed: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected pdf: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Error("expected a PDF document")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := execute(t, "print", dir, "--format", "docx"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
