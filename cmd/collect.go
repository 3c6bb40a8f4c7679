package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/spf13/cobra"
)

// isImageFile checks if a file has an extension the decoders understand
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	supported := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
		".tiff": true,
		".tif":  true,
		".bmp":  true,
	}
	return supported[ext]
}

// collectImages walks folderPath recursively and returns image files in
// lexical order.
func collectImages(folderPath string) ([]string, error) {
	info, err := os.Stat(folderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access folder %s: %w", folderPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", folderPath)
	}

	var filePaths []string
	err = filepath.WalkDir(folderPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isImageFile(d.Name()) {
			filePaths = append(filePaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk folder %s: %w", folderPath, err)
	}
	return filePaths, nil
}

// loadCard reads one image file into a card, applying the upload checks.
func loadCard(path string) (cards.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cards.Card{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	if err := cards.ValidateUpload(name, data); err != nil {
		return cards.Card{}, err
	}
	return cards.NewCard(name, data)
}

// collectCards loads every image under folderPath as a card. Files that
// cannot be used are reported and skipped. labelsFile, when set, holds one
// label per line applied in collection order.
func collectCards(folderPath, labelsFile string) ([]cards.Card, error) {
	filePaths, err := collectImages(folderPath)
	if err != nil {
		return nil, err
	}

	var list []cards.Card
	for _, path := range filePaths {
		card, err := loadCard(path)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", path, err)
			continue
		}
		list = append(list, card)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: %w", folderPath, cards.ErrEmptyCollection)
	}

	if labelsFile != "" {
		text, err := os.ReadFile(labelsFile)
		if err != nil {
			return nil, fmt.Errorf("reading labels: %w", err)
		}
		list = cards.ApplyBulkLabels(list, string(text))
	}

	fmt.Printf("Found %d card(s) in %s\n", len(list), folderPath)
	return list, nil
}

// newBackend builds the configured canvas backend with the configured fonts.
func newBackend(cfg *config.Config) (canvas.Backend, error) {
	fonts := canvas.NewFonts(cfg.Render.FontDir, cfg.Styles.FontFiles())
	backend, err := canvas.NewBackend(cfg.Render.Renderer, fonts)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return backend, nil
}

// addStyleFlags registers the card style flags shared by the rendering commands.
func addStyleFlags(cmd *cobra.Command) {
	cmd.Flags().String("border", "", "Border colour: hex (#2D5A27) or CSS name (default from styles)")
	cmd.Flags().String("font", "", "Label font family (default from styles)")
}

// styleFromFlags reads the style flags, falling back to the configured defaults.
func styleFromFlags(cmd *cobra.Command, cfg *config.Config) (compose.Style, error) {
	border := mustGetString(cmd, "border")
	if border == "" {
		border = cfg.Styles.Defaults.BorderColor
	}
	font := mustGetString(cmd, "font")
	if font == "" {
		font = cfg.Styles.Defaults.FontFamily
	}
	return compose.ParseStyle(border, font)
}
