package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/units"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render one card from an image",
	Long: `Render a control, picture or label card from a single image.

The label defaults to the file name with dashes and underscores turned into
spaces. Use --variant all to write all three cards.

Example:
  card-generator render apple.jpg
  card-generator render apple.jpg --variant picture --label "red apple"
  card-generator render apple.jpg --variant all --out ./cards --border navy`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("variant", "control", "Card variant: control, picture, label or all")
	renderCmd.Flags().String("label", "", "Card label (default from file name)")
	renderCmd.Flags().String("out", ".", "Output directory")
	addStyleFlags(renderCmd)
}

// parseVariants expands the --variant flag.
func parseVariants(s string) ([]cards.Variant, error) {
	if s == "all" {
		return cards.Variants(), nil
	}
	v, err := cards.ParseVariant(s)
	if err != nil {
		return nil, err
	}
	return []cards.Variant{v}, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	variants, err := parseVariants(mustGetString(cmd, "variant"))
	if err != nil {
		return err
	}
	style, err := styleFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	card, err := loadCard(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("label") {
		card = card.WithLabel(mustGetString(cmd, "label"))
	}

	outDir := mustGetString(cmd, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	compositor := compose.New(backend, units.Editor().Constants())
	for _, v := range variants {
		data, err := compositor.RenderPNG(cmd.Context(), card, v, style)
		if err != nil {
			return fmt.Errorf("rendering %s card: %w", v, err)
		}
		path := filepath.Join(outDir, cards.FileName(card.Label, v))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		w, h := compositor.Size(v)
		fmt.Printf("Wrote %s (%dx%d)\n", path, w, h)
	}
	return nil
}
