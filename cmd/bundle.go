package cmd

import (
	"fmt"
	"os"

	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/units"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle <folder-path>",
	Short: "Render every card of a folder into a zip archive",
	Long: `Render the control, picture and label card of every image found
recursively in a folder and pack them into one zip archive.

Images that cannot be rendered are listed in failures.txt inside the
archive; the remaining cards are still written.

Example:
  card-generator bundle ./animals
  card-generator bundle ./animals --out animals.zip --labels labels.txt --border "#2B6CB0"`,
	Args: cobra.ExactArgs(1),
	RunE: runBundle,
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().String("out", "cards.zip", "Output zip file")
	bundleCmd.Flags().String("labels", "", "Text file with one label per line, applied in file order")
	bundleCmd.Flags().Int("concurrency", 0, "Parallel renders (default RENDER_CONCURRENCY)")
	addStyleFlags(bundleCmd)
}

// newProgressBar creates a progress bar in the style used by all commands.
func newProgressBar(total int, description, unit string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func runBundle(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	style, err := styleFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	list, err := collectCards(args[0], mustGetString(cmd, "labels"))
	if err != nil {
		return err
	}

	concurrency := mustGetInt(cmd, "concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Render.Concurrency
	}

	bar := newProgressBar(len(list), "Rendering", "cards")
	compositor := compose.New(backend, units.Editor().Constants())
	result, err := compositor.RenderAll(cmd.Context(), list, style, concurrency, func(done, total int) {
		bar.Set(done)
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("rendering cards: %w", err)
	}

	out := mustGetString(cmd, "out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := compose.WriteBundle(f, result); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	for _, failure := range result.Failures {
		fmt.Printf("Failed: %v\n", failure)
	}
	fmt.Printf("\nDone! Wrote %d card image(s) to %s\n", len(result.Files), out)
	return nil
}
