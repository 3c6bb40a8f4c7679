package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/printsheet"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print <folder-path>",
	Short: "Lay out every card of a folder on A4 sheets",
	Long: `Lay out the cards of every image found recursively in a folder on A4
sheets.

Layouts:
  standard  control cards (6 per page), picture cards (6 per page) and
            label cards (16 per page)
  large     picture cards only, 4 per page

Formats:
  pdf       print-ready PDF with cards rendered at 300 DPI
  html      self-contained page that opens the print dialog when loaded
  report    JSON summary of pages, fill counts and image resolution

Example:
  card-generator print ./animals --out animals.pdf
  card-generator print ./animals --layout large --format html --out animals.html
  card-generator print ./animals --format report`,
	Args: cobra.ExactArgs(1),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.Flags().String("layout", "standard", "Print layout: standard or large")
	printCmd.Flags().String("format", "pdf", "Output format: pdf, html or report")
	printCmd.Flags().String("out", "", "Output file (default: cards.<format>, report goes to stdout)")
	printCmd.Flags().String("labels", "", "Text file with one label per line, applied in file order")
	addStyleFlags(printCmd)
}

// withSpinner shows an indeterminate progress bar while fn runs.
func withSpinner(description string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	err := fn()
	close(done)
	bar.Finish()
	fmt.Println()
	return err
}

func writePrint(ctx context.Context, w io.Writer, format string, doc *printsheet.Document, backend canvas.Backend) error {
	switch format {
	case "pdf":
		return withSpinner("Rendering PDF", func() error {
			return printsheet.RenderPDF(ctx, w, doc, backend)
		})
	case "html":
		return printsheet.RenderHTML(w, doc, backend)
	case "report":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(printsheet.BuildReport(doc))
	}
	return fmt.Errorf("unknown format %q", format)
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	kind, err := printsheet.ParseKind(mustGetString(cmd, "layout"))
	if err != nil {
		return err
	}
	format := mustGetString(cmd, "format")
	if format != "pdf" && format != "html" && format != "report" {
		return fmt.Errorf("unknown format %q", format)
	}
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
	doc, err := printsheet.Build(kind, list, style)
	if err != nil {
		return err
	}

	out := mustGetString(cmd, "out")
	if out == "" && format == "report" {
		return writePrint(cmd.Context(), os.Stdout, format, doc, backend)
	}
	if out == "" {
		out = "cards." + format
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := writePrint(cmd.Context(), f, format, doc, backend); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	report := printsheet.BuildReport(doc)
	for _, warning := range report.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	for _, dup := range report.Duplicates {
		fmt.Printf("Warning: %q and %q look like the same picture\n", dup.Labels[0], dup.Labels[1])
	}
	fmt.Printf("\nDone! Wrote %d page(s) with %d card(s) to %s\n", report.PageCount, report.CardCount, out)
	return nil
}
