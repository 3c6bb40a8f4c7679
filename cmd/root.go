package cmd

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "card-generator",
	Short: "Generate printable Montessori three-part cards",
	Long: `Card Generator turns a set of photos into Montessori three-part cards:
a control card (picture and label), a picture card and a label card.

Images can be cropped, labelled and styled, then downloaded one by one,
as a zip bundle, or laid out on A4 sheets as HTML or PDF.`,
	SilenceUsage: true,
}

// Execute runs the root command with signal handling and --version support.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
