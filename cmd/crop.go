package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/crop"
	"github.com/kozaktomas/card-generator/internal/imageio"
	"github.com/spf13/cobra"
)

var cropCmd = &cobra.Command{
	Use:   "crop <image>",
	Short: "Crop an image to a selected region",
	Long: `Crop an image to the rectangle --x, --y, --w, --h.

Coordinates are in display pixels of an image shown at --display-w x
--display-h; without a display size they are source pixels. Regions smaller
than 10 source pixels on either side leave the image unchanged.

Example:
  card-generator crop apple.jpg --x 40 --y 10 --w 300 --h 300
  card-generator crop apple.jpg --x 20 --y 5 --w 150 --h 150 --display-w 512 --display-h 384`,
	Args: cobra.ExactArgs(1),
	RunE: runCrop,
}

func init() {
	rootCmd.AddCommand(cropCmd)
	cropCmd.Flags().Float64("x", 0, "Left edge of the selection")
	cropCmd.Flags().Float64("y", 0, "Top edge of the selection")
	cropCmd.Flags().Float64("w", 0, "Selection width")
	cropCmd.Flags().Float64("h", 0, "Selection height")
	cropCmd.Flags().Float64("display-w", 0, "Width the image was displayed at (default: source width)")
	cropCmd.Flags().Float64("display-h", 0, "Height the image was displayed at (default: source height)")
	cropCmd.Flags().String("out", "", "Output file (default: <name>_cropped.png)")
}

func runCrop(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	w, h, err := imageio.DecodeSize(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	display := crop.Rect{W: mustGetFloat64(cmd, "display-w"), H: mustGetFloat64(cmd, "display-h")}
	if display.W <= 0 {
		display.W = float64(w)
	}
	if display.H <= 0 {
		display.H = float64(h)
	}

	x, y := mustGetFloat64(cmd, "x"), mustGetFloat64(cmd, "y")
	sel := crop.Begin(x, y).MoveTo(x+mustGetFloat64(cmd, "w"), y+mustGetFloat64(cmd, "h"), display)

	result, err := crop.Crop(data, sel, display)
	if err != nil {
		return fmt.Errorf("cropping %s: %w", path, err)
	}
	if !result.Applied {
		fmt.Printf("Selection %.0fx%.0f px is below %d px; image left unchanged\n",
			result.Region.W, result.Region.H, constants.MinCropPixels)
		return nil
	}

	out := mustGetString(cmd, "out")
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = filepath.Join(filepath.Dir(path), base+"_cropped.png")
	}
	if err := os.WriteFile(out, result.PNG, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Cropped %s (%dx%d) to %dx%d at %.0f,%.0f\n",
		path, w, h, result.Width, result.Height, result.Region.X, result.Region.Y)
	fmt.Printf("Wrote %s\n", out)
	return nil
}
