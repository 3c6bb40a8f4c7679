package compose

import (
	"math"

	"github.com/kozaktomas/card-generator/internal/constants"
)

// MeasureFunc returns the width of text drawn at size pixels.
type MeasureFunc func(text string, size float64) float64

// FitFontSize finds the largest label size that fits the box. It starts at
// 80% of the label height and shrinks in 2px steps until the text is at most
// 95% of maxWidth wide and its line height at most 95% of maxHeight. Below
// 20px it stops shrinking and returns 20 even if the text still overflows.
func FitFontSize(measure MeasureFunc, text string, maxWidth, maxHeight, labelHeight float64) float64 {
	size := math.Round(labelHeight * constants.LabelStartRatio)
	for size >= constants.LabelMinFontSize {
		width := measure(text, size)
		height := size * constants.LabelLineHeight
		if width <= maxWidth*constants.LabelFillRatio && height <= maxHeight*constants.LabelFillRatio {
			return size
		}
		size -= constants.LabelFontStep
	}
	return constants.LabelMinFontSize
}
