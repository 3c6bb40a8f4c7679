// Package units maps physical card dimensions in centimetres to pixels and
// print lengths. Every renderer and layout reads its sizes from here.
package units

import (
	"math"
	"strconv"
)

// PxPerCM is the screen density the editor assumes (96 DPI).
const PxPerCM = 37.8

// Print page constants, in centimetres.
const (
	// PageWidthCM and PageHeightCM describe an A4 sheet.
	PageWidthCM  = 21.0
	PageHeightCM = 29.7

	// PageMarginCM is the @page margin; cards run to the sheet edge.
	PageMarginCM = 0.0

	// PictureCardCM is the outer edge of a picture card on paper.
	PictureCardCM = 7.5

	// LabelCardCM is the height of a label-only card on paper.
	LabelCardCM = 2.4

	// LabelInternalCM is the height of the white label strip inside a printed card.
	LabelInternalCM = 1.8

	// BorderCM is the coloured border around every card.
	BorderCM = 0.5

	// CornerRadiusCM rounds printed card corners.
	CornerRadiusCM = 0.4

	// ControlCardCM is the height of a control card: picture card plus label card.
	ControlCardCM = PictureCardCM + LabelCardCM
)

// Editor dimensions, in centimetres.
const (
	EditorImageCM = 10.0
	EditorLabelCM = 2.0
)

// CMToPx converts centimetres to screen pixels. The result is not rounded.
func CMToPx(cm float64) float64 {
	return cm * PxPerCM
}

// CMToPxAt converts centimetres to pixels at an arbitrary density.
func CMToPxAt(cm, dpi float64) float64 {
	return cm / 2.54 * dpi
}

// FormatCM renders a CSS length in centimetres, e.g. "7.5cm".
func FormatCM(cm float64) string {
	v := round(cm, 4)
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "cm"
}

// Layout holds the centimetre inputs a card is drawn from.
type Layout struct {
	ImageCM  float64 `json:"image_cm"`
	BorderCM float64 `json:"border_cm"`
	LabelCM  float64 `json:"label_cm"`
}

// Editor is the on-screen layout used for single card downloads.
func Editor() Layout {
	return Layout{ImageCM: EditorImageCM, BorderCM: BorderCM, LabelCM: EditorLabelCM}
}

// Print is the paper layout. Its card edge equals PictureCardCM so rendered
// cards fill the print grid exactly.
func Print() Layout {
	return Layout{ImageCM: PictureCardCM - 2*BorderCM, BorderCM: BorderCM, LabelCM: LabelCardCM}
}

// Large is the layout of the images-only sheet, where a card fills a quarter
// of the page.
func Large() Layout {
	edge := math.Min(PageWidthCM/2, PageHeightCM/2)
	return Layout{ImageCM: edge - 2*BorderCM, BorderCM: BorderCM, LabelCM: 0}
}

// CardCM returns the outer card edge.
func (l Layout) CardCM() float64 {
	return l.ImageCM + 2*l.BorderCM
}

// Constants converts the layout at screen density.
func (l Layout) Constants() Constants {
	return Constants{
		ImageSize:   CMToPx(l.ImageCM),
		BorderSize:  CMToPx(l.BorderCM),
		LabelHeight: CMToPx(l.LabelCM),
	}
}

// ConstantsAt converts the layout at the given DPI.
func (l Layout) ConstantsAt(dpi float64) Constants {
	return Constants{
		ImageSize:   CMToPxAt(l.ImageCM, dpi),
		BorderSize:  CMToPxAt(l.BorderCM, dpi),
		LabelHeight: CMToPxAt(l.LabelCM, dpi),
	}
}

// Constants are the pixel sizes a compositor draws with.
type Constants struct {
	ImageSize   float64 `json:"image_size"`
	BorderSize  float64 `json:"border_size"`
	LabelHeight float64 `json:"label_height"`
}

// CardSize is the image area plus a border on each side.
func (c Constants) CardSize() float64 {
	return c.ImageSize + 2*c.BorderSize
}

// LabelTextHeight is the height available to label text inside the white strip.
func (c Constants) LabelTextHeight() float64 {
	return c.LabelHeight - 2*c.BorderSize
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
