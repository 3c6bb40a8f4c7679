// Package canvas is the drawing surface cards are composited on. The
// compositor only talks to Surface, so the same layout code drives the
// raster renderer, the gg renderer and the recording surface used in tests.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Rect is a rectangle in canvas pixels. Coordinates may be fractional.
type Rect struct {
	X, Y, W, H float64
}

// Pixels rounds the rectangle to whole pixels.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// outer returns the smallest pixel rectangle containing r.
func (r Rect) outer() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
}

// Face selects a bold label font.
type Face struct {
	Family string
	Size   float64
}

// Surface is an off-screen drawing target.
type Surface interface {
	// Bounds is the canvas size in pixels.
	Bounds() image.Rectangle
	// FillRect paints a solid rectangle.
	FillRect(r Rect, c color.Color)
	// DrawImageCover scales img uniformly until it covers box, centres it
	// and clips whatever overflows box.
	DrawImageCover(img image.Image, box Rect)
	// DrawCenteredText draws one line of text centred on (cx, cy).
	DrawCenteredText(text string, cx, cy float64, face Face, c color.Color)
	// MeasureText returns the advance width of text.
	MeasureText(text string, face Face) float64
	// Image returns the rendered pixels.
	Image() image.Image
	// Err reports the first drawing failure, if any.
	Err() error
}

// Backend creates surfaces.
type Backend interface {
	Name() string
	NewSurface(width, height int) Surface
}

// NewBackend returns the backend registered under name: "raster" or "gg".
func NewBackend(name string, fonts *Fonts) (Backend, error) {
	switch name {
	case "", "raster":
		return NewRaster(fonts), nil
	case "gg":
		return NewGG(fonts), nil
	}
	return nil, fmt.Errorf("unknown renderer %q", name)
}

// Cover returns where an image of size w x h lands when cover-fitted into
// box, together with the scale applied. The result always contains box.
func Cover(w, h int, box Rect) (Rect, float64) {
	if w <= 0 || h <= 0 {
		return box, 0
	}
	scale := math.Max(box.W/float64(w), box.H/float64(h))
	sw := float64(w) * scale
	sh := float64(h) * scale
	return Rect{
		X: box.X + (box.W-sw)/2,
		Y: box.Y + (box.H-sh)/2,
		W: sw,
		H: sh,
	}, scale
}

// visibleSource returns the part of the source image that stays visible
// after cover-fitting into box, in source pixels.
func visibleSource(bounds image.Rectangle, box Rect) image.Rectangle {
	dst, scale := Cover(bounds.Dx(), bounds.Dy(), box)
	if scale == 0 {
		return bounds
	}
	x0 := (box.X - dst.X) / scale
	y0 := (box.Y - dst.Y) / scale
	r := image.Rect(
		bounds.Min.X+int(math.Floor(x0)), bounds.Min.Y+int(math.Floor(y0)),
		bounds.Min.X+int(math.Ceil(x0+box.W/scale)), bounds.Min.Y+int(math.Ceil(y0+box.H/scale)),
	)
	return r.Intersect(bounds)
}
