// Package crop maps a selection drawn over a scaled preview back onto the
// source image and cuts that region out.
package crop

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/kozaktomas/card-generator/internal/constants"
	"github.com/kozaktomas/card-generator/internal/imageio"
)

// Selection is a rectangle dragged over the preview, in display pixels.
// Start and end may be given in either order.
type Selection struct {
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	EndX   float64 `json:"end_x"`
	EndY   float64 `json:"end_y"`
}

// Begin starts a zero-area selection at a pointer position.
func Begin(x, y float64) Selection {
	return Selection{StartX: x, StartY: y, EndX: x, EndY: y}
}

// MoveTo updates the end corner, clamped to the preview.
func (s Selection) MoveTo(x, y float64, display Rect) Selection {
	s.EndX = math.Max(0, math.Min(x, display.W))
	s.EndY = math.Max(0, math.Min(y, display.H))
	return s
}

// Normalize returns the selection as x, y, width, height with the origin at
// the top-left corner and a non-negative size.
func (s Selection) Normalize() Region {
	return Region{
		X: math.Min(s.StartX, s.EndX),
		Y: math.Min(s.StartY, s.EndY),
		W: math.Abs(s.EndX - s.StartX),
		H: math.Abs(s.EndY - s.StartY),
	}
}

// Rect is the on-screen size of the preview element.
type Rect struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Size is the natural pixel size of the source image.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

// Region is a rectangle in source image pixels.
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Bounds converts the region to whole pixels the way a canvas does:
// coordinates and sizes are truncated.
func (r Region) Bounds() image.Rectangle {
	x, y := int(r.X), int(r.Y)
	return image.Rect(x, y, x+int(r.W), y+int(r.H))
}

// ComputeRegion maps a display selection to source pixels. The axes are
// scaled independently. ok is false when the display is degenerate or the
// region is smaller than constants.MinCropPixels on either axis; callers
// treat that as "no crop intended" and keep the current image.
func ComputeRegion(sel Selection, display Rect, natural Size) (Region, bool) {
	if display.W <= 0 || display.H <= 0 || natural.W <= 0 || natural.H <= 0 {
		return Region{}, false
	}
	scaleX := float64(natural.W) / display.W
	scaleY := float64(natural.H) / display.H

	n := sel.Normalize()
	r := Region{
		X: n.X * scaleX,
		Y: n.Y * scaleY,
		W: n.W * scaleX,
		H: n.H * scaleY,
	}
	if r.W < constants.MinCropPixels || r.H < constants.MinCropPixels {
		return r, false
	}
	return r, true
}

// Apply cuts the region out of img into a new image. Parts of the region
// outside the image are dropped; the source is never modified.
func Apply(img image.Image, r Region) *image.NRGBA {
	b := img.Bounds()
	rect := r.Bounds().Add(b.Min).Intersect(b)
	return imaging.Crop(img, rect)
}

// Result is the outcome of Crop. When Applied is false PNG is nil and the
// card keeps its current image.
type Result struct {
	Applied bool   `json:"applied"`
	Region  Region `json:"region"`
	PNG     []byte `json:"-"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Crop decodes data, maps the selection and returns the region re-encoded as
// PNG so repeated crops never lose quality. Decode failures wrap
// imageio.ErrDecode.
func Crop(data []byte, sel Selection, display Rect) (Result, error) {
	img, err := imageio.Decode(data)
	if err != nil {
		return Result{}, err
	}
	b := img.Bounds()
	region, ok := ComputeRegion(sel, display, Size{W: b.Dx(), H: b.Dy()})
	if !ok {
		return Result{Region: region}, nil
	}

	out := Apply(img, region)
	if out.Bounds().Empty() {
		return Result{Region: region}, nil
	}
	encoded, err := imageio.EncodePNG(out)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Applied: true,
		Region:  region,
		PNG:     encoded,
		Width:   out.Bounds().Dx(),
		Height:  out.Bounds().Dy(),
	}, nil
}

// Preview scales an image down for the crop editor. Crops drawn over the
// preview are mapped back through ComputeRegion, so its exact size does not
// matter.
func Preview(data []byte, maxEdge int) ([]byte, error) {
	img, err := imageio.Decode(data)
	if err != nil {
		return nil, err
	}
	return imageio.EncodePNG(imageio.Fit(img, maxEdge))
}
