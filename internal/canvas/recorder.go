package canvas

import (
	"image"
	"image/color"
	"sync"
	"unicode/utf8"
)

// GlyphWidth is the advance of every rune on a Recording, as a share of the
// font size.
const GlyphWidth = 0.6

// Op is one recorded drawing call.
type Op struct {
	Kind  string // "fill", "image" or "text"
	Rect  Rect
	Color color.Color
	Text  string
	Face  Face
	X, Y  float64
	Cover Rect // where the image landed before clipping
}

// Recorder is a headless backend. Its surfaces record every call and measure
// text with fixed glyph widths, so layout can be checked without fonts.
// Surfaces may be created from several goroutines; each Recording itself is
// used by one goroutine only.
type Recorder struct {
	mu       sync.Mutex
	surfaces []*Recording
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) NewSurface(width, height int) Surface {
	s := &Recording{bounds: image.Rect(0, 0, width, height)}
	r.mu.Lock()
	r.surfaces = append(r.surfaces, s)
	r.mu.Unlock()
	return s
}

// Surfaces returns the surfaces created so far, in creation order.
func (r *Recorder) Surfaces() []*Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Recording, len(r.surfaces))
	copy(out, r.surfaces)
	return out
}

// Recording is a Surface that keeps the calls made on it.
type Recording struct {
	bounds image.Rectangle
	Ops    []Op
}

// NewRecording returns a standalone recording surface.
func NewRecording(width, height int) *Recording {
	return &Recording{bounds: image.Rect(0, 0, width, height)}
}

func (r *Recording) Bounds() image.Rectangle { return r.bounds }

func (r *Recording) Err() error { return nil }

// Image returns a blank image of the surface size.
func (r *Recording) Image() image.Image { return image.NewRGBA(r.bounds) }

func (r *Recording) FillRect(rect Rect, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "fill", Rect: rect, Color: c})
}

func (r *Recording) DrawImageCover(img image.Image, box Rect) {
	dst, _ := Cover(img.Bounds().Dx(), img.Bounds().Dy(), box)
	r.Ops = append(r.Ops, Op{Kind: "image", Rect: box, Cover: dst})
}

func (r *Recording) DrawCenteredText(text string, cx, cy float64, face Face, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "text", Text: text, Face: face, X: cx, Y: cy, Color: c})
}

func (r *Recording) MeasureText(text string, face Face) float64 {
	return float64(utf8.RuneCountInString(text)) * face.Size * GlyphWidth
}

// Texts returns every string drawn, in order.
func (r *Recording) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// OpsOf returns the recorded operations of one kind.
func (r *Recording) OpsOf(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
