package canvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// GG draws with github.com/gogpu/gg's software renderer.
type GG struct {
	fonts *Fonts
}

// NewGG returns the gg backend.
func NewGG(fonts *Fonts) *GG {
	if fonts == nil {
		fonts = DefaultFonts()
	}
	return &GG{fonts: fonts}
}

func (g *GG) Name() string { return "gg" }

func (g *GG) NewSurface(width, height int) Surface {
	return &GGSurface{
		dc:      gg.NewContext(width, height),
		fonts:   g.fonts,
		sources: make(map[string]*text.FontSource),
	}
}

// GGSurface is a Surface backed by a gg.Context.
type GGSurface struct {
	dc      *gg.Context
	fonts   *Fonts
	sources map[string]*text.FontSource
	err     error
}

func (s *GGSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.dc.Width(), s.dc.Height())
}

func (s *GGSurface) Image() image.Image { return s.dc.Image() }

func (s *GGSurface) Err() error { return s.err }

func (s *GGSurface) fail(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

func (s *GGSurface) FillRect(r Rect, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.fail(s.dc.Fill())
}

func (s *GGSurface) DrawImageCover(img image.Image, box Rect) {
	// DrawImageEx ignores the clip stack, so only the visible part of the
	// source is sampled and stretched onto box.
	src := visibleSource(img.Bounds(), box)
	if src.Empty() {
		return
	}
	buf := gg.ImageBufFromImage(img)
	s.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             box.X,
		Y:             box.Y,
		DstWidth:      box.W,
		DstHeight:     box.H,
		SrcRect:       &src,
		Interpolation: gg.InterpBicubic,
	})
}

func (s *GGSurface) MeasureText(str string, face Face) float64 {
	f := s.face(face)
	if f == nil {
		return 0
	}
	return f.Advance(str)
}

func (s *GGSurface) DrawCenteredText(str string, cx, cy float64, face Face, c color.Color) {
	f := s.face(face)
	if f == nil {
		return
	}
	m := f.Metrics()
	s.dc.SetFont(f)
	s.dc.SetColor(c)
	s.dc.DrawString(str, cx-f.Advance(str)/2, cy+(m.Ascent-m.Descent)/2)
}

func (s *GGSurface) face(face Face) text.Face {
	src, ok := s.sources[face.Family]
	if !ok {
		var err error
		src, err = text.NewFontSource(s.fonts.Data(face.Family))
		if err != nil {
			s.fail(fmt.Errorf("loading %s: %w", face.Family, err))
			return nil
		}
		s.sources[face.Family] = src
	}
	return src.Face(face.Size)
}
