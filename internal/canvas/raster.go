package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Raster draws with golang.org/x/image into an in-memory RGBA image.
type Raster struct {
	fonts *Fonts
}

// NewRaster returns the default backend.
func NewRaster(fonts *Fonts) *Raster {
	if fonts == nil {
		fonts = DefaultFonts()
	}
	return &Raster{fonts: fonts}
}

func (r *Raster) Name() string { return "raster" }

func (r *Raster) NewSurface(width, height int) Surface {
	return &RasterSurface{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts: r.fonts,
		faces: make(map[Face]font.Face),
	}
}

// RasterSurface is a Surface backed by *image.RGBA.
type RasterSurface struct {
	img   *image.RGBA
	fonts *Fonts
	faces map[Face]font.Face
	err   error
}

func (s *RasterSurface) Bounds() image.Rectangle { return s.img.Bounds() }

func (s *RasterSurface) Image() image.Image { return s.img }

func (s *RasterSurface) Err() error { return s.err }

func (s *RasterSurface) FillRect(r Rect, c color.Color) {
	draw.Draw(s.img, r.Pixels(), image.NewUniform(c), image.Point{}, draw.Over)
}

func (s *RasterSurface) DrawImageCover(img image.Image, box Rect) {
	clip, ok := s.img.SubImage(box.Pixels()).(*image.RGBA)
	if !ok || clip.Bounds().Empty() {
		return
	}
	dst, _ := Cover(img.Bounds().Dx(), img.Bounds().Dy(), box)
	// The scaler clips dst to the sub-image, so overflow never reaches the border.
	xdraw.CatmullRom.Scale(clip, dst.outer(), img, img.Bounds(), xdraw.Over, nil)
}

func (s *RasterSurface) MeasureText(text string, face Face) float64 {
	f := s.face(face)
	if f == nil {
		return 0
	}
	return float64(font.MeasureString(f, text)) / 64
}

func (s *RasterSurface) DrawCenteredText(text string, cx, cy float64, face Face, c color.Color) {
	f := s.face(face)
	if f == nil {
		return
	}
	width := float64(font.MeasureString(f, text)) / 64
	m := f.Metrics()
	// Centre the ascent..descent box on cy, like a canvas "middle" baseline.
	baseline := cy + float64(m.Ascent-m.Descent)/128
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.Point26_6{X: fixed.Int26_6((cx - width/2) * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(text)
}

func (s *RasterSurface) face(face Face) font.Face {
	if f, ok := s.faces[face]; ok {
		return f
	}
	f, err := s.fonts.NewFace(face.Family, face.Size)
	if err != nil {
		if s.err == nil {
			s.err = fmt.Errorf("creating %s face at %.0fpx: %w", face.Family, face.Size, err)
		}
		return nil
	}
	s.faces[face] = f
	return f
}
