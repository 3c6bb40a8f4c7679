// Package compose renders the control, picture and label variants of a card.
package compose

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/kozaktomas/card-generator/internal/canvas"
	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/imageio"
	"github.com/kozaktomas/card-generator/internal/units"
)

// Compositor draws cards at one set of pixel dimensions.
type Compositor struct {
	backend canvas.Backend
	k       units.Constants
}

// New returns a compositor drawing on backend with the given layout.
func New(backend canvas.Backend, k units.Constants) *Compositor {
	return &Compositor{backend: backend, k: k}
}

// Constants returns the pixel layout the compositor draws with.
func (c *Compositor) Constants() units.Constants {
	return c.k
}

// Backend returns the surface backend.
func (c *Compositor) Backend() canvas.Backend {
	return c.backend
}

// Size returns the canvas size of a variant.
func (c *Compositor) Size(v cards.Variant) (int, int) {
	card := c.k.CardSize()
	switch v {
	case cards.VariantControl:
		return px(card), px(card + c.k.LabelHeight)
	case cards.VariantLabel:
		return px(card), px(c.k.LabelHeight)
	default:
		return px(card), px(card)
	}
}

// Render decodes the card image when the variant needs it and draws the
// variant. Decode failures wrap imageio.ErrDecode.
func (c *Compositor) Render(ctx context.Context, card cards.Card, v cards.Variant, style Style) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var img image.Image
	if v.HasImage() {
		var err error
		img, err = imageio.Decode(card.Image())
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", card.ID, err)
		}
	}
	return c.Draw(img, card.Label, v, style)
}

// RenderPNG renders a variant and encodes it as PNG.
func (c *Compositor) RenderPNG(ctx context.Context, card cards.Card, v cards.Variant, style Style) ([]byte, error) {
	img, err := c.Render(ctx, card, v, style)
	if err != nil {
		return nil, err
	}
	return imageio.EncodePNG(img)
}

// Draw composes a variant from an already decoded image. img may be nil for
// the label variant.
func (c *Compositor) Draw(img image.Image, label string, v cards.Variant, style Style) (image.Image, error) {
	var (
		k    = c.k
		card = k.CardSize()
		b    = k.BorderSize
		is   = k.ImageSize
		lh   = k.LabelHeight
	)
	imageBox := canvas.Rect{X: b, Y: b, W: is, H: is}

	w, h := c.Size(v)
	s := c.backend.NewSurface(w, h)
	s.FillRect(canvas.Rect{W: float64(w), H: float64(h)}, style.BorderColor)

	switch v {
	case cards.VariantControl:
		s.FillRect(imageBox, color.White)
		s.FillRect(canvas.Rect{X: b, Y: card, W: is, H: lh - b}, color.White)
		if img != nil {
			s.DrawImageCover(img, imageBox)
		}
		c.drawLabel(s, label, card/2, card+lh/2, style)
	case cards.VariantPicture:
		s.FillRect(imageBox, color.White)
		if img != nil {
			s.DrawImageCover(img, imageBox)
		}
	case cards.VariantLabel:
		s.FillRect(canvas.Rect{X: b, Y: b, W: is, H: lh - 2*b}, color.White)
		c.drawLabel(s, label, card/2, lh/2, style)
	default:
		return nil, fmt.Errorf("%w: %q", cards.ErrUnknownVariant, v)
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("drawing %s card: %w", v, err)
	}
	return s.Image(), nil
}

// LabelFontSize returns the size the label is drawn at on surface s.
func (c *Compositor) LabelFontSize(s canvas.Surface, label, family string) float64 {
	measure := func(text string, size float64) float64 {
		return s.MeasureText(text, canvas.Face{Family: family, Size: size})
	}
	return FitFontSize(measure, label, c.k.ImageSize, c.k.LabelTextHeight(), c.k.LabelHeight)
}

func (c *Compositor) drawLabel(s canvas.Surface, label string, cx, cy float64, style Style) {
	size := c.LabelFontSize(s, label, style.FontFamily)
	s.DrawCenteredText(label, cx, cy, canvas.Face{Family: style.FontFamily, Size: size}, color.Black)
}

func px(v float64) int {
	return int(math.Round(v))
}
