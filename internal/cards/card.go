// Package cards holds the card value shared by the crop, compositing and
// print engines, plus the naming rules for labels and downloads.
package cards

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/card-generator/internal/imageio"
)

// ErrNotFound is returned when a card does not exist.
var ErrNotFound = errors.New("card not found")

// Card is one uploaded image and its label. Original never changes after
// upload; Cropped and Label are replaced wholesale on every edit.
type Card struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	Label     string    `json:"label"`
	FileName  string    `json:"file_name"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Original  []byte    `json:"-"`
	Cropped   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard builds a card from an uploaded file. The label defaults to a
// cleaned up file name and the cropped image starts as the original.
func NewCard(fileName string, data []byte) (Card, error) {
	w, h, err := imageio.DecodeSize(data)
	if err != nil {
		return Card{}, fmt.Errorf("reading %s: %w", fileName, err)
	}
	now := time.Now()
	return Card{
		ID:        uuid.New().String(),
		Label:     LabelFromFileName(fileName),
		FileName:  fileName,
		Width:     w,
		Height:    h,
		Original:  data,
		Cropped:   data,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Image returns the bytes used for rendering.
func (c Card) Image() []byte {
	if len(c.Cropped) > 0 {
		return c.Cropped
	}
	return c.Original
}

// IsCropped reports whether a crop replaced the original image.
func (c Card) IsCropped() bool {
	return len(c.Cropped) > 0 && !bytes.Equal(c.Cropped, c.Original)
}

// WithLabel returns a copy of the card carrying a new label.
func (c Card) WithLabel(label string) Card {
	c.Label = label
	c.UpdatedAt = time.Now()
	return c
}

// WithCrop returns a copy of the card whose rendered image is replaced.
func (c Card) WithCrop(png []byte) Card {
	c.Cropped = png
	c.UpdatedAt = time.Now()
	return c
}

// ErrEmptyCollection is returned by batch operations given no cards.
var ErrEmptyCollection = errors.New("no cards: add some images first")
