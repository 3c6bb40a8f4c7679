package cards

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned for a variant name other than control, picture or label.
var ErrUnknownVariant = errors.New("unknown card variant")

// Variant is one of the three printable renditions of a card.
type Variant string

const (
	VariantControl Variant = "control" // image with label
	VariantPicture Variant = "picture" // image only
	VariantLabel   Variant = "label"   // label only
)

// Variants lists every variant in output order.
func Variants() []Variant {
	return []Variant{VariantControl, VariantPicture, VariantLabel}
}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantControl, VariantPicture, VariantLabel:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// HasImage reports whether the variant shows the card image.
func (v Variant) HasImage() bool {
	return v == VariantControl || v == VariantPicture
}

// HasLabel reports whether the variant shows the label text.
func (v Variant) HasLabel() bool {
	return v == VariantControl || v == VariantLabel
}
