// Package database defines the card store and the checks shared by its
// backends. Backends live in the memory, postgres and mariadb packages.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/card-generator/internal/cards"
)

// ErrInvalidOrder is returned when a reorder request does not name every
// stored card exactly once.
var ErrInvalidOrder = errors.New("order must list every card exactly once")

// CardReader provides read-only access to the card collection
type CardReader interface {
	// GetCard returns a card by ID, or an error wrapping cards.ErrNotFound
	GetCard(ctx context.Context, id string) (*cards.Card, error)
	// ListCards returns every card ordered by position
	ListCards(ctx context.Context) ([]cards.Card, error)
	// CountCards returns the number of stored cards
	CountCards(ctx context.Context) (int, error)
}

// CardWriter provides write access to the card collection
type CardWriter interface {
	// SaveCard inserts a card at the end of the collection, or replaces the
	// label and cropped image of an existing card with the same ID
	SaveCard(ctx context.Context, card *cards.Card) error
	// UpdateLabel replaces the label of a card
	UpdateLabel(ctx context.Context, id, label string) (*cards.Card, error)
	// UpdateCropped replaces the rendered image of a card. The original is kept.
	UpdateCropped(ctx context.Context, id string, data []byte) (*cards.Card, error)
	// DeleteCard removes a card and closes the gap in positions
	DeleteCard(ctx context.Context, id string) error
	// ReorderCards assigns positions 0..n-1 in the given ID order
	ReorderCards(ctx context.Context, ids []string) error
}

// CardStore is a complete card backend.
type CardStore interface {
	CardReader
	CardWriter
}

// ValidateOrder checks that ids is a permutation of current.
func ValidateOrder(current, ids []string) error {
	if len(current) != len(ids) {
		return fmt.Errorf("%w: got %d IDs for %d cards", ErrInvalidOrder, len(ids), len(current))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: unknown or repeated ID %s", ErrInvalidOrder, id)
		}
		delete(known, id)
	}
	return nil
}

// NotFound wraps cards.ErrNotFound with the missing ID.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", cards.ErrNotFound, id)
}
