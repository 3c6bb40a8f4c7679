// Package memory is the in-process card store. It is the default backend and
// supports error injection for handler tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/database"
)

// Store keeps cards in memory. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	cards map[string]*cards.Card
	order []string

	// Error injection
	GetError     error
	ListError    error
	SaveError    error
	UpdateError  error
	DeleteError  error
	ReorderError error
}

// New creates an empty store.
func New() *Store {
	return &Store{cards: make(map[string]*cards.Card)}
}

// GetCard returns a copy of the card.
func (s *Store) GetCard(ctx context.Context, id string) (*cards.Card, error) {
	if s.GetError != nil {
		return nil, s.GetError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, database.NotFound(id)
	}
	cp := *c
	return &cp, nil
}

// ListCards returns the cards ordered by position.
func (s *Store) ListCards(ctx context.Context) ([]cards.Card, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]cards.Card, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, *s.cards[id])
	}
	return list, nil
}

// CountCards returns the number of cards.
func (s *Store) CountCards(ctx context.Context) (int, error) {
	if s.ListError != nil {
		return 0, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// SaveCard appends a new card or updates an existing one.
func (s *Store) SaveCard(ctx context.Context, card *cards.Card) error {
	if s.SaveError != nil {
		return s.SaveError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cards[card.ID]; ok {
		existing.Label = card.Label
		existing.Cropped = card.Cropped
		existing.UpdatedAt = time.Now()
		*card = *existing
		return nil
	}

	cp := *card
	cp.Position = len(s.order)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = cp.CreatedAt
	s.cards[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
	*card = cp
	return nil
}

// UpdateLabel replaces the label of a card.
func (s *Store) UpdateLabel(ctx context.Context, id, label string) (*cards.Card, error) {
	return s.update(id, func(c *cards.Card) { *c = c.WithLabel(label) })
}

// UpdateCropped replaces the cropped image of a card.
func (s *Store) UpdateCropped(ctx context.Context, id string, data []byte) (*cards.Card, error) {
	return s.update(id, func(c *cards.Card) { *c = c.WithCrop(data) })
}

func (s *Store) update(id string, fn func(*cards.Card)) (*cards.Card, error) {
	if s.UpdateError != nil {
		return nil, s.UpdateError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, database.NotFound(id)
	}
	fn(c)
	cp := *c
	return &cp, nil
}

// DeleteCard removes a card and renumbers the rest.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	if s.DeleteError != nil {
		return s.DeleteError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return database.NotFound(id)
	}
	delete(s.cards, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.renumber()
	return nil
}

// ReorderCards sets the collection order.
func (s *Store) ReorderCards(ctx context.Context, ids []string) error {
	if s.ReorderError != nil {
		return s.ReorderError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := database.ValidateOrder(s.order, ids); err != nil {
		return err
	}
	s.order = slices.Clone(ids)
	s.renumber()
	return nil
}

func (s *Store) renumber() {
	for i, id := range s.order {
		s.cards[id].Position = i
	}
}
