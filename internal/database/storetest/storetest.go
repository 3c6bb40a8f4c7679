// Package storetest is the behaviour every card store must share. Backend
// tests call Run with a constructor returning an empty store.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/database"
)

func newCard(i int) *cards.Card {
	data := []byte(fmt.Sprintf("original-%d", i))
	return &cards.Card{
		ID:       fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
		Label:    fmt.Sprintf("card %d", i),
		FileName: fmt.Sprintf("card-%d.png", i),
		Width:    100 + i,
		Height:   50 + i,
		Original: data,
		Cropped:  data,
	}
}

func ids(list []cards.Card) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

// Run exercises a store created by newStore.
func Run(t *testing.T, newStore func(t *testing.T) database.CardStore) {
	ctx := context.Background()

	t.Run("SaveAndGet", func(t *testing.T) {
		s := newStore(t)
		c := newCard(1)
		if err := s.SaveCard(ctx, c); err != nil {
			t.Fatalf("SaveCard failed: %v", err)
		}
		got, err := s.GetCard(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetCard failed: %v", err)
		}
		if got.Label != "card 1" || got.FileName != "card-1.png" || got.Width != 101 || got.Height != 51 {
			t.Errorf("unexpected card %+v", got)
		}
		if !bytes.Equal(got.Original, c.Original) || !bytes.Equal(got.Cropped, c.Cropped) {
			t.Error("image data not round tripped")
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetCard(ctx, "missing"); !errors.Is(err, cards.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListByPosition", func(t *testing.T) {
		s := newStore(t)
		for i := range 3 {
			if err := s.SaveCard(ctx, newCard(i)); err != nil {
				t.Fatal(err)
			}
		}
		list, err := s.ListCards(ctx)
		if err != nil {
			t.Fatalf("ListCards failed: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 cards, got %d", len(list))
		}
		for i, c := range list {
			if c.Position != i || c.ID != newCard(i).ID {
				t.Errorf("slot %d holds %s at position %d", i, c.ID, c.Position)
			}
		}
		n, err := s.CountCards(ctx)
		if err != nil || n != 3 {
			t.Errorf("CountCards = %d, %v", n, err)
		}
	})

	t.Run("SaveExistingUpdates", func(t *testing.T) {
		s := newStore(t)
		c := newCard(1)
		if err := s.SaveCard(ctx, c); err != nil {
			t.Fatal(err)
		}
		c.Label = "renamed"
		if err := s.SaveCard(ctx, c); err != nil {
			t.Fatal(err)
		}
		n, _ := s.CountCards(ctx)
		got, _ := s.GetCard(ctx, c.ID)
		if n != 1 || got.Label != "renamed" {
			t.Errorf("expected one renamed card, got %d cards labelled %q", n, got.Label)
		}
	})

	t.Run("UpdateLabelAndCrop", func(t *testing.T) {
		s := newStore(t)
		c := newCard(1)
		if err := s.SaveCard(ctx, c); err != nil {
			t.Fatal(err)
		}
		got, err := s.UpdateLabel(ctx, c.ID, "apple")
		if err != nil || got.Label != "apple" {
			t.Fatalf("UpdateLabel = %+v, %v", got, err)
		}
		got, err = s.UpdateCropped(ctx, c.ID, []byte("cropped"))
		if err != nil {
			t.Fatalf("UpdateCropped failed: %v", err)
		}
		if string(got.Cropped) != "cropped" || !bytes.Equal(got.Original, c.Original) {
			t.Error("crop must replace the cropped image only")
		}
		if got.Label != "apple" {
			t.Errorf("crop lost the label: %q", got.Label)
		}
		if _, err := s.UpdateLabel(ctx, "missing", "x"); !errors.Is(err, cards.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := s.UpdateCropped(ctx, "missing", nil); !errors.Is(err, cards.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteRenumbers", func(t *testing.T) {
		s := newStore(t)
		for i := range 3 {
			if err := s.SaveCard(ctx, newCard(i)); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.DeleteCard(ctx, newCard(1).ID); err != nil {
			t.Fatalf("DeleteCard failed: %v", err)
		}
		list, _ := s.ListCards(ctx)
		if len(list) != 2 || list[0].Position != 0 || list[1].Position != 1 || list[1].ID != newCard(2).ID {
			t.Errorf("unexpected list after delete: %v", ids(list))
		}
		if err := s.DeleteCard(ctx, "missing"); !errors.Is(err, cards.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Reorder", func(t *testing.T) {
		s := newStore(t)
		for i := range 3 {
			if err := s.SaveCard(ctx, newCard(i)); err != nil {
				t.Fatal(err)
			}
		}
		order := []string{newCard(2).ID, newCard(0).ID, newCard(1).ID}
		if err := s.ReorderCards(ctx, order); err != nil {
			t.Fatalf("ReorderCards failed: %v", err)
		}
		list, _ := s.ListCards(ctx)
		if fmt.Sprint(ids(list)) != fmt.Sprint(order) {
			t.Errorf("order = %v, want %v", ids(list), order)
		}
		if err := s.ReorderCards(ctx, order[:2]); !errors.Is(err, database.ErrInvalidOrder) {
			t.Errorf("expected ErrInvalidOrder, got %v", err)
		}
	})
}
