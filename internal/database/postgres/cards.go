package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/database"
)

const cardColumns = `id, position, label, file_name, width, height, original, cropped, created_at, updated_at`

// CardRepository provides PostgreSQL-backed card storage
type CardRepository struct {
	pool *Pool
}

// NewCardRepository creates a new PostgreSQL card repository
func NewCardRepository(pool *Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*cards.Card, error) {
	var c cards.Card
	err := row.Scan(&c.ID, &c.Position, &c.Label, &c.FileName, &c.Width, &c.Height,
		&c.Original, &c.Cropped, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCard retrieves a card by ID
func (r *CardRepository) GetCard(ctx context.Context, id string) (*cards.Card, error) {
	c, err := scanCard(r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

// ListCards returns all cards ordered by position
func (r *CardRepository) ListCards(ctx context.Context) ([]cards.Card, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var list []cards.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return list, nil
}

// CountCards returns the number of cards
func (r *CardRepository) CountCards(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// SaveCard inserts a card at the end of the collection or updates its label and crop
func (r *CardRepository) SaveCard(ctx context.Context, card *cards.Card) error {
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO cards (id, position, label, file_name, width, height, original, cropped, created_at, updated_at)
		VALUES ($1, (SELECT COALESCE(MAX(position) + 1, 0) FROM cards), $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			cropped = EXCLUDED.cropped,
			updated_at = NOW()
		RETURNING ` + cardColumns

	saved, err := scanCard(r.pool.QueryRow(ctx, query,
		card.ID, card.Label, card.FileName, card.Width, card.Height, card.Original, card.Cropped, card.CreatedAt))
	if err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	*card = *saved
	return nil
}

// UpdateLabel replaces the label of a card
func (r *CardRepository) UpdateLabel(ctx context.Context, id, label string) (*cards.Card, error) {
	return r.update(ctx, id, `UPDATE cards SET label = $2, updated_at = NOW() WHERE id = $1 RETURNING `+cardColumns, label)
}

// UpdateCropped replaces the cropped image of a card
func (r *CardRepository) UpdateCropped(ctx context.Context, id string, data []byte) (*cards.Card, error) {
	return r.update(ctx, id, `UPDATE cards SET cropped = $2, updated_at = NOW() WHERE id = $1 RETURNING `+cardColumns, data)
}

func (r *CardRepository) update(ctx context.Context, id, query string, value any) (*cards.Card, error) {
	c, err := scanCard(r.pool.QueryRow(ctx, query, id, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return c, nil
}

// DeleteCard removes a card and shifts the following cards up
func (r *CardRepository) DeleteCard(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var position int
	err = tx.QueryRowContext(ctx, `DELETE FROM cards WHERE id = $1 RETURNING position`, id).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return database.NotFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE cards SET position = position - 1 WHERE position > $1`, position); err != nil {
		return fmt.Errorf("renumber cards: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// ReorderCards assigns positions following the given ID order
func (r *CardRepository) ReorderCards(ctx context.Context, ids []string) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var current []string
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(array_agg(id), '{}') FROM cards`).Scan(pq.Array(&current)); err != nil {
		return fmt.Errorf("load card IDs: %w", err)
	}
	if err := database.ValidateOrder(current, ids); err != nil {
		return err
	}

	query := `
		UPDATE cards SET position = o.ord - 1, updated_at = NOW()
		FROM unnest($1::text[]) WITH ORDINALITY AS o(id, ord)
		WHERE cards.id = o.id
	`
	if _, err := tx.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("reorder cards: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}
