package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/database"
)

const cardColumns = `id, position, label, file_name, width, height, original, cropped, created_at, updated_at`

// CardRepository provides MariaDB-backed card storage
type CardRepository struct {
	pool *Pool
}

// NewCardRepository creates a new MariaDB card repository
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

func getCard(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id string) (*cards.Card, error) {
	c, err := scanCard(q.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

// GetCard retrieves a card by ID
func (r *CardRepository) GetCard(ctx context.Context, id string) (*cards.Card, error) {
	return getCard(ctx, r.pool.db, id)
}

// ListCards returns all cards ordered by position
func (r *CardRepository) ListCards(ctx context.Context) ([]cards.Card, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY position, created_at`)
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
	if err := r.pool.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// SaveCard inserts a card at the end of the collection or updates its label and crop
func (r *CardRepository) SaveCard(ctx context.Context, card *cards.Card) error {
	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM cards`).Scan(&next); err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	// MySQL RowsAffected is 0 for unchanged rows, so the upsert is not checked.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			label = VALUES(label),
			cropped = VALUES(cropped),
			updated_at = VALUES(updated_at)
	`, card.ID, next, card.Label, card.FileName, card.Width, card.Height,
		card.Original, card.Cropped, card.CreatedAt.UTC(), now)
	if err != nil {
		return fmt.Errorf("save card: %w", err)
	}

	saved, err := getCard(ctx, tx, card.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	*card = *saved
	return nil
}

// UpdateLabel replaces the label of a card
func (r *CardRepository) UpdateLabel(ctx context.Context, id, label string) (*cards.Card, error) {
	return r.update(ctx, id, `UPDATE cards SET label = ?, updated_at = ? WHERE id = ?`, label)
}

// UpdateCropped replaces the cropped image of a card
func (r *CardRepository) UpdateCropped(ctx context.Context, id string, data []byte) (*cards.Card, error) {
	return r.update(ctx, id, `UPDATE cards SET cropped = ?, updated_at = ? WHERE id = ?`, data)
}

func (r *CardRepository) update(ctx context.Context, id, query string, value any) (*cards.Card, error) {
	// Verify the card exists first (MySQL RowsAffected returns 0 when data is unchanged)
	if _, err := r.GetCard(ctx, id); err != nil {
		return nil, err
	}
	if _, err := r.pool.db.ExecContext(ctx, query, value, time.Now().UTC(), id); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return r.GetCard(ctx, id)
}

// DeleteCard removes a card and shifts the following cards up
func (r *CardRepository) DeleteCard(ctx context.Context, id string) error {
	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	c, err := getCard(ctx, tx, id)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE cards SET position = position - 1 WHERE position > ?`, c.Position); err != nil {
		return fmt.Errorf("renumber cards: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// ReorderCards assigns positions following the given ID order
func (r *CardRepository) ReorderCards(ctx context.Context, ids []string) error {
	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx, `SELECT id FROM cards FOR UPDATE`)
	if err != nil {
		return fmt.Errorf("load card IDs: %w", err)
	}
	var current []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan card ID: %w", err)
		}
		current = append(current, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate card IDs: %w", err)
	}
	if err := database.ValidateOrder(current, ids); err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET position = ?, updated_at = ? WHERE id = ?`, i, now, id); err != nil {
			return fmt.Errorf("reorder card %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}
