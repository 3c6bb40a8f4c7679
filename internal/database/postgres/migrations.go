package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLockKey serializes schema changes when several servers start
// against the same database.
const migrationLockKey = 0x63617264 // "card"

// migration is one card schema change, loaded from a file named
// NNN_name.sql. Versions are applied in numeric order.
type migration struct {
	version int
	name    string
	sql     string
}

func (m migration) String() string {
	return fmt.Sprintf("%03d_%s", m.version, m.name)
}

// loadMigrations reads every .sql file at the root of fsys.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing card migrations: %w", err)
	}

	var list []migration
	seen := make(map[int]string)
	for _, file := range files {
		prefix, name, ok := strings.Cut(strings.TrimSuffix(path.Base(file), ".sql"), "_")
		version, err := strconv.Atoi(prefix)
		if !ok || name == "" || err != nil || version <= 0 {
			return nil, fmt.Errorf("card migration %s: file name must look like 001_name.sql", file)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("card migrations %s and %s share version %d", other, file, version)
		}
		seen[version] = file

		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading card migration %s: %w", file, err)
		}
		list = append(list, migration{version: version, name: name, sql: string(content)})
	}

	slices.SortFunc(list, func(a, b migration) int { return a.version - b.version })
	return list, nil
}

// Migrate brings the card schema up to date. Each migration runs in its own
// transaction holding an advisory lock, and is skipped when another process
// applied it first.
func (p *Pool) Migrate(ctx context.Context) error {
	root, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening card migrations: %w", err)
	}
	list, err := loadMigrations(root)
	if err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS card_schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("creating card_schema_migrations: %w", err)
	}

	for _, m := range list {
		applied, err := p.apply(ctx, m)
		if err != nil {
			return fmt.Errorf("card migration %s: %w", m, err)
		}
		if applied {
			log.Printf("Applied card schema migration %s", m)
		}
	}
	return nil
}

func (p *Pool) apply(ctx context.Context, m migration) (bool, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockKey); err != nil {
		return false, fmt.Errorf("lock: %w", err)
	}

	var done bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM card_schema_migrations WHERE version = $1)`, m.version,
	).Scan(&done); err != nil {
		return false, fmt.Errorf("check: %w", err)
	}
	if done {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return false, fmt.Errorf("execute: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO card_schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name,
	); err != nil {
		return false, fmt.Errorf("record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// SchemaVersion returns the highest applied card migration, or 0 on a fresh
// database.
func (p *Pool) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM card_schema_migrations`,
	).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading card schema version: %w", err)
	}
	return v, nil
}
