package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/database"
	"github.com/kozaktomas/card-generator/internal/database/mariadb"
	"github.com/kozaktomas/card-generator/internal/database/memory"
	"github.com/kozaktomas/card-generator/internal/database/postgres"
)

// openStore selects the card backend: PostgreSQL when DATABASE_URL is set,
// MariaDB when MARIADB_DSN is set, otherwise an in-memory store. The returned
// function releases the connection pool.
func openStore(ctx context.Context, cfg *config.Config) (database.CardStore, func(), error) {
	switch {
	case cfg.Database.URL != "":
		fmt.Printf("Connecting to PostgreSQL database...\n")
		pool, err := postgres.Open(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		fmt.Printf("Using PostgreSQL backend\n")
		return postgres.NewCardRepository(pool), func() { pool.Close() }, nil

	case cfg.MariaDB.DSN != "":
		fmt.Printf("Connecting to MariaDB database...\n")
		pool, err := mariadb.Open(ctx, cfg.MariaDB.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MariaDB: %w", err)
		}
		fmt.Printf("Using MariaDB backend\n")
		return mariadb.NewCardRepository(pool), func() { pool.Close() }, nil
	}

	fmt.Printf("Using in-memory backend (cards are lost on restart)\n")
	return memory.New(), func() {}, nil
}
