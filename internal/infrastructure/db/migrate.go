package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the symbols table the universe source reads from.
// Kept inline (no external migration tool) since the schema is one table.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists symbols (
			symbol text primary key,
			name text not null default '',
			sector text not null default 'Unknown',
			active boolean not null default true,
			updated_at timestamptz not null default now()
		);`,
		`create index if not exists symbols_active_idx on symbols(active);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
