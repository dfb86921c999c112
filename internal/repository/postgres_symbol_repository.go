package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"scanner-backend/internal/domain"
)

// PostgresSymbolRepository reads the universe from the symbols table.
type PostgresSymbolRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSymbolRepository(pool *pgxpool.Pool) *PostgresSymbolRepository {
	return &PostgresSymbolRepository{pool: pool}
}

func (r *PostgresSymbolRepository) LoadUniverse(ctx context.Context) ([]domain.StockSymbol, error) {
	rows, err := r.pool.Query(ctx,
		`select symbol, name, sector from symbols where active order by symbol`)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSymbolSourceUnavailable, "query symbols: %v", err)
	}
	defer rows.Close()

	var symbols []domain.StockSymbol
	for rows.Next() {
		var s domain.StockSymbol
		if err := rows.Scan(&s.Symbol, &s.Name, &s.Sector); err != nil {
			return nil, errors.Wrapf(domain.ErrSymbolSourceUnavailable, "scan symbol row: %v", err)
		}
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(domain.ErrSymbolSourceUnavailable, "read symbol rows: %v", err)
	}
	if len(symbols) == 0 {
		return nil, errors.Wrap(domain.ErrSymbolSourceUnavailable, "symbols table is empty")
	}
	return symbols, nil
}
