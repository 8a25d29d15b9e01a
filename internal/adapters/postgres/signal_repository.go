package postgres

import (
	"context"
	"fmt"
	"time"

	"liquitrace/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SignalRepository struct {
	pool *pgxpool.Pool
}

func NewSignalRepository(pool *pgxpool.Pool) *SignalRepository {
	return &SignalRepository{pool: pool}
}

// Upsert writes the signal keyed by token address, overwriting every column.
// The stored updated_at is bumped past the previous value so it strictly increases per key.
func (r *SignalRepository) Upsert(ctx context.Context, signal domain.Signal) (domain.UpsertResult, error) {
	const q = `
		insert into signals as s (
			token_address, pair_address, liquidity_eth, initial_price, swap_link, token_name,
			token_summary, price_change_pct, volume_24h, market_cap, dex_url, updated_at
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		on conflict (token_address) do update set
			pair_address     = excluded.pair_address,
			liquidity_eth    = excluded.liquidity_eth,
			initial_price    = excluded.initial_price,
			swap_link        = excluded.swap_link,
			token_name       = excluded.token_name,
			token_summary    = excluded.token_summary,
			price_change_pct = excluded.price_change_pct,
			volume_24h       = excluded.volume_24h,
			market_cap       = excluded.market_cap,
			dex_url          = excluded.dex_url,
			updated_at       = greatest(excluded.updated_at, s.updated_at + interval '1 microsecond')
		returning (xmax = 0) as inserted, updated_at;
	`

	updatedAt := signal.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	var res domain.UpsertResult
	if err := r.pool.QueryRow(ctx, q,
		signal.TokenAddress,
		signal.PairAddress,
		signal.LiquidityUSD,
		signal.InitialPrice,
		signal.SwapLink,
		signal.TokenName,
		signal.TokenSummary,
		signal.PriceChangePct,
		signal.Volume24h,
		signal.MarketCap,
		signal.DexURL,
		updatedAt,
	).Scan(&res.Inserted, &res.UpdatedAt); err != nil {
		return domain.UpsertResult{}, fmt.Errorf("failed to upsert signal %q: %w", signal.TokenAddress, err)
	}
	return res, nil
}

func (r *SignalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `delete from signals where updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete signals older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}
