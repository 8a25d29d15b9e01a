package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"liquitrace/internal/adapters/postgres"
	"liquitrace/internal/domain"
	"liquitrace/internal/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, db.Migrate(ctx, pool))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `truncate table signals, notification_subscribers restart identity`); err != nil {
		return err
	}
	return nil
}

func sampleSignal(address string, change float64) domain.Signal {
	return domain.Signal{
		TokenAddress:   address,
		PairAddress:    "0xpair-" + address,
		LiquidityUSD:   12000,
		InitialPrice:   0.0042,
		SwapLink:       "https://matcha.xyz/trade?chain=base&buyToken=" + address,
		TokenName:      "Alpha (ALP)",
		TokenSummary:   "Alpha is moving.",
		PriceChangePct: change,
		Volume24h:      55000,
		MarketCap:      1_000_000,
		DexURL:         "https://dexscreener.com/base/" + address,
		UpdatedAt:      time.Now().UTC(),
	}
}

func countSignals(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `select count(*) from signals`).Scan(&n))
	return n
}

// ---------- SignalRepository tests ----------

func TestSignalRepository_Upsert_InsertsNewRow(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)
	ctx := context.Background()

	sig := sampleSignal("0xa", 42.5)
	res, err := repo.Upsert(ctx, sig)
	require.NoError(t, err)
	require.True(t, res.Inserted)
	require.WithinDuration(t, sig.UpdatedAt, res.UpdatedAt, time.Millisecond)

	var got domain.Signal
	err = pool.QueryRow(ctx, `
		select token_address, pair_address, liquidity_eth, initial_price, swap_link, token_name,
		       token_summary, price_change_pct, volume_24h, market_cap, dex_url
		from signals where token_address = $1`, "0xa").Scan(
		&got.TokenAddress, &got.PairAddress, &got.LiquidityUSD, &got.InitialPrice, &got.SwapLink, &got.TokenName,
		&got.TokenSummary, &got.PriceChangePct, &got.Volume24h, &got.MarketCap, &got.DexURL,
	)
	require.NoError(t, err)
	sig.UpdatedAt = time.Time{}
	require.Equal(t, sig, got)
}

func TestSignalRepository_Upsert_IsIdempotentPerKey(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)
	ctx := context.Background()

	sig := sampleSignal("0xa", 10)
	first, err := repo.Upsert(ctx, sig)
	require.NoError(t, err)

	// Same payload and same timestamp: still one row, timestamp strictly increases.
	second, err := repo.Upsert(ctx, sig)
	require.NoError(t, err)

	require.True(t, first.Inserted)
	require.False(t, second.Inserted)
	require.True(t, second.UpdatedAt.After(first.UpdatedAt))
	require.Equal(t, 1, countSignals(t, pool))
}

func TestSignalRepository_Upsert_OverwritesEveryColumn(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, sampleSignal("0xa", 10))
	require.NoError(t, err)

	updated := domain.Signal{
		TokenAddress:   "0xa",
		PairAddress:    "0xnewpair",
		LiquidityUSD:   3000,
		InitialPrice:   1.5,
		SwapLink:       "link",
		TokenName:      "Renamed (REN)",
		TokenSummary:   "",
		PriceChangePct: -3,
		Volume24h:      1000,
		MarketCap:      0,
		DexURL:         "url",
		UpdatedAt:      time.Now().UTC().Add(time.Minute),
	}
	res, err := repo.Upsert(ctx, updated)
	require.NoError(t, err)
	require.False(t, res.Inserted)
	require.WithinDuration(t, updated.UpdatedAt, res.UpdatedAt, time.Millisecond)

	var pair, name, summary string
	var change float64
	err = pool.QueryRow(ctx, `select pair_address, token_name, token_summary, price_change_pct from signals where token_address = '0xa'`).
		Scan(&pair, &name, &summary, &change)
	require.NoError(t, err)
	require.Equal(t, "0xnewpair", pair)
	require.Equal(t, "Renamed (REN)", name)
	require.Empty(t, summary)
	require.Equal(t, -3.0, change)
}

func TestSignalRepository_Upsert_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Upsert(ctx, sampleSignal("0xa", 1))
	require.Error(t, err)
	require.Contains(t, err.Error(), `"0xa"`)
}

func TestSignalRepository_DeleteOlderThan_KeepsCurrentRun(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)
	ctx := context.Background()

	runStart := time.Now().UTC()
	retention := 48 * time.Hour

	stale := sampleSignal("0xstale", 5)
	stale.UpdatedAt = runStart.Add(-retention - time.Hour)
	edge := sampleSignal("0xedge", 5)
	edge.UpdatedAt = runStart.Add(-retention + time.Minute)
	fresh := sampleSignal("0xfresh", 5)
	fresh.UpdatedAt = runStart

	for _, s := range []domain.Signal{stale, edge, fresh} {
		_, err := repo.Upsert(ctx, s)
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, runStart.Add(-retention))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	rows, err := pool.Query(ctx, `select token_address from signals order by token_address`)
	require.NoError(t, err)
	defer rows.Close()
	var left []string
	for rows.Next() {
		var addr string
		require.NoError(t, rows.Scan(&addr))
		left = append(left, addr)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{"0xedge", "0xfresh"}, left)
}

func TestSignalRepository_DeleteOlderThan_EmptyTable(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)

	deleted, err := repo.DeleteOlderThan(context.Background(), time.Now())
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestSignalRepository_DeleteOlderThan_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSignalRepository(pool)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.DeleteOlderThan(ctx, time.Now())
	require.Error(t, err)
}

// ---------- SubscriberRepository tests ----------

func insertSubscriber(t *testing.T, pool *pgxpool.Pool, fid int64, token, url string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`insert into notification_subscribers(fid, token, notification_url) values ($1, $2, $3)`, fid, token, url)
	require.NoError(t, err)
}

func TestSubscriberRepository_ListAll(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSubscriberRepository(pool)

	insertSubscriber(t, pool, 1, "tokA", "https://push.one/notify")
	insertSubscriber(t, pool, 2, "tokB", "https://push.two/notify")

	subs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Subscriber{
		{FID: 1, Token: "tokA", NotificationURL: "https://push.one/notify"},
		{FID: 2, Token: "tokB", NotificationURL: "https://push.two/notify"},
	}, subs)
}

func TestSubscriberRepository_ListAll_Empty(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSubscriberRepository(pool)

	subs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, subs)
}

func TestSubscriberRepository_DeleteByTokens_RemovesAcrossFids(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSubscriberRepository(pool)
	ctx := context.Background()

	insertSubscriber(t, pool, 1, "tokA", "https://push.one/notify")
	insertSubscriber(t, pool, 2, "tokA", "https://push.two/notify")
	insertSubscriber(t, pool, 3, "tokB", "https://push.one/notify")

	deleted, err := repo.DeleteByTokens(ctx, []string{"tokA"})
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	subs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "tokB", subs[0].Token)
}

func TestSubscriberRepository_DeleteByTokens_EmptyNoop(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSubscriberRepository(pool)

	deleted, err := repo.DeleteByTokens(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestSubscriberRepository_ListAll_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewSubscriberRepository(pool)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListAll(ctx)
	require.Error(t, err)
}
