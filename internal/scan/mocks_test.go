package scan

import (
	"context"
	"sync"
	"time"

	"liquitrace/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockPairScreener struct{ mock.Mock }

func (m *MockPairScreener) GetBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error) {
	args := m.Called(ctx)
	tokens, _ := args.Get(0).([]domain.BoostedToken)
	return tokens, args.Error(1)
}

func (m *MockPairScreener) GetTokenPairs(ctx context.Context, addresses []string) ([]domain.CandidatePair, error) {
	args := m.Called(ctx, addresses)
	pairs, _ := args.Get(0).([]domain.CandidatePair)
	return pairs, args.Error(1)
}

func (m *MockPairScreener) SearchPairs(ctx context.Context, query string) ([]domain.CandidatePair, error) {
	args := m.Called(ctx, query)
	pairs, _ := args.Get(0).([]domain.CandidatePair)
	return pairs, args.Error(1)
}

type MockTrendingClient struct{ mock.Mock }

func (m *MockTrendingClient) GetTrendingPools(ctx context.Context) ([]domain.CandidatePair, error) {
	args := m.Called(ctx)
	pairs, _ := args.Get(0).([]domain.CandidatePair)
	return pairs, args.Error(1)
}

type MockSummaryGenerator struct{ mock.Mock }

func (m *MockSummaryGenerator) GenerateSummary(ctx context.Context, req domain.SummaryRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockSignalRepository struct{ mock.Mock }

func (m *MockSignalRepository) Upsert(ctx context.Context, signal domain.Signal) (domain.UpsertResult, error) {
	args := m.Called(ctx, signal)
	res, _ := args.Get(0).(domain.UpsertResult)
	return res, args.Error(1)
}

func (m *MockSignalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

type MockSubscriberRepository struct{ mock.Mock }

func (m *MockSubscriberRepository) ListAll(ctx context.Context) ([]domain.Subscriber, error) {
	args := m.Called(ctx)
	subs, _ := args.Get(0).([]domain.Subscriber)
	return subs, args.Error(1)
}

func (m *MockSubscriberRepository) DeleteByTokens(ctx context.Context, tokens []string) (int64, error) {
	args := m.Called(ctx, tokens)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

type MockNotificationSender struct{ mock.Mock }

func (m *MockNotificationSender) Send(ctx context.Context, endpoint string, req domain.NotificationRequest) (domain.DeliveryResult, error) {
	args := m.Called(ctx, endpoint, req)
	res, _ := args.Get(0).(domain.DeliveryResult)
	return res, args.Error(1)
}

type mapSummaryCache struct {
	mu sync.Mutex
	m  map[string]string
}

func newMapSummaryCache() *mapSummaryCache {
	return &mapSummaryCache{m: make(map[string]string)}
}

func (c *mapSummaryCache) Get(tokenAddress string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[tokenAddress]
	return s, ok
}

func (c *mapSummaryCache) Set(tokenAddress string, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[tokenAddress] = summary
}

func pairFor(address, name string, liquidity, volume, change float64) domain.CandidatePair {
	return domain.CandidatePair{
		ChainID:           "base",
		PairAddress:       "pair-" + address,
		BaseToken:         domain.Token{Address: address, Name: name, Symbol: name},
		PriceUSD:          0.01,
		LiquidityUSD:      liquidity,
		Volume24h:         volume,
		PriceChangePct24h: change,
		MarketCapUSD:      100000,
		URL:               "https://dexscreener.com/base/" + address,
	}
}
