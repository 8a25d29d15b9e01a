package adapters

import (
	"context"
	"liquitrace/internal/domain"
	"time"
)

type PairScreener interface {
	GetBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error)
	GetTokenPairs(ctx context.Context, addresses []string) ([]domain.CandidatePair, error)
	SearchPairs(ctx context.Context, query string) ([]domain.CandidatePair, error)
}

type TrendingPoolsClient interface {
	GetTrendingPools(ctx context.Context) ([]domain.CandidatePair, error)
}

type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, req domain.SummaryRequest) (string, error)
}

type SummaryCache interface {
	Get(tokenAddress string) (string, bool)
	Set(tokenAddress string, summary string)
}

type SignalRepository interface {
	Upsert(ctx context.Context, signal domain.Signal) (domain.UpsertResult, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SubscriberRepository interface {
	ListAll(ctx context.Context) ([]domain.Subscriber, error)
	DeleteByTokens(ctx context.Context, tokens []string) (int64, error)
}

type NotificationSender interface {
	Send(ctx context.Context, endpoint string, req domain.NotificationRequest) (domain.DeliveryResult, error)
}
