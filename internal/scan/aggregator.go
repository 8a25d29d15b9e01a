package scan

import (
	"context"
	"errors"
	"sync"

	"liquitrace/internal/adapters"
	"liquitrace/internal/domain"
	"liquitrace/internal/observability"

	"github.com/sirupsen/logrus"
)

// MaxBoostedLookup caps how many boosted token addresses are resolved per run.
const MaxBoostedLookup = 30

type SourceSets struct {
	Boosted  []domain.CandidatePair
	Searched []domain.CandidatePair
	Trending []domain.CandidatePair
}

type Aggregator struct {
	screener      adapters.PairScreener
	trending      adapters.TrendingPoolsClient
	chainID       string
	searchQueries []string
	metrics       *observability.Metrics
}

func NewAggregator(screener adapters.PairScreener, trending adapters.TrendingPoolsClient, chainID string, searchQueries []string, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		screener:      screener,
		trending:      trending,
		chainID:       chainID,
		searchQueries: searchQueries,
		metrics:       metrics,
	}
}

// Collect runs the three fetchers concurrently. A failing fetcher contributes an empty set.
func (a *Aggregator) Collect(ctx context.Context, log *logrus.Entry) SourceSets {
	var sets SourceSets
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		sets.Boosted = a.report(log, domain.SourceBoosted, a.fetchBoosted)(ctx)
	}()
	go func() {
		defer wg.Done()
		sets.Searched = a.report(log, domain.SourceSearched, a.fetchSearched)(ctx)
	}()
	go func() {
		defer wg.Done()
		sets.Trending = a.report(log, domain.SourceTrending, a.fetchTrending)(ctx)
	}()

	wg.Wait()
	return sets
}

type fetchFunc func(ctx context.Context, log *logrus.Entry) ([]domain.CandidatePair, error)

func (a *Aggregator) report(log *logrus.Entry, source domain.Source, fetch fetchFunc) func(context.Context) []domain.CandidatePair {
	return func(ctx context.Context) []domain.CandidatePair {
		sourceLog := log.WithField("source", source)
		pairs, err := fetch(ctx, sourceLog)
		if err != nil {
			sourceLog.WithError(err).Warn("source fetch failed")
		}
		a.metrics.RecordSource(string(source), len(pairs), err)
		sourceLog.Debugf("%d pairs collected", len(pairs))
		return pairs
	}
}

func (a *Aggregator) fetchBoosted(ctx context.Context, _ *logrus.Entry) ([]domain.CandidatePair, error) {
	boosted, err := a.screener.GetBoostedTokens(ctx)
	if err != nil {
		return nil, err
	}

	addresses := make([]string, 0, MaxBoostedLookup)
	for _, b := range boosted {
		if b.ChainID != a.chainID || b.TokenAddress == "" {
			continue
		}
		addresses = append(addresses, b.TokenAddress)
		if len(addresses) == MaxBoostedLookup {
			break
		}
	}
	if len(addresses) == 0 {
		return nil, nil
	}

	pairs, err := a.screener.GetTokenPairs(ctx, addresses)
	if err != nil {
		return nil, err
	}
	return keepChain(pairs, a.chainID, domain.SourceBoosted), nil
}

// fetchSearched runs the search terms one after another; a failed term is skipped.
func (a *Aggregator) fetchSearched(ctx context.Context, log *logrus.Entry) ([]domain.CandidatePair, error) {
	seen := make(map[string]struct{})
	var out []domain.CandidatePair
	var errs []error

	for _, query := range a.searchQueries {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		pairs, err := a.screener.SearchPairs(ctx, query)
		if err != nil {
			log.WithError(err).WithField("query", query).Warn("search query failed")
			errs = append(errs, err)
			continue
		}
		for _, p := range keepChain(pairs, a.chainID, domain.SourceSearched) {
			if _, ok := seen[p.PairAddress]; ok {
				continue
			}
			seen[p.PairAddress] = struct{}{}
			out = append(out, p)
		}
	}

	// only report the source as failed when nothing came back
	if len(out) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (a *Aggregator) fetchTrending(ctx context.Context, _ *logrus.Entry) ([]domain.CandidatePair, error) {
	pairs, err := a.trending.GetTrendingPools(ctx)
	if err != nil {
		return nil, err
	}
	return keepChain(pairs, a.chainID, domain.SourceTrending), nil
}

func keepChain(pairs []domain.CandidatePair, chainID string, source domain.Source) []domain.CandidatePair {
	out := make([]domain.CandidatePair, 0, len(pairs))
	for _, p := range pairs {
		if p.ChainID != chainID {
			continue
		}
		p.Source = source
		out = append(out, p)
	}
	return out
}
