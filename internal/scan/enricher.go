package scan

import (
	"context"
	"time"

	"liquitrace/internal/adapters"
	"liquitrace/internal/domain"
	"liquitrace/internal/observability"

	"github.com/sirupsen/logrus"
)

const defaultSummaryTimeout = 20 * time.Second

// Enricher produces the one-sentence summary of a ranked candidate. It never fails: any error
// from the generator results in an empty summary.
type Enricher struct {
	generator adapters.SummaryGenerator
	cache     adapters.SummaryCache
	timeout   time.Duration
	metrics   *observability.Metrics
}

// NewEnricher builds an enricher; cache may be nil.
func NewEnricher(generator adapters.SummaryGenerator, cache adapters.SummaryCache, timeout time.Duration, metrics *observability.Metrics) *Enricher {
	if timeout <= 0 {
		timeout = defaultSummaryTimeout
	}
	return &Enricher{generator: generator, cache: cache, timeout: timeout, metrics: metrics}
}

func (e *Enricher) Summarize(ctx context.Context, log *logrus.Entry, c RankedCandidate) string {
	address := c.Pair.BaseToken.Address
	if e.cache != nil {
		if summary, ok := e.cache.Get(address); ok {
			e.metrics.RecordSummary(true, nil)
			return summary
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	name, symbol := displayName(c.Pair.BaseToken)
	summary, err := e.generator.GenerateSummary(reqCtx, domain.SummaryRequest{
		Name:           name,
		Symbol:         symbol,
		PriceChangePct: c.Change,
		Volume24h:      c.Volume,
	})
	e.metrics.RecordSummary(false, err)
	if err != nil {
		log.WithError(err).WithField("token", address).Warnf("Summary for '%s' wasn't generated", name)
		return ""
	}

	if e.cache != nil && summary != "" {
		e.cache.Set(address, summary)
	}
	return summary
}
