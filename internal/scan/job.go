package scan

import (
	"context"
	"fmt"
	"time"

	"liquitrace/internal/adapters"
	"liquitrace/internal/domain"
	"liquitrace/internal/observability"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	NoGainersMessage = "No gainers found"
	DefaultRetention = 48 * time.Hour
)

// Deps are the collaborators of a scan run. SummaryCache and Metrics are optional.
type Deps struct {
	Screener     adapters.PairScreener
	Trending     adapters.TrendingPoolsClient
	Summaries    adapters.SummaryGenerator
	SummaryCache adapters.SummaryCache
	Signals      adapters.SignalRepository
	Subscribers  adapters.SubscriberRepository
	Sender       adapters.NotificationSender
	Metrics      *observability.Metrics
}

type Options struct {
	ChainID        string
	SearchQueries  []string
	Retention      time.Duration
	Workers        int
	SummaryTimeout time.Duration
	SwapBaseURL    string
	ReferralWallet string
	SwapFeeBps     int
	AppURL         string
}

type TopEntry struct {
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

// Result is the outcome of one run. Message is set only when no candidate passed the ranker.
type Result struct {
	ExecID    string
	Processed int
	Top       []TopEntry
	Notified  int
	Message   string
	Notify    NotifyReport
	Pruned    int64
}

type Job struct {
	deps       Deps
	opts       Options
	aggregator *Aggregator
	enricher   *Enricher
	builder    SignalBuilder
	notifier   *Notifier
	now        func() time.Time
}

func NewJob(deps Deps, opts Options) *Job {
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Job{
		deps:       deps,
		opts:       opts,
		aggregator: NewAggregator(deps.Screener, deps.Trending, opts.ChainID, opts.SearchQueries, deps.Metrics),
		enricher:   NewEnricher(deps.Summaries, deps.SummaryCache, opts.SummaryTimeout, deps.Metrics),
		builder: SignalBuilder{
			ChainID:        opts.ChainID,
			SwapBaseURL:    opts.SwapBaseURL,
			ReferralWallet: opts.ReferralWallet,
			SwapFeeBps:     opts.SwapFeeBps,
		},
		notifier: NewNotifier(deps.Subscribers, deps.Sender, opts.AppURL, deps.Metrics),
		now:      time.Now,
	}
}

func (j *Job) validate() error {
	missing := make([]string, 0)
	if j.deps.Screener == nil {
		missing = append(missing, "pair screener")
	}
	if j.deps.Trending == nil {
		missing = append(missing, "trending pools client")
	}
	if j.deps.Summaries == nil {
		missing = append(missing, "summary generator")
	}
	if j.deps.Signals == nil {
		missing = append(missing, "signal repository")
	}
	if j.deps.Subscribers == nil {
		missing = append(missing, "subscriber repository")
	}
	if j.deps.Sender == nil {
		missing = append(missing, "notification sender")
	}
	if j.opts.ChainID == "" {
		missing = append(missing, "chain id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrMissingDependency, missing)
	}
	return nil
}

type candidateOutcome struct {
	entry    TopEntry
	upserted bool
}

// Run executes one scan: fetch, merge, rank, enrich and persist, notify, clean up.
// Only a missing dependency or a cancelled/expired context (checked after fetching and after
// processing) fails the run.
func (j *Job) Run(ctx context.Context) (Result, error) {
	if err := j.validate(); err != nil {
		return Result{}, err
	}

	runStart := j.now()
	res := Result{ExecID: uuid.NewString()}
	log := logrus.WithField("exec_id", res.ExecID)
	log.Info("Scan started")

	// STEP 1: fetching all sources in parallel
	sets := j.aggregator.Collect(ctx, log)
	if err := ctx.Err(); err != nil {
		j.deps.Metrics.RecordRun(observability.StatusError, runStart)
		return res, fmt.Errorf("scan %s aborted while fetching: %w", res.ExecID, err)
	}

	// STEP 2: merging with precedence boosted > searched > trending
	merged := Merge(sets.Boosted, sets.Searched, sets.Trending)

	// STEP 3: ranking
	ranked := Rank(merged)
	j.deps.Metrics.RecordRanked(len(ranked))
	log.Infof("%d boosted, %d searched, %d trending pairs merged into %d, %d ranked",
		len(sets.Boosted), len(sets.Searched), len(sets.Trending), len(merged), len(ranked))

	if len(ranked) == 0 {
		res.Message = NoGainersMessage
		res.Top = []TopEntry{}
		res.Pruned = j.cleanup(ctx, log, runStart)
		j.deps.Metrics.RecordRun(observability.StatusSuccess, runStart)
		log.Info("No gainers found this time")
		return res, nil
	}

	// STEP 4: enriching and persisting every candidate
	outcomes := j.process(ctx, log, ranked)

	if err := ctx.Err(); err != nil {
		j.deps.Metrics.RecordRun(observability.StatusError, runStart)
		return res, fmt.Errorf("scan %s aborted after processing: %w", res.ExecID, err)
	}

	res.Top = make([]TopEntry, 0, len(outcomes))
	upserted := make([]TopEntry, 0, len(outcomes))
	for _, o := range outcomes {
		res.Top = append(res.Top, o.entry)
		if o.upserted {
			upserted = append(upserted, o.entry)
		}
	}
	res.Processed = len(outcomes)

	// STEP 5: notifying subscribers when anything was persisted
	if len(upserted) > 0 {
		res.Notify = j.notifier.Notify(ctx, log, upserted)
		res.Notified = res.Notify.Successful
	} else {
		log.Warn("No signal was persisted, skipping notifications")
	}

	// STEP 6: retention cleanup
	res.Pruned = j.cleanup(ctx, log, runStart)

	j.deps.Metrics.RecordRun(observability.StatusSuccess, runStart)
	log.Infof("Scan finished: %d processed, %d persisted, %d notified in %s",
		res.Processed, len(upserted), res.Notified, time.Since(runStart).Round(time.Millisecond))
	return res, nil
}

// process runs enrichment and persistence on a bounded pool; outcomes keep rank order.
func (j *Job) process(ctx context.Context, log *logrus.Entry, ranked []RankedCandidate) []candidateOutcome {
	outcomes := make([]candidateOutcome, len(ranked))

	var g errgroup.Group
	g.SetLimit(j.opts.Workers)
	for i, c := range ranked {
		g.Go(func() error {
			outcomes[i] = j.processCandidate(ctx, log, c)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (j *Job) processCandidate(ctx context.Context, log *logrus.Entry, c RankedCandidate) candidateOutcome {
	name, _ := displayName(c.Pair.BaseToken)
	outcome := candidateOutcome{entry: TopEntry{Name: name, Change: c.Change}}
	tokenLog := log.WithField("token", c.Pair.BaseToken.Address)

	summary := j.enricher.Summarize(ctx, tokenLog, c)
	signal := j.builder.Build(c, summary, j.now())

	upsert, err := j.deps.Signals.Upsert(ctx, signal)
	j.deps.Metrics.RecordUpsert(upsert.Inserted, err)
	if err != nil {
		tokenLog.WithError(err).Errorf("Signal for '%s' wasn't persisted", signal.TokenName)
		return outcome
	}

	tokenLog.WithFields(logrus.Fields{
		"inserted":   upsert.Inserted,
		"updated_at": upsert.UpdatedAt,
		"source":     c.Pair.Source,
	}).Debugf("Signal %s stored (%+.1f%%)", signal.TokenName, c.Change)
	outcome.upserted = true
	return outcome
}

func (j *Job) cleanup(ctx context.Context, log *logrus.Entry, runStart time.Time) int64 {
	cutoff := runStart.Add(-j.opts.Retention)
	deleted, err := j.deps.Signals.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("Retention cleanup failed")
		return 0
	}
	j.deps.Metrics.RecordSignalsPruned(deleted)
	if deleted > 0 {
		log.Infof("%d signals older than %s removed", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted
}
