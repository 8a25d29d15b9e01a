package scan

import (
	"context"
	"fmt"
	"unicode/utf8"

	"liquitrace/internal/adapters"
	"liquitrace/internal/domain"
	"liquitrace/internal/observability"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MaxTokensPerRequest = 100
	maxTitleRunes       = 32
	notificationPrefix  = "scan-"
	titlePrefix         = "🚀 "
)

// NotifyReport summarises one fan-out.
type NotifyReport struct {
	Endpoints      int   `json:"endpoints"`
	Requests       int   `json:"requests"`
	Successful     int   `json:"successful"`
	Invalid        int   `json:"invalid"`
	RateLimited    int   `json:"rateLimited"`
	FailedRequests int   `json:"failedRequests"`
	Pruned         int64 `json:"pruned"`
}

type Notifier struct {
	subscribers adapters.SubscriberRepository
	sender      adapters.NotificationSender
	appURL      string
	metrics     *observability.Metrics
}

func NewNotifier(subscribers adapters.SubscriberRepository, sender adapters.NotificationSender, appURL string, metrics *observability.Metrics) *Notifier {
	return &Notifier{subscribers: subscribers, sender: sender, appURL: appURL, metrics: metrics}
}

// EndpointBatch holds the distinct tokens registered for one delivery endpoint.
type EndpointBatch struct {
	URL    string
	Tokens []string
}

// Notify sends one notification about the persisted gainers (top-ranked first) to every
// subscriber. Failures are logged per request and never returned.
func (n *Notifier) Notify(ctx context.Context, log *logrus.Entry, gainers []TopEntry) NotifyReport {
	var report NotifyReport
	if len(gainers) == 0 {
		return report
	}

	// STEP 1: loading subscribers
	subs, err := n.subscribers.ListAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load notification subscribers, nothing sent")
		return report
	}
	if len(subs) == 0 {
		log.Info("No notification subscribers")
		return report
	}

	// STEP 2: one payload shared by every request of this run
	notification := BuildNotification(gainers, n.appURL)

	// STEP 3: grouping tokens by endpoint and sending them in chunks
	batches := GroupByEndpoint(subs)
	report.Endpoints = len(batches)
	for _, batch := range batches {
		for _, chunk := range Chunk(batch.Tokens, MaxTokensPerRequest) {
			report.Requests++
			n.sendChunk(ctx, log.WithField("endpoint", batch.URL), batch.URL, notification, chunk, &report)
		}
	}

	log.WithFields(logrus.Fields{
		"endpoints":    report.Endpoints,
		"requests":     report.Requests,
		"successful":   report.Successful,
		"invalid":      report.Invalid,
		"rate_limited": report.RateLimited,
		"failed":       report.FailedRequests,
		"pruned":       report.Pruned,
	}).Info("Notifications dispatched")
	return report
}

func (n *Notifier) sendChunk(ctx context.Context, log *logrus.Entry, endpoint string, notification domain.Notification, tokens []string, report *NotifyReport) {
	res, err := n.sender.Send(ctx, endpoint, domain.NotificationRequest{
		NotificationID: notification.ID,
		Title:          notification.Title,
		Body:           notification.Body,
		TargetURL:      notification.TargetURL,
		Tokens:         tokens,
	})
	n.metrics.RecordNotificationRequest(err)
	if err != nil {
		report.FailedRequests++
		log.WithError(err).Warnf("Notification batch of %d tokens wasn't delivered", len(tokens))
		return
	}

	report.Successful += len(res.SuccessfulTokens)
	report.Invalid += len(res.InvalidTokens)
	report.RateLimited += len(res.RateLimitedTokens)
	n.metrics.RecordDelivery(len(res.SuccessfulTokens), len(res.InvalidTokens), len(res.RateLimitedTokens))

	if len(res.RateLimitedTokens) > 0 {
		log.Warnf("%d tokens were rate limited", len(res.RateLimitedTokens))
	}
	if len(res.InvalidTokens) == 0 {
		return
	}

	pruned, err := n.subscribers.DeleteByTokens(ctx, res.InvalidTokens)
	if err != nil {
		log.WithError(err).Errorf("Failed to prune %d invalid tokens", len(res.InvalidTokens))
		return
	}
	report.Pruned += pruned
	n.metrics.RecordSubscribersPruned(pruned)
}

// BuildNotification derives the run's payload from the top-ranked gainer.
func BuildNotification(gainers []TopEntry, appURL string) domain.Notification {
	top := gainers[0]
	suffix := fmt.Sprintf(" %+.1f%%", top.Change)
	nameBudget := maxTitleRunes - utf8.RuneCountInString(titlePrefix) - utf8.RuneCountInString(suffix)
	title := truncateRunes(titlePrefix+truncateRunes(top.Name, max(nameBudget, 1))+suffix, maxTitleRunes)

	var body string
	switch more := len(gainers) - 1; more {
	case 0:
		body = "New top gainer spotted. Tap to see the signal."
	case 1:
		body = "Plus 1 more gainer in this scan."
	default:
		body = fmt.Sprintf("Plus %d more gainers in this scan.", more)
	}

	return domain.Notification{
		ID:        notificationPrefix + uuid.NewString(),
		Title:     title,
		Body:      body,
		TargetURL: appURL,
	}
}

// GroupByEndpoint collects distinct tokens per notification URL, both in first-seen order.
func GroupByEndpoint(subs []domain.Subscriber) []EndpointBatch {
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	var batches []EndpointBatch

	for _, s := range subs {
		if s.NotificationURL == "" || s.Token == "" {
			continue
		}
		i, ok := index[s.NotificationURL]
		if !ok {
			i = len(batches)
			index[s.NotificationURL] = i
			seen[s.NotificationURL] = make(map[string]struct{})
			batches = append(batches, EndpointBatch{URL: s.NotificationURL})
		}
		if _, dup := seen[s.NotificationURL][s.Token]; dup {
			continue
		}
		seen[s.NotificationURL][s.Token] = struct{}{}
		batches[i].Tokens = append(batches[i].Tokens, s.Token)
	}
	return batches
}

// Chunk splits tokens into consecutive slices of at most size elements.
func Chunk(tokens []string, size int) [][]string {
	if size <= 0 || len(tokens) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
