package domain

type Notification struct {
	ID        string
	Title     string
	Body      string
	TargetURL string
}

// NotificationRequest is the body posted to a delivery endpoint.
type NotificationRequest struct {
	NotificationID string   `json:"notificationId"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	TargetURL      string   `json:"targetUrl"`
	Tokens         []string `json:"tokens"`
}

type DeliveryResult struct {
	SuccessfulTokens  []string `json:"successfulTokens"`
	InvalidTokens     []string `json:"invalidTokens"`
	RateLimitedTokens []string `json:"rateLimitedTokens"`
}

type SummaryRequest struct {
	Name           string
	Symbol         string
	PriceChangePct float64
	Volume24h      float64
}
