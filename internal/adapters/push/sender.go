package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"liquitrace/internal/adapters/httpclient"
	"liquitrace/internal/domain"
)

// HTTPSender posts notification batches to the delivery endpoint stored with each subscriber.
type HTTPSender struct {
	httpClient *http.Client
}

func NewHTTPSender(httpClient *http.Client) *HTTPSender {
	return &HTTPSender{httpClient: httpClient}
}

type deliveryResponse struct {
	domain.DeliveryResult
	Result *domain.DeliveryResult `json:"result"`
}

func (s *HTTPSender) Send(ctx context.Context, endpoint string, req domain.NotificationRequest) (domain.DeliveryResult, error) {
	var raw json.RawMessage
	if err := httpclient.PostJSON(ctx, s.httpClient, endpoint, req, &raw); err != nil {
		return domain.DeliveryResult{}, fmt.Errorf("failed to deliver %d tokens: %w", len(req.Tokens), err)
	}
	if len(raw) == 0 {
		return domain.DeliveryResult{}, nil
	}

	var resp deliveryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.DeliveryResult{}, fmt.Errorf("failed to decode delivery response: %w", err)
	}
	if resp.Result != nil {
		return *resp.Result, nil
	}
	return resp.DeliveryResult, nil
}
