package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"liquitrace/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Send(t *testing.T) {
	var got domain.NotificationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"successfulTokens":["a"],"invalidTokens":["b"],"rateLimitedTokens":["c"]}`))
	}))
	t.Cleanup(srv.Close)

	req := domain.NotificationRequest{
		NotificationID: "scan-1",
		Title:          "🚀 Degen +42.0%",
		Body:           "1 more gainer",
		TargetURL:      "https://example.com",
		Tokens:         []string{"a", "b", "c"},
	}
	res, err := NewHTTPSender(srv.Client()).Send(context.Background(), srv.URL, req)

	require.NoError(t, err)
	require.Equal(t, req, got)
	require.Equal(t, []string{"a"}, res.SuccessfulTokens)
	require.Equal(t, []string{"b"}, res.InvalidTokens)
	require.Equal(t, []string{"c"}, res.RateLimitedTokens)
}

func TestHTTPSender_Send_WrappedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"successfulTokens":["x","y"],"invalidTokens":[]}}`))
	}))
	t.Cleanup(srv.Close)

	res, err := NewHTTPSender(srv.Client()).Send(context.Background(), srv.URL, domain.NotificationRequest{Tokens: []string{"x", "y"}})

	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, res.SuccessfulTokens)
	require.Empty(t, res.InvalidTokens)
}

func TestHTTPSender_Send_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	res, err := NewHTTPSender(srv.Client()).Send(context.Background(), srv.URL, domain.NotificationRequest{Tokens: []string{"x"}})

	require.NoError(t, err)
	require.Equal(t, domain.DeliveryResult{}, res)
}

func TestHTTPSender_Send_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPSender(srv.Client()).Send(context.Background(), srv.URL, domain.NotificationRequest{Tokens: []string{"x"}})

	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status code 500")
}
