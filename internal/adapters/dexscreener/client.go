package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"liquitrace/internal/adapters/httpclient"
	"liquitrace/internal/domain"

	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.dexscreener.com"

type Client struct {
	baseURL    string
	chainID    string
	httpClient *http.Client
}

func NewClient(baseURL string, chainID string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chainID:    chainID,
		httpClient: httpClient,
	}
}

type pairDTO struct {
	ChainID     string           `json:"chainId"`
	PairAddress string           `json:"pairAddress"`
	URL         string           `json:"url"`
	BaseToken   domain.Token     `json:"baseToken"`
	PriceUSD    httpclient.Float `json:"priceUsd"`
	Liquidity   *struct {
		USD httpclient.Float `json:"usd"`
	} `json:"liquidity"`
	Volume *struct {
		H24 httpclient.Float `json:"h24"`
	} `json:"volume"`
	PriceChange *struct {
		H24 httpclient.Float `json:"h24"`
	} `json:"priceChange"`
	MarketCap httpclient.Float `json:"marketCap"`
	FDV       httpclient.Float `json:"fdv"`
}

func (p pairDTO) toDomain() domain.CandidatePair {
	pair := domain.CandidatePair{
		ChainID:      p.ChainID,
		PairAddress:  p.PairAddress,
		BaseToken:    p.BaseToken,
		PriceUSD:     p.PriceUSD.Value(),
		MarketCapUSD: p.MarketCap.Value(),
		URL:          p.URL,
	}
	pair.BaseToken.Address = domain.NormalizeAddress(p.BaseToken.Address)
	if p.Liquidity != nil {
		pair.LiquidityUSD = p.Liquidity.USD.Value()
	}
	if p.Volume != nil {
		pair.Volume24h = p.Volume.H24.Value()
	}
	if p.PriceChange != nil {
		pair.PriceChangePct24h = p.PriceChange.H24.Value()
	}
	if pair.MarketCapUSD == 0 || math.IsNaN(pair.MarketCapUSD) {
		pair.MarketCapUSD = p.FDV.Value()
	}
	return pair
}

func (c *Client) GetBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error) {
	var raw []json.RawMessage
	if err := httpclient.GetJSON(ctx, c.httpClient, c.baseURL+"/token-boosts/top/v1", &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch boosted tokens: %w", err)
	}

	tokens := make([]domain.BoostedToken, 0, len(raw))
	for _, item := range raw {
		var token domain.BoostedToken
		if err := json.Unmarshal(item, &token); err != nil {
			logrus.WithError(err).Debug("skipping malformed boosted token entry")
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// GetTokenPairs resolves token addresses to their pairs in a single request.
func (c *Client) GetTokenPairs(ctx context.Context, addresses []string) ([]domain.CandidatePair, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	endpoint, err := url.JoinPath(c.baseURL, "tokens", "v1", c.chainID, strings.Join(addresses, ","))
	if err != nil {
		return nil, fmt.Errorf("failed to build token pairs url: %w", err)
	}

	var body json.RawMessage
	if err = httpclient.GetJSON(ctx, c.httpClient, endpoint, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch pairs for %d tokens: %w", len(addresses), err)
	}
	return decodePairs(body)
}

func (c *Client) SearchPairs(ctx context.Context, query string) ([]domain.CandidatePair, error) {
	u, err := url.Parse(c.baseURL + "/latest/dex/search")
	if err != nil {
		return nil, fmt.Errorf("failed to parse search url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	var body json.RawMessage
	if err = httpclient.GetJSON(ctx, c.httpClient, u.String(), &body); err != nil {
		return nil, fmt.Errorf("failed to search pairs for %q: %w", query, err)
	}
	return decodePairs(body)
}

// decodePairs accepts either a bare array of pairs or an object with a "pairs" array.
// Individual malformed pairs are dropped instead of failing the whole response.
func decodePairs(body json.RawMessage) ([]domain.CandidatePair, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var raw []json.RawMessage
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode pairs array: %w", err)
		}
	} else {
		var wrapped struct {
			Pairs []json.RawMessage `json:"pairs"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode pairs object: %w", err)
		}
		raw = wrapped.Pairs
	}

	pairs := make([]domain.CandidatePair, 0, len(raw))
	for _, item := range raw {
		var dto pairDTO
		if err := json.Unmarshal(item, &dto); err != nil {
			logrus.WithError(err).Debug("skipping malformed pair")
			continue
		}
		pairs = append(pairs, dto.toDomain())
	}
	return pairs, nil
}
