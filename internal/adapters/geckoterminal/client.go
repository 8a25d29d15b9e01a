package geckoterminal

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

const (
	DefaultBaseURL     = "https://api.geckoterminal.com"
	dexScreenerPageURL = "https://dexscreener.com"
)

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

type poolDTO struct {
	Attributes struct {
		Name              string           `json:"name"`
		Address           string           `json:"address"`
		BaseTokenPriceUSD httpclient.Float `json:"base_token_price_usd"`
		ReserveInUSD      httpclient.Float `json:"reserve_in_usd"`
		MarketCapUSD      httpclient.Float `json:"market_cap_usd"`
		FDVUSD            httpclient.Float `json:"fdv_usd"`
		VolumeUSD         *struct {
			H24 httpclient.Float `json:"h24"`
		} `json:"volume_usd"`
		PriceChangePercentage *struct {
			H24 httpclient.Float `json:"h24"`
		} `json:"price_change_percentage"`
	} `json:"attributes"`
	Relationships struct {
		BaseToken struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"base_token"`
	} `json:"relationships"`
}

// GetTrendingPools returns trending pools of the configured network normalized to candidate pairs.
func (c *Client) GetTrendingPools(ctx context.Context) ([]domain.CandidatePair, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v2", "networks", c.chainID, "trending_pools")
	if err != nil {
		return nil, fmt.Errorf("failed to build trending pools url: %w", err)
	}

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	if err = httpclient.GetJSON(ctx, c.httpClient, endpoint, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch trending pools for %q: %w", c.chainID, err)
	}

	pairs := make([]domain.CandidatePair, 0, len(body.Data))
	for _, item := range body.Data {
		var pool poolDTO
		if err = json.Unmarshal(item, &pool); err != nil {
			logrus.WithError(err).Debug("skipping malformed trending pool")
			continue
		}
		pairs = append(pairs, c.normalize(pool))
	}
	return pairs, nil
}

func (c *Client) normalize(pool poolDTO) domain.CandidatePair {
	attr := pool.Attributes
	address := domain.NormalizeAddress(TokenAddress(pool.Relationships.BaseToken.Data.ID, c.chainID))
	label := PoolBaseLabel(attr.Name)

	pair := domain.CandidatePair{
		ChainID:      c.chainID,
		PairAddress:  attr.Address,
		BaseToken:    domain.Token{Address: address, Name: label, Symbol: label},
		PriceUSD:     attr.BaseTokenPriceUSD.Value(),
		LiquidityUSD: attr.ReserveInUSD.Value(),
		MarketCapUSD: attr.MarketCapUSD.Value(),
		URL:          dexScreenerPageURL + "/" + c.chainID + "/" + address,
	}
	if attr.VolumeUSD != nil {
		pair.Volume24h = attr.VolumeUSD.H24.Value()
	}
	if attr.PriceChangePercentage != nil {
		pair.PriceChangePct24h = attr.PriceChangePercentage.H24.Value()
	}
	if pair.MarketCapUSD == 0 || math.IsNaN(pair.MarketCapUSD) {
		pair.MarketCapUSD = attr.FDVUSD.Value()
	}
	return pair
}

// TokenAddress strips the "<chain>_" prefix from a GeckoTerminal token id.
// Ids without the prefix yield an empty address.
func TokenAddress(id string, chainID string) string {
	prefix := chainID + "_"
	if !strings.HasPrefix(id, prefix) {
		return ""
	}
	return strings.TrimPrefix(id, prefix)
}

// PoolBaseLabel returns the base side of a pool name such as "DEGEN / WETH 1%".
func PoolBaseLabel(name string) string {
	base, _, _ := strings.Cut(name, " / ")
	return strings.TrimSpace(base)
}
