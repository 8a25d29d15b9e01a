package scan

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"liquitrace/internal/domain"
)

const (
	DefaultSwapBaseURL = "https://matcha.xyz/trade"
	DefaultSwapFeeBps  = 10

	unknownName   = "Unknown"
	unknownSymbol = "???"
)

// SignalBuilder turns a ranked candidate into the row persisted in the signals table.
type SignalBuilder struct {
	ChainID        string
	SwapBaseURL    string
	ReferralWallet string
	SwapFeeBps     int
}

func (b SignalBuilder) Build(c RankedCandidate, summary string, now time.Time) domain.Signal {
	p := c.Pair
	return domain.Signal{
		TokenAddress:   p.BaseToken.Address,
		PairAddress:    p.PairAddress,
		LiquidityUSD:   finiteOrZero(c.Liquidity),
		InitialPrice:   finiteOrZero(p.PriceUSD),
		SwapLink:       b.SwapLink(p.BaseToken.Address),
		TokenName:      TokenName(p.BaseToken),
		TokenSummary:   summary,
		PriceChangePct: c.Change,
		Volume24h:      finiteOrZero(c.Volume),
		MarketCap:      finiteOrZero(p.MarketCapUSD),
		DexURL:         p.URL,
		UpdatedAt:      now,
	}
}

// SwapLink builds the swap page link selling ETH for the token, with the referral fee when a
// wallet is configured.
func (b SignalBuilder) SwapLink(tokenAddress string) string {
	base := b.SwapBaseURL
	if base == "" {
		base = DefaultSwapBaseURL
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("?chain=")
	sb.WriteString(url.QueryEscape(b.ChainID))
	sb.WriteString("&sellToken=ETH&buyToken=")
	sb.WriteString(url.QueryEscape(tokenAddress))
	if b.ReferralWallet != "" {
		fee := b.SwapFeeBps
		if fee <= 0 {
			fee = DefaultSwapFeeBps
		}
		sb.WriteString("&swapFeeRecipient=")
		sb.WriteString(url.QueryEscape(b.ReferralWallet))
		sb.WriteString("&swapFeeBps=")
		sb.WriteString(strconv.Itoa(fee))
	}
	return sb.String()
}

// TokenName renders "Name (SYMBOL)" with placeholders for missing parts.
func TokenName(t domain.Token) string {
	name, symbol := displayName(t)
	return name + " (" + symbol + ")"
}

func displayName(t domain.Token) (string, string) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = unknownName
	}
	symbol := strings.TrimSpace(t.Symbol)
	if symbol == "" {
		symbol = unknownSymbol
	}
	return name, symbol
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
