package scan

import (
	"math"
	"testing"
	"time"

	"liquitrace/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestSignalBuilder_Build(t *testing.T) {
	b := SignalBuilder{ChainID: "base", ReferralWallet: "0xwallet", SwapFeeBps: 10}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := RankedCandidate{
		Pair: domain.CandidatePair{
			PairAddress:  "0xpair",
			BaseToken:    domain.Token{Address: "0xa", Name: "Alpha", Symbol: "ALP"},
			PriceUSD:     0.5,
			MarketCapUSD: math.NaN(),
			URL:          "https://dexscreener.com/base/0xpair",
		},
		Liquidity: 3000,
		Volume:    4000,
		Change:    12.5,
	}

	sig := b.Build(c, "Alpha moves.", now)

	require.Equal(t, domain.Signal{
		TokenAddress:   "0xa",
		PairAddress:    "0xpair",
		LiquidityUSD:   3000,
		InitialPrice:   0.5,
		SwapLink:       "https://matcha.xyz/trade?chain=base&sellToken=ETH&buyToken=0xa&swapFeeRecipient=0xwallet&swapFeeBps=10",
		TokenName:      "Alpha (ALP)",
		TokenSummary:   "Alpha moves.",
		PriceChangePct: 12.5,
		Volume24h:      4000,
		MarketCap:      0,
		DexURL:         "https://dexscreener.com/base/0xpair",
		UpdatedAt:      now,
	}, sig)
}

func TestSignalBuilder_SwapLinkWithoutWallet(t *testing.T) {
	b := SignalBuilder{ChainID: "base", SwapBaseURL: "https://swap.example/trade"}
	require.Equal(t, "https://swap.example/trade?chain=base&sellToken=ETH&buyToken=0xa", b.SwapLink("0xa"))
}

func TestTokenName_Defaults(t *testing.T) {
	require.Equal(t, "Unknown (???)", TokenName(domain.Token{}))
	require.Equal(t, "Degen (???)", TokenName(domain.Token{Name: "Degen"}))
	require.Equal(t, "Unknown (DEGEN)", TokenName(domain.Token{Symbol: "DEGEN"}))
}
