package domain

import "strings"

type Source string

const (
	SourceBoosted  Source = "boosted"
	SourceSearched Source = "searched"
	SourceTrending Source = "trending"
)

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// CandidatePair is one tradable pool for a base token, normalized from whichever feed reported it.
// Numeric fields are 0 when the feed omitted them and NaN when the feed sent something unparsable.
type CandidatePair struct {
	ChainID           string
	PairAddress       string
	BaseToken         Token
	PriceUSD          float64
	LiquidityUSD      float64
	Volume24h         float64
	PriceChangePct24h float64
	MarketCapUSD      float64
	Source            Source
	URL               string
}

type BoostedToken struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
}

// NormalizeAddress trims a token address and lowercases it when it is hex (0x-prefixed), where
// letter case only carries a checksum. Other address formats are case-sensitive and kept as is.
func NormalizeAddress(address string) string {
	a := strings.TrimSpace(address)
	if len(a) > 2 && (strings.HasPrefix(a, "0x") || strings.HasPrefix(a, "0X")) {
		return strings.ToLower(a)
	}
	return a
}
