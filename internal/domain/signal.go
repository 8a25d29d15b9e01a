package domain

import "time"

// Signal is the persisted row of the signals table, one per token address.
type Signal struct {
	TokenAddress   string    `json:"token_address"`
	PairAddress    string    `json:"pair_address"`
	LiquidityUSD   float64   `json:"liquidity_eth"`
	InitialPrice   float64   `json:"initial_price"`
	SwapLink       string    `json:"swap_link"`
	TokenName      string    `json:"token_name"`
	TokenSummary   string    `json:"token_summary"`
	PriceChangePct float64   `json:"price_change_pct"`
	Volume24h      float64   `json:"volume_24h"`
	MarketCap      float64   `json:"market_cap"`
	DexURL         string    `json:"dex_url"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpsertResult struct {
	Inserted  bool
	UpdatedAt time.Time
}
