package scan

import (
	"math"
	"sort"

	"liquitrace/internal/domain"
)

const (
	MinLiquidityUSD = 2500.0
	MinVolume24h    = 1000.0
	TopN            = 10
)

// RankedCandidate is a merged pair that passed the thresholds, with its coerced metrics.
type RankedCandidate struct {
	Pair      domain.CandidatePair
	Liquidity float64
	Volume    float64
	Change    float64
}

// Rank keeps pairs with enough liquidity and volume and a finite 24h change, then returns the
// TopN biggest gainers. Ties keep merge order.
func Rank(pairs []domain.CandidatePair) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(pairs))
	for _, p := range pairs {
		c := RankedCandidate{
			Pair:      p,
			Liquidity: zeroIfNaN(p.LiquidityUSD),
			Volume:    zeroIfNaN(p.Volume24h),
			Change:    p.PriceChangePct24h,
		}
		if c.Liquidity < MinLiquidityUSD || c.Volume < MinVolume24h {
			continue
		}
		if math.IsNaN(c.Change) || math.IsInf(c.Change, 0) {
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Change > ranked[j].Change
	})

	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
