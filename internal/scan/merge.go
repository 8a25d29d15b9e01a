package scan

import "liquitrace/internal/domain"

// Merge concatenates the source sets in precedence order (boosted, searched, trending) and keeps
// the first pair seen for every base token address (compared in normalized form). Pairs without a
// base address are dropped.
// The result preserves first-insertion order.
func Merge(boosted, searched, trending []domain.CandidatePair) []domain.CandidatePair {
	total := len(boosted) + len(searched) + len(trending)
	seen := make(map[string]struct{}, total)
	merged := make([]domain.CandidatePair, 0, total)

	for _, set := range [][]domain.CandidatePair{boosted, searched, trending} {
		for _, p := range set {
			addr := domain.NormalizeAddress(p.BaseToken.Address)
			if addr == "" {
				continue
			}
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}
