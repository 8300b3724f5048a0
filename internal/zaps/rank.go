package zaps

import "sort"

// Rank keeps zaps that have both a payer and a target, orders them by amount
// in millisatoshis ascending and returns the n largest, smallest first
func Rank(zaps []Zap, n int) []Zap {
	if n <= 0 {
		return []Zap{}
	}

	ranked := make([]Zap, 0, len(zaps))
	for _, z := range zaps {
		if z.Payer == "" || z.Target == "" {
			continue
		}
		ranked = append(ranked, z)
	}

	// ties keep arrival order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AmountMsat < ranked[j].AmountMsat
	})

	if len(ranked) > n {
		ranked = ranked[len(ranked)-n:]
	}
	return ranked
}
