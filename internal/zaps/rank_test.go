package zaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func zap(receipt string, sats int64) Zap {
	return Zap{ReceiptID: receipt, Payer: "npub1payer", Target: "note1target", AmountMsat: sats * 1000, AmountSats: sats}
}

func zapMsat(receipt string, msat int64) Zap {
	return Zap{ReceiptID: receipt, Payer: "npub1payer", Target: "note1target", AmountMsat: msat, AmountSats: msat / 1000}
}

func receiptIDs(zaps []Zap) []string {
	ids := make([]string, 0, len(zaps))
	for _, z := range zaps {
		ids = append(ids, z.ReceiptID)
	}
	return ids
}

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		zaps     []Zap
		n        int
		expected []string
	}{
		{
			name:     "top n smallest first",
			zaps:     []Zap{zap("a", 100), zap("b", 5), zap("c", 2100), zap("d", 21)},
			n:        3,
			expected: []string{"d", "a", "c"},
		},
		{
			name:     "fewer than n",
			zaps:     []Zap{zap("a", 10), zap("b", 1)},
			n:        10,
			expected: []string{"b", "a"},
		},
		{
			name:     "ties keep arrival order",
			zaps:     []Zap{zap("a", 21), zap("b", 21), zap("c", 21)},
			n:        3,
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "ties cut keeps the latest arrivals",
			zaps:     []Zap{zap("a", 21), zap("b", 21), zap("c", 21)},
			n:        2,
			expected: []string{"b", "c"},
		},
		{
			name: "drops zaps without payer or target",
			zaps: []Zap{
				zap("a", 10),
				{ReceiptID: "b", Target: "note1target", AmountMsat: 1_000_000},
				{ReceiptID: "c", Payer: "npub1payer", AmountMsat: 1_000_000},
			},
			n:        5,
			expected: []string{"a"},
		},
		{
			name:     "zero amounts still rank",
			zaps:     []Zap{zap("a", 0), zap("b", 3)},
			n:        2,
			expected: []string{"a", "b"},
		},
		{
			name:     "sub-sat differences order zaps with equal sats",
			zaps:     []Zap{zapMsat("a", 1_900), zapMsat("b", 1_500), zapMsat("c", 1_700)},
			n:        3,
			expected: []string{"b", "c", "a"},
		},
		{
			name:     "sub-sat differences decide the cut",
			zaps:     []Zap{zapMsat("a", 1_900), zapMsat("b", 1_500)},
			n:        1,
			expected: []string{"a"},
		},
		{
			name:     "zero n",
			zaps:     []Zap{zap("a", 1)},
			n:        0,
			expected: []string{},
		},
		{
			name:     "empty input",
			n:        10,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, receiptIDs(Rank(tt.zaps, tt.n)))
		})
	}
}

func TestRankNonDecreasing(t *testing.T) {
	zaps := []Zap{zap("a", 9), zap("b", 3), zap("c", 7), zap("d", 1), zap("e", 7), zap("f", 12)}

	ranked := Rank(zaps, 4)
	assert.Len(t, ranked, 4)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].AmountMsat, ranked[i].AmountMsat)
	}
	assert.Equal(t, int64(12), ranked[len(ranked)-1].AmountSats)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	zaps := []Zap{zap("a", 9), zap("b", 3)}
	Rank(zaps, 2)
	assert.Equal(t, []string{"a", "b"}, receiptIDs(zaps))
}
