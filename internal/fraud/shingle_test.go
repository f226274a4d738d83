package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShingles(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, Shingles("   "))
	})

	t.Run("short text hashes as one shingle", func(t *testing.T) {
		got := Shingles("bra kaffe")
		assert.Len(t, got, 1)
	})

	t.Run("normalizes case and punctuation", func(t *testing.T) {
		assert.Equal(t, Shingles("Bra, Kaffe!"), Shingles("bra kaffe"))
	})

	t.Run("deduplicates repeated trigrams", func(t *testing.T) {
		got := Shingles("ja ja ja ja ja ja")
		assert.Len(t, got, 1)
	})

	t.Run("one trigram per window", func(t *testing.T) {
		got := Shingles("personalen vid bageriet var snabb")
		assert.Len(t, got, 3)
	})
}

func TestJaccard(t *testing.T) {
	a := Shingles("personalen vid bageriet var snabb och vänlig idag och kaffet smakade utmärkt")

	t.Run("identical sets", func(t *testing.T) {
		assert.InDelta(t, 1.0, Jaccard(a, a), 1e-9)
	})

	t.Run("disjoint sets", func(t *testing.T) {
		b := Shingles("kortterminalen i kassan krånglade länge under lunchrusningen")
		assert.Zero(t, Jaccard(a, b))
	})

	t.Run("empty sets", func(t *testing.T) {
		assert.Zero(t, Jaccard(a, nil))
		assert.Zero(t, Jaccard(nil, a))
	})

	t.Run("near duplicate stays above the duplicate threshold", func(t *testing.T) {
		b := Shingles("personalen vid bageriet var snabb och vänlig idag och kaffet smakade utmärkt tack")
		// 10 shared trigrams of 11 total.
		assert.InDelta(t, 10.0/11.0, Jaccard(a, b), 1e-9)
		assert.GreaterOrEqual(t, Jaccard(a, b), DefaultDuplicateThreshold)
	})

	t.Run("partial overlap", func(t *testing.T) {
		x := []uint64{1, 2, 3}
		y := []uint64{2, 3, 4}
		assert.InDelta(t, 0.5, Jaccard(x, y), 1e-9)
	})
}
