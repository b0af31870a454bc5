package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRNG_SameSeedSameStream(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		a, b := NewRNG(seed), NewRNG(seed)
		for range 16 {
			if a.Roll(100) != b.Roll(100) {
				t.Fatalf("seed %d diverged", seed)
			}
		}
		if a.Seed() != seed {
			t.Fatalf("Seed() = %d, want %d", a.Seed(), seed)
		}
	})
}

func TestRNG_Certainties(t *testing.T) {
	r := NewRNG(1)
	for _, pct := range []int{100, 150} {
		assert.True(t, r.Chance(pct), "chance %d", pct)
	}
	for _, pct := range []int{0, -5} {
		assert.False(t, r.Chance(pct), "chance %d", pct)
	}
	assert.Equal(t, 40, r.Binomial(40, 100))
	assert.Equal(t, 0, r.Binomial(40, 0))
	assert.Zero(t, r.Position(), "certain outcomes must not consume rolls")
}

func TestRNG_BinomialStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 64).Draw(t, "n")
		pct := rapid.IntRange(1, 99).Draw(t, "pct")
		r := NewRNG(rapid.Int64().Draw(t, "seed"))

		got := r.Binomial(n, pct)
		if got < 0 || got > n {
			t.Fatalf("Binomial(%d, %d) = %d", n, pct, got)
		}
		if r.Position() != int64(n) {
			t.Fatalf("position %d after %d trials", r.Position(), n)
		}
	})
}

func TestRNG_ChanceRate(t *testing.T) {
	r := NewRNG(12345)
	hits := 0
	for range 10000 {
		if r.Chance(30) {
			hits++
		}
	}
	assert.InDelta(t, 3000, hits, 500)
}

func TestRNG_BinomialMean(t *testing.T) {
	r := NewRNG(7)
	total := 0
	for range 200 {
		total += r.Binomial(100, 25)
	}
	assert.InDelta(t, 25, float64(total)/200, 4)
}

func TestRNG_RollRangeAndPosition(t *testing.T) {
	r := NewRNG(99)
	for i := range 500 {
		v := r.Roll(6)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
		require.Equal(t, int64(i+1), r.Position())
	}
}

func TestRNG_BinomialLargeCountIsOneDraw(t *testing.T) {
	r := NewRNG(3)
	const n = 1<<31 - 1
	got := r.Binomial(n, 50)
	assert.InDelta(t, n/2, got, 1e6)
	assert.Equal(t, int64(1), r.Position())

	assert.Equal(t, n, r.Binomial(n, 100))
	assert.Equal(t, 0, r.Binomial(n, 0))
	assert.Equal(t, int64(1), r.Position())
}
