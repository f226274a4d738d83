package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPercentagePolicy(t *testing.T) {
	policy := DefaultPercentagePolicy()

	tests := []struct {
		score    float64
		permille int64
	}{
		{0, 10},
		{9.9, 10},
		{10, 20},
		{55, 60},
		{80, 90},
		{84.9, 90},
		{85, 100},
		{89.9, 100},
		{90, 120},
		{100, 120},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.permille, policy.PermilleFor(tt.score), "score %v", tt.score)
	}
}

func TestNewPercentagePolicy(t *testing.T) {
	tests := []struct {
		name  string
		bands []Band
	}{
		{"empty table", nil},
		{"first band above zero", []Band{{MinScore: 5, Permille: 10}}},
		{"scores not increasing", []Band{{0, 10}, {50, 20}, {50, 30}}},
		{"percentage decreases", []Band{{0, 50}, {50, 20}}},
		{"permille zero", []Band{{0, 0}}},
		{"permille above 1000", []Band{{0, 1001}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPercentagePolicy(tt.bands)
			assert.Error(t, err)
		})
	}

	t.Run("flat percentage across bands is allowed", func(t *testing.T) {
		policy, err := NewPercentagePolicy([]Band{{0, 50}, {50, 50}, {80, 100}})
		require.NoError(t, err)
		assert.Equal(t, int64(50), policy.PermilleFor(60))
		assert.Equal(t, int64(100), policy.PermilleFor(80))
	})
}

func TestPercentagePolicy_BandsReturnsCopy(t *testing.T) {
	policy := DefaultPercentagePolicy()
	bands := policy.Bands()
	bands[0].Permille = 999

	assert.Equal(t, int64(10), policy.PermilleFor(0))
}
