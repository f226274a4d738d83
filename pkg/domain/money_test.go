package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vocilia/pkg/domain-errors"
)

func TestParseMoney(t *testing.T) {
	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := ParseMoney(-1)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts zero", func(t *testing.T) {
		m, err := ParseMoney(0)
		require.NoError(t, err)
		assert.Equal(t, Money(0), m)
		assert.False(t, m.IsPositive())
	})
}

func TestMoney_PerMille(t *testing.T) {
	tests := []struct {
		name     string
		amount   Money
		permille int64
		want     Money
	}{
		{"10 percent of 250.00", 25000, 100, 2500},
		{"12 percent of 600.00", 60000, 120, 7200},
		{"20 percent commission of 25.00", 2500, 200, 500},
		{"rounds half up", 25, 100, 3}, // 2.5 öre -> 3
		{"zero amount", 0, 100, 0},
		{"zero rate", 25000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.amount.PerMille(tt.permille))
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "25.00", Money(2500).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-3.50", Money(-350).String())
}
