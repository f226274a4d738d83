package transcript

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vocilia/pkg/domain-errors"
)

func customerTurn(text string) Turn {
	return Turn{Speaker: SpeakerCustomer, Text: text, Confidence: 0.9, Timestamp: time.Now()}
}

func TestTurn_Validate(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		ok   bool
	}{
		{"valid customer turn", customerTurn("kaffet var riktigt gott"), true},
		{"valid system turn", Turn{Speaker: SpeakerSystem, Text: "tack!", Confidence: 1}, true},
		{"unknown speaker", Turn{Speaker: "narrator", Text: "hello", Confidence: 0.5}, false},
		{"blank text", Turn{Speaker: SpeakerCustomer, Text: "   ", Confidence: 0.5}, false},
		{"confidence above one", Turn{Speaker: SpeakerCustomer, Text: "bra", Confidence: 1.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.turn.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			}
		})
	}
}

func TestAggregator_SlidingWindow(t *testing.T) {
	agg := NewAggregator(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, agg.Append(customerTurn(fmt.Sprintf("turn %d", i))))
	}

	turns := agg.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "turn 3", turns[0].Text)
	assert.Equal(t, "turn 5", turns[2].Text)
	assert.Equal(t, 5, agg.TotalTurns(), "cumulative count survives eviction")
	assert.Equal(t, 3, agg.WindowSize())
}

func TestAggregator_CustomerText(t *testing.T) {
	agg := NewAggregator(10)
	require.NoError(t, agg.Append(Turn{Speaker: SpeakerSystem, Text: "hur var ditt besök?", Confidence: 1}))
	require.NoError(t, agg.Append(customerTurn("personalen var trevlig")))
	require.NoError(t, agg.Append(Turn{Speaker: SpeakerSystem, Text: "något mer?", Confidence: 1}))
	require.NoError(t, agg.Append(customerTurn("kön var lite lång")))

	assert.Equal(t, "personalen var trevlig kön var lite lång", agg.CustomerText())
}

func TestAggregator_AverageConfidence(t *testing.T) {
	agg := NewAggregator(10)
	assert.Zero(t, agg.AverageConfidence())

	require.NoError(t, agg.Append(Turn{Speaker: SpeakerCustomer, Text: "a b", Confidence: 0.8}))
	require.NoError(t, agg.Append(Turn{Speaker: SpeakerCustomer, Text: "c d", Confidence: 0.6}))
	require.NoError(t, agg.Append(Turn{Speaker: SpeakerSystem, Text: "ok", Confidence: 0.1}))

	assert.InDelta(t, 0.7, agg.AverageConfidence(), 1e-9, "system turns excluded")
}

func TestAggregator_CloneIsIndependent(t *testing.T) {
	agg := NewAggregator(10)
	require.NoError(t, agg.Append(customerTurn("första")))

	clone := agg.Clone()
	require.NoError(t, agg.Append(customerTurn("andra")))

	assert.Equal(t, 1, clone.WindowSize())
	assert.Equal(t, 2, agg.WindowSize())
	assert.Equal(t, 1, clone.TotalTurns())
}

func TestAggregator_RejectsInvalidTurn(t *testing.T) {
	agg := NewAggregator(10)
	err := agg.Append(Turn{Speaker: SpeakerCustomer, Text: "", Confidence: 0.5})
	require.Error(t, err)
	assert.Zero(t, agg.TotalTurns())
}
