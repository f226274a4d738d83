package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocilia/internal/business"
	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

func testBusinessContext() *business.Context {
	return &business.Context{
		BusinessID:   id.NewBusinessID(),
		Name:         "Kafé Hörnan",
		BusinessType: business.TypeCafe,
		Language:     "sv",
		StaffNames:   []string{"Anna", "Erik"},
		Departments:  []string{"bageriet"},
		Promotions:   []string{"kanelbulle till kaffet"},
		KnownIssues:  []string{"långsam kortterminal"},
		UpdatedAt:    time.Now(),
	}
}

func aggregatorWith(t *testing.T, texts ...string) *transcript.Aggregator {
	t.Helper()
	agg := transcript.NewAggregator(20)
	for _, text := range texts {
		require.NoError(t, agg.Append(transcript.Turn{
			Speaker:    transcript.SpeakerCustomer,
			Text:       text,
			Confidence: 0.9,
			Timestamp:  time.Now(),
		}))
	}
	return agg
}

const richFeedback = "Anna i bageriet var väldigt hjälpsam eftersom jag inte visste vilken kanelbulle jag skulle ta. " +
	"Kaffet var dock ljummet, jämfört med förra gången då det var rykande varmt. " +
	"Jag fick vänta tio minuter i kassan vid lunchtid, ni borde öppna en kassa till."

const vagueFeedback = "det var bra, helt okej, trevligt"

func TestEngine_Score(t *testing.T) {
	engine := NewEngine()
	bc := testBusinessContext()

	t.Run("requires transcript and context", func(t *testing.T) {
		_, err := engine.Score(context.Background(), Input{Business: bc})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = engine.Score(context.Background(), Input{Transcript: aggregatorWith(t, "hej")})
		require.Error(t, err)
	})

	t.Run("total is the clamped weighted combination", func(t *testing.T) {
		score, err := engine.Score(context.Background(), Input{
			Transcript: aggregatorWith(t, richFeedback),
			Business:   bc,
		})
		require.NoError(t, err)

		expected := 0.4*score.Authenticity + 0.3*score.Concreteness + 0.3*score.Depth
		assert.InDelta(t, expected, score.Total, 1e-9)
		assert.GreaterOrEqual(t, score.Total, 0.0)
		assert.LessOrEqual(t, score.Total, 100.0)
	})

	t.Run("rich feedback outscores vague feedback", func(t *testing.T) {
		rich, err := engine.Score(context.Background(), Input{
			Transcript: aggregatorWith(t, richFeedback),
			Business:   bc,
		})
		require.NoError(t, err)

		vague, err := engine.Score(context.Background(), Input{
			Transcript: aggregatorWith(t, vagueFeedback),
			Business:   bc,
		})
		require.NoError(t, err)

		assert.Greater(t, rich.Total, vague.Total)
		assert.Greater(t, rich.Authenticity, vague.Authenticity, "staff and issue references count")
		assert.Greater(t, rich.Depth, vague.Depth, "causal and comparative language counts")
	})

	t.Run("scoring is deterministic", func(t *testing.T) {
		in := Input{Transcript: aggregatorWith(t, richFeedback), Business: bc}

		first, err := engine.Score(context.Background(), in)
		require.NoError(t, err)
		second, err := engine.Score(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty customer speech scores zero without error", func(t *testing.T) {
		agg := transcript.NewAggregator(20)
		require.NoError(t, agg.Append(transcript.Turn{
			Speaker: transcript.SpeakerSystem, Text: "hur var ditt besök?", Confidence: 1,
		}))

		score, err := engine.Score(context.Background(), Input{Transcript: agg, Business: bc})
		require.NoError(t, err)
		assert.Zero(t, score.Total)
		assert.NotEmpty(t, score.Reasoning)
	})

	t.Run("purchase item mentions raise concreteness", func(t *testing.T) {
		withItem, err := engine.Score(context.Background(), Input{
			Transcript:    aggregatorWith(t, "kardemummabullen var nybakad och varm"),
			Business:      bc,
			PurchaseItems: []string{"kardemummabullen"},
		})
		require.NoError(t, err)

		withoutItem, err := engine.Score(context.Background(), Input{
			Transcript: aggregatorWith(t, "kardemummabullen var nybakad och varm"),
			Business:   bc,
		})
		require.NoError(t, err)

		assert.Greater(t, withItem.Concreteness, withoutItem.Concreteness)
	})
}

func TestEngine_Score_Calibrated(t *testing.T) {
	registry := NewCalibrationRegistry()
	require.NoError(t, registry.Set(Calibration{
		BusinessType: business.TypeCafe,
		Language:     "sv",
		Slope:        1.1,
		Intercept:    -2,
		Version:      "cafe-sv-v1",
	}))

	engine := NewEngine(WithCalibrations(registry))
	raw := NewEngine()
	bc := testBusinessContext()
	in := Input{Transcript: aggregatorWith(t, richFeedback), Business: bc}

	rawScore, err := raw.Score(context.Background(), in)
	require.NoError(t, err)
	calScore, err := engine.Score(context.Background(), in)
	require.NoError(t, err)

	assert.InDelta(t, clamp(1.1*rawScore.Total-2), calScore.Total, 1e-9)
	assert.Equal(t, "cafe-sv-v1", calScore.CalibrationVersion)
	assert.Empty(t, rawScore.CalibrationVersion)

	t.Run("same calibration version yields identical output", func(t *testing.T) {
		again, err := engine.Score(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, calScore, again)
	})

	t.Run("unregistered segment stays raw", func(t *testing.T) {
		grocery := testBusinessContext()
		grocery.BusinessType = business.TypeGrocery

		score, err := engine.Score(context.Background(), Input{
			Transcript: aggregatorWith(t, richFeedback),
			Business:   grocery,
		})
		require.NoError(t, err)
		assert.Empty(t, score.CalibrationVersion)
	})
}

func TestEngine_Score_EnglishLexicon(t *testing.T) {
	engine := NewEngine()
	bc := testBusinessContext()
	bc.Language = "en"
	bc.StaffNames = []string{"Maya"}
	bc.KnownIssues = []string{"slow checkout"}

	score, err := engine.Score(context.Background(), Input{
		Transcript: aggregatorWith(t,
			"Maya helped me right away because the slow checkout queue was long, "+
				"which made me almost leave. The coffee was lukewarm compared to last time. "+
				"You should open a second register at lunch."),
		Business: bc,
	})
	require.NoError(t, err)

	assert.Greater(t, score.Authenticity, 50.0)
	assert.Greater(t, score.Depth, 50.0)
	assert.Greater(t, score.Total, 50.0)
}
