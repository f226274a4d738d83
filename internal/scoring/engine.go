package scoring

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vocilia/internal/business"
	"vocilia/internal/scoring/metrics"
	"vocilia/internal/transcript"
	dErrors "vocilia/pkg/domain-errors"
)

// Input carries everything the engine scores from. The transcript snapshot
// and business context are read-only; the engine never mutates them.
type Input struct {
	Transcript    *transcript.Aggregator
	Business      *business.Context
	PurchaseItems []string
}

// Engine scores completed transcripts. Scoring is deterministic: the same
// input and the same registered calibration always yield the same score.
type Engine struct {
	calibrations *CalibrationRegistry
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithCalibrations(registry *CalibrationRegistry) Option {
	return func(e *Engine) {
		e.calibrations = registry
	}
}

// NewEngine creates a scoring engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the quality score for one completed session.
func (e *Engine) Score(ctx context.Context, in Input) (*QualityScore, error) {
	if in.Transcript == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "transcript is required")
	}
	if in.Business == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "business context is required")
	}

	start := time.Now()
	text := strings.ToLower(in.Transcript.CustomerText())
	if strings.TrimSpace(text) == "" {
		return &QualityScore{Reasoning: "no customer speech to score"}, nil
	}

	lex := lexiconFor(in.Business.Language)

	authenticity, authReasons := scoreAuthenticity(text, in.Business, lex)
	concreteness, concReasons := scoreConcreteness(text, in.PurchaseItems, lex)
	depth, depthReasons := scoreDepth(text, lex)

	score := &QualityScore{
		Authenticity: authenticity,
		Concreteness: concreteness,
		Depth:        depth,
		Total:        combine(authenticity, concreteness, depth),
		Reasoning:    buildReasoning(authReasons, concReasons, depthReasons),
	}

	if e.calibrations != nil {
		if cal, ok := e.calibrations.Lookup(in.Business.BusinessType, lex.Language); ok {
			score.Total = cal.Apply(score.Total)
			score.CalibrationVersion = cal.Version
			e.metrics.IncrementCalibrationApplied(string(in.Business.BusinessType), lex.Language)
		}
	}

	e.metrics.ObserveScore("authenticity", score.Authenticity)
	e.metrics.ObserveScore("concreteness", score.Concreteness)
	e.metrics.ObserveScore("depth", score.Depth)
	e.metrics.ObserveScore("total", score.Total)
	e.metrics.ObserveScoreLatency(time.Since(start))

	e.logger.DebugContext(ctx, "transcript scored",
		"business_id", in.Business.BusinessID,
		"language", lex.Language,
		"total", score.Total,
		"calibration", score.CalibrationVersion,
	)
	return score, nil
}

func buildReasoning(groups ...[]string) string {
	var parts []string
	for _, group := range groups {
		parts = append(parts, group...)
	}
	return strings.Join(parts, "; ")
}
