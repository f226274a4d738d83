package fraud

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"vocilia/internal/fraud/metrics"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/circuit"
	"vocilia/pkg/requestcontext"
)

// DefaultSignalTimeout bounds one signal evaluation. The full assessment runs
// signals in parallel, so the slowest signal sets the assessment latency.
const DefaultSignalTimeout = 2 * time.Second

// DefaultWeights returns the contribution of each signal to the overall
// score. Voice carries the most weight: a synthetic voice is the strongest
// single indicator the platform sees.
func DefaultWeights() map[SignalType]float64 {
	return map[SignalType]float64{
		SignalDevice:     0.20,
		SignalGeographic: 0.15,
		SignalTemporal:   0.20,
		SignalContent:    0.20,
		SignalVoice:      0.25,
	}
}

// DefaultDominance returns per-signal thresholds above which a single signal
// overrides the weighted combination. A confident synthetic-voice hit or a
// near-verbatim duplicate must not be averaged away by four clean signals.
func DefaultDominance() map[SignalType]float64 {
	return map[SignalType]float64{
		SignalVoice:      0.7,
		SignalContent:    0.8,
		SignalDevice:     0.9,
		SignalGeographic: 0.9,
		SignalTemporal:   0.9,
	}
}

// Assessor runs all signal sources against a session and combines them into
// one Assessment.
type Assessor struct {
	sources       []SignalSource
	weights       map[SignalType]float64
	dominance     map[SignalType]float64
	signalTimeout time.Duration
	breakers      map[SignalType]*circuit.Breaker
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(*Assessor)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assessor) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assessor) {
		a.metrics = m
	}
}

func WithWeights(weights map[SignalType]float64) Option {
	return func(a *Assessor) {
		a.weights = weights
	}
}

func WithDominance(dominance map[SignalType]float64) Option {
	return func(a *Assessor) {
		a.dominance = dominance
	}
}

func WithSignalTimeout(d time.Duration) Option {
	return func(a *Assessor) {
		if d > 0 {
			a.signalTimeout = d
		}
	}
}

// New creates an assessor over the given signal sources.
func New(sources []SignalSource, opts ...Option) (*Assessor, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one signal source is required")
	}

	a := &Assessor{
		sources:       sources,
		weights:       DefaultWeights(),
		dominance:     DefaultDominance(),
		signalTimeout: DefaultSignalTimeout,
		breakers:      make(map[SignalType]*circuit.Breaker, len(sources)),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, src := range sources {
		t := src.Type()
		if _, dup := a.breakers[t]; dup {
			return nil, fmt.Errorf("duplicate signal source %q", t)
		}
		a.breakers[t] = circuit.New(string(t),
			circuit.WithFailureThreshold(3),
			circuit.WithSuccessThreshold(2),
		)
	}
	return a, nil
}

// Assess evaluates every signal in parallel and combines the results.
// Signal failures degrade; Assess itself fails only on invalid input.
func (a *Assessor) Assess(ctx context.Context, in Input) (*Assessment, error) {
	if in.SessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "session id is required")
	}
	if in.BusinessID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "business id is required")
	}

	results := make([]SignalResult, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			results[i] = a.evaluate(gctx, src, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assessment := a.combine(in, results)
	assessment.AssessedAt = requestcontext.Now(ctx)

	a.metrics.ObserveRiskScore(assessment.OverallRiskScore)
	a.metrics.IncrementAssessment(string(assessment.RiskLevel))
	a.logger.InfoContext(ctx, "fraud assessment completed",
		"session_id", in.SessionID,
		"risk_level", assessment.RiskLevel,
		"risk_score", assessment.OverallRiskScore,
		"blocked", assessment.SessionBlocked,
		"degraded_signals", len(assessment.DegradedSignals),
	)
	return assessment, nil
}

func (a *Assessor) evaluate(ctx context.Context, src SignalSource, in Input) SignalResult {
	t := src.Type()
	breaker := a.breakers[t]

	// An open breaker probes with a fraction of the budget so a dead source
	// cannot stall the whole assessment.
	timeout := a.signalTimeout
	if breaker.IsOpen() {
		timeout = a.signalTimeout / 8
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := src.Evaluate(cctx, in)
	a.metrics.ObserveSignalLatency(string(t), time.Since(start))

	if err != nil {
		if _, change := breaker.RecordFailure(); change.Opened {
			a.metrics.IncrementBreakerTransition(string(t), "opened")
			a.logger.WarnContext(ctx, "signal breaker opened", "signal", t)
		}
		a.metrics.IncrementSignalDegraded(string(t))
		a.logger.WarnContext(ctx, "signal degraded",
			"signal", t,
			"session_id", in.SessionID,
			"error", err,
		)
		return SignalResult{Type: t, Degraded: true, Detail: "signal source unavailable"}
	}

	if _, change := breaker.RecordSuccess(); change.Closed {
		a.metrics.IncrementBreakerTransition(string(t), "closed")
		a.logger.InfoContext(ctx, "signal breaker closed", "signal", t)
	}

	res.Type = t
	res.Score = clamp01(res.Score)
	res.Confidence = clamp01(res.Confidence)
	return res
}

func (a *Assessor) combine(in Input, results []SignalResult) *Assessment {
	signals := make(map[SignalType]SignalResult, len(results))
	var degraded []SignalType

	var weighted, totalWeight, dominant float64
	for _, r := range results {
		signals[r.Type] = r

		weight, ok := a.weights[r.Type]
		if !ok {
			weight = 0.1
		}
		totalWeight += weight
		weighted += weight * r.Score

		if r.Degraded {
			degraded = append(degraded, r.Type)
			continue
		}
		if threshold, ok := a.dominance[r.Type]; ok && r.Score >= threshold && r.Score > dominant {
			dominant = r.Score
		}
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = weighted / totalWeight
	}
	if dominant > overall {
		overall = dominant
	}
	overall = clamp01(overall)

	sort.Slice(degraded, func(i, j int) bool { return degraded[i] < degraded[j] })

	level := LevelForScore(overall)
	return &Assessment{
		SessionID:        in.SessionID,
		Signals:          signals,
		OverallRiskScore: overall,
		RiskLevel:        level,
		RewardAdjustment: rewardAdjustmentFor(level),
		SessionBlocked:   level == RiskCritical,
		ManualReview:     level == RiskHigh || level == RiskCritical,
		DegradedSignals:  degraded,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
