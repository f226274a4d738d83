package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vocilia/internal/business"
	"vocilia/internal/fraud"
	"vocilia/internal/reward"
	"vocilia/internal/scoring"
	"vocilia/internal/session/metrics"
	"vocilia/internal/tier"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/sentinel"
	"vocilia/pkg/requestcontext"
)

const (
	// DefaultStageTimeout bounds each pipeline stage. Scoring and fraud run
	// in parallel, so the end-to-end completion latency is the slowest stage
	// plus the reward join.
	DefaultStageTimeout = 5 * time.Second

	// DefaultScoringBackoff is the pause before the single scoring retry.
	DefaultScoringBackoff = 200 * time.Millisecond

	tracerName = "vocilia/internal/session"
)

// Outcome carries the joined pipeline outputs for one completed session.
type Outcome struct {
	Quality    *scoring.QualityScore
	Assessment *fraud.Assessment
	Decision   *reward.Decision
}

// Pipeline runs the completion work: quality scoring and fraud assessment in
// parallel, joined into the reward calculation.
type Pipeline struct {
	scorer     Scorer
	assessor   RiskAssessor
	calculator RewardCalculator
	business   business.ContextStore
	tiers      tier.PolicyStore

	stageTimeout   time.Duration
	scoringBackoff time.Duration
	tracer         trace.Tracer
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type PipelineOption func(*Pipeline)

func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithPipelineMetrics(m *metrics.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithStageTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.stageTimeout = d
		}
	}
}

func WithScoringBackoff(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.scoringBackoff = d
		}
	}
}

func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// NewPipeline creates a completion pipeline.
func NewPipeline(
	scorer Scorer,
	assessor RiskAssessor,
	calculator RewardCalculator,
	businessStore business.ContextStore,
	tiers tier.PolicyStore,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	if assessor == nil {
		return nil, fmt.Errorf("risk assessor is required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("reward calculator is required")
	}
	if businessStore == nil {
		return nil, fmt.Errorf("business context store is required")
	}
	if tiers == nil {
		return nil, fmt.Errorf("tier policy store is required")
	}

	p := &Pipeline{
		scorer:         scorer,
		assessor:       assessor,
		calculator:     calculator,
		business:       businessStore,
		tiers:          tiers,
		stageTimeout:   DefaultStageTimeout,
		scoringBackoff: DefaultScoringBackoff,
		tracer:         otel.Tracer(tracerName),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the completion pipeline against a session snapshot. The
// snapshot's transcript is already a copy, so late appends cannot race the
// scorer. voiceAuthenticity is the synthetic-voice confidence reported by the
// voice front end at completion, nil when it did not report one.
func (p *Pipeline) Run(ctx context.Context, sess *Session, voiceAuthenticity *float64) (*Outcome, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "session.complete", trace.WithAttributes(
		attribute.String("session.id", sess.ID.String()),
		attribute.String("business.id", sess.BusinessID.String()),
	))
	defer span.End()
	defer func() {
		p.metrics.ObserveStageLatency("total", time.Since(start))
	}()

	bizCtx, err := p.business.Get(ctx, sess.BusinessID)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "business context lookup failed")
	}

	tierCfg, err := p.tiers.Get(ctx, sess.BusinessID)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Businesses without an explicit policy row pay out at the entry
		// tier.
		tierCfg = tier.DefaultConfig(sess.BusinessID, tier.Level1)
	} else if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "tier policy lookup failed")
	}

	out := &Outcome{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sctx, span := p.tracer.Start(gctx, "session.scoring")
		defer span.End()

		stageStart := time.Now()
		quality, err := p.scoreWithRetry(sctx, scoring.Input{
			Transcript:    sess.Transcript,
			Business:      bizCtx,
			PurchaseItems: sess.PurchaseItems,
		})
		p.metrics.ObserveStageLatency("scoring", time.Since(stageStart))
		if err != nil {
			span.RecordError(err)
			p.metrics.IncrementPipelineFailure("scoring")
			return err
		}
		out.Quality = quality
		return nil
	})

	g.Go(func() error {
		fctx, span := p.tracer.Start(gctx, "session.fraud")
		defer span.End()

		// The fraud signals evaluate the device that opened the session, so
		// feed them the metadata captured at start rather than whatever
		// client sent the completion request.
		fctx = requestcontext.WithClientMetadata(fctx, sess.ClientIP, sess.UserAgent)
		fctx, cancel := context.WithTimeout(fctx, p.stageTimeout)
		defer cancel()

		stageStart := time.Now()
		assessment, err := p.assessor.Assess(fctx, fraud.Input{
			SessionID:         sess.ID,
			BusinessID:        sess.BusinessID,
			CustomerHash:      sess.CustomerHash,
			Transcript:        sess.Transcript,
			DeviceFingerprint: sess.DeviceFingerprint,
			ClientIP:          sess.ClientIP,
			VoiceAuthenticity: voiceAuthenticity,
		})
		p.metrics.ObserveStageLatency("fraud", time.Since(stageStart))
		if err != nil {
			span.RecordError(err)
			p.metrics.IncrementPipelineFailure("fraud")
			return err
		}
		out.Assessment = assessment
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rctx, rspan := p.tracer.Start(ctx, "session.reward")
	defer rspan.End()

	stageStart := time.Now()
	decision, err := p.calculator.Calculate(rctx, reward.Input{
		SessionID:      sess.ID,
		BusinessID:     sess.BusinessID,
		PurchaseAmount: sess.PurchaseAmount,
		Quality:        out.Quality,
		Fraud:          out.Assessment,
		Tier:           tierCfg,
	})
	p.metrics.ObserveStageLatency("reward", time.Since(stageStart))
	if err != nil {
		rspan.RecordError(err)
		p.metrics.IncrementPipelineFailure("reward")
		return nil, err
	}
	out.Decision = decision
	return out, nil
}

// scoreWithRetry runs the scorer with one retry after a backoff. Scoring
// failure surfaces as scoring_unavailable; a default score is never assigned
// in its place.
func (p *Pipeline) scoreWithRetry(ctx context.Context, in scoring.Input) (*scoring.QualityScore, error) {
	attempt := func() (*scoring.QualityScore, error) {
		sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		return p.scorer.Score(sctx, in)
	}

	quality, err := attempt()
	if err == nil {
		return quality, nil
	}
	if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		return nil, err
	}

	p.metrics.IncrementPipelineRetry("scoring")
	p.logger.WarnContext(ctx, "scoring failed, retrying once", "error", err)
	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeScoringUnavailable, "scoring aborted")
	case <-time.After(p.scoringBackoff):
	}

	quality, err = attempt()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeScoringUnavailable, "scoring failed after retry")
	}
	return quality, nil
}
