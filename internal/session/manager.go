package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vocilia/internal/business"
	"vocilia/internal/events"
	"vocilia/internal/session/metrics"
	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/sentinel"
	"vocilia/pkg/requestcontext"
)

// Manager owns the session lifecycle: it creates sessions, guards the state
// machine, arms the inactivity timers, and runs the completion pipeline.
type Manager struct {
	store    Store
	business business.ContextStore
	pipeline *Pipeline
	tokens   *TokenIssuer
	events   events.Publisher

	timeouts Timeouts
	timers   *timerSet
	maxTurns int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mx
	}
}

// WithEvents wires the lifecycle event publisher. Without one the manager
// runs silent.
func WithEvents(publisher events.Publisher) Option {
	return func(m *Manager) {
		m.events = publisher
	}
}

func WithTimeouts(t Timeouts) Option {
	return func(m *Manager) {
		m.timeouts = t
	}
}

// WithMaxTranscriptTurns bounds each session's transcript window.
func WithMaxTranscriptTurns(n int) Option {
	return func(m *Manager) {
		m.maxTurns = n
	}
}

// NewManager creates a session manager.
func NewManager(store Store, businessStore business.ContextStore, pipeline *Pipeline, tokens *TokenIssuer, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if businessStore == nil {
		return nil, fmt.Errorf("business context store is required")
	}
	if pipeline == nil {
		return nil, fmt.Errorf("completion pipeline is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}

	m := &Manager{
		store:    store,
		business: businessStore,
		pipeline: pipeline,
		tokens:   tokens,
		timeouts: DefaultTimeouts(),
		timers:   newTimerSet(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.timeouts.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// StartInput carries the session creation request. SessionID is optional;
// capture layers that pre-generate ids (QR payloads) supply their own and get
// duplicate detection, others leave it nil.
type StartInput struct {
	SessionID      id.SessionID
	BusinessID     id.BusinessID
	CustomerHash   id.CustomerHash
	PurchaseAmount id.Money
	PurchaseItems  []string
}

// StartResult is the created session plus the token that authorizes turn
// submission for it.
type StartResult struct {
	Session   *Session
	TurnToken string
}

// Start creates a session and drives it to listening.
// Errors: CodeDuplicateSession when the id exists, CodeInvalidAmount on a
// non-positive purchase amount, CodeNotFound for an unknown business.
func (m *Manager) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	if in.BusinessID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "business id is required")
	}
	if in.CustomerHash.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "customer hash is required")
	}
	if !in.PurchaseAmount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "purchase amount must be positive")
	}

	if _, err := m.business.Get(ctx, in.BusinessID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown business")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "business lookup failed")
	}

	sessionID := in.SessionID
	if sessionID.IsNil() {
		sessionID = id.NewSessionID()
	}

	now := requestcontext.Now(ctx)
	rec := &Session{
		ID:                sessionID,
		BusinessID:        in.BusinessID,
		CustomerHash:      in.CustomerHash,
		State:             StateInitializing,
		StartedAt:         now,
		LastActivityAt:    now,
		PurchaseAmount:    in.PurchaseAmount,
		PurchaseItems:     in.PurchaseItems,
		ClientIP:          requestcontext.ClientIP(ctx),
		UserAgent:         requestcontext.UserAgent(ctx),
		DeviceFingerprint: requestcontext.DeviceFingerprint(ctx),
		Transcript:        transcript.NewAggregator(m.maxTurns),
	}
	if err := m.store.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateSession, "session id already exists")
		}
		return nil, err
	}

	m.metrics.IncrementStarted()
	m.metrics.IncrementActive()
	m.emit(ctx, events.TypeSessionStarted, rec, map[string]any{
		"purchase_amount": rec.PurchaseAmount.Minor(),
	})

	// The voice front end owns greeting playback; the record traverses the
	// greeting phase immediately so the first utterance finds it listening.
	rec, err := m.transition(ctx, rec, StateGreeting)
	if err != nil {
		return nil, err
	}
	rec, err = m.transition(ctx, rec, StateListening)
	if err != nil {
		return nil, err
	}

	m.timers.arm(rec.ID, timerCeiling, m.timeouts.Ceiling, func() { m.ceilingFired(sessionID) })
	m.armFor(rec)

	token, err := m.tokens.Issue(rec.ID, rec.BusinessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "minting turn token failed")
	}

	m.logger.InfoContext(ctx, "session started",
		"session_id", rec.ID,
		"business_id", rec.BusinessID,
		"purchase_amount", rec.PurchaseAmount,
	)
	return &StartResult{Session: rec, TurnToken: token}, nil
}

// AppendTurn records one utterance. Customer turns are accepted while
// listening, processing, responding, or under a silence warning; the two
// latter recover to listening first. System turns are accepted while
// processing only and park the session in responding.
// Errors: CodeInvalidState when the state forbids the turn.
func (m *Manager) AppendTurn(ctx context.Context, sessionID id.SessionID, turn transcript.Turn) (*Session, error) {
	start := time.Now()
	if err := turn.Validate(); err != nil {
		return nil, err
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = requestcontext.Now(ctx)
	}

	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, translateStateErr(err)
	}

	switch turn.Speaker {
	case transcript.SpeakerCustomer:
		rec, err = m.appendCustomerTurn(ctx, rec, turn)
	default:
		rec, err = m.appendSystemTurn(ctx, rec, turn)
	}
	if err != nil {
		return nil, err
	}

	m.armFor(rec)
	m.metrics.ObserveTurnLatency(time.Since(start))
	return rec, nil
}

func (m *Manager) appendCustomerTurn(ctx context.Context, rec *Session, turn transcript.Turn) (*Session, error) {
	var err error
	switch rec.State {
	case StateSilenceWarning, StateResponding:
		// The customer spoke again: recover to listening before handling
		// the utterance.
		if rec, err = m.transition(ctx, rec, StateListening); err != nil {
			return nil, err
		}
	case StateListening, StateProcessing:
	default:
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("cannot accept a customer turn in state %s", rec.State))
	}

	rec, err = m.append(ctx, rec.ID, turn)
	if err != nil {
		return nil, err
	}

	if rec.State == StateListening {
		if rec, err = m.transition(ctx, rec, StateProcessing); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (m *Manager) appendSystemTurn(ctx context.Context, rec *Session, turn transcript.Turn) (*Session, error) {
	if rec.State != StateProcessing {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("cannot accept a system turn in state %s", rec.State))
	}

	rec, err := m.append(ctx, rec.ID, turn)
	if err != nil {
		return nil, err
	}
	return m.transition(ctx, rec, StateResponding)
}

// append records the turn under the store lock. The state guard inside the
// closure makes the check-and-append atomic against concurrent timeouts.
func (m *Manager) append(ctx context.Context, sessionID id.SessionID, turn transcript.Turn) (*Session, error) {
	rec, err := m.store.Update(ctx, sessionID, func(r *Session) error {
		if r.State != StateListening && r.State != StateProcessing {
			return fmt.Errorf("appending requires listening or processing, session is %s: %w",
				r.State, sentinel.ErrInvalidState)
		}
		return r.Transcript.Append(turn)
	})
	if err != nil {
		return nil, translateStateErr(err)
	}
	return rec, nil
}

// CompleteInput carries the completion request. VoiceAuthenticity is the
// voice front end's synthetic-voice confidence for the session, nil when it
// did not report one.
type CompleteInput struct {
	SessionID         id.SessionID
	VoiceAuthenticity *float64
}

// Complete finalizes the session: it runs scoring and fraud assessment in
// parallel, joins them into the reward decision, and parks the decision on
// the completed record. A session in error state is retried, at most
// MaxErrorRetries times; exhausted retries abandon it.
// Errors: CodeInvalidState when completion is not allowed from the current
// state; pipeline errors surface coded and leave the session in error or
// abandoned.
func (m *Manager) Complete(ctx context.Context, in CompleteInput) (*Session, error) {
	rec, err := m.store.Get(ctx, in.SessionID)
	if err != nil {
		return nil, translateStateErr(err)
	}

	switch rec.State {
	case StateResponding, StateListening:
	case StateError:
		m.logger.InfoContext(ctx, "retrying failed completion",
			"session_id", rec.ID,
			"failed_attempts", rec.ErrorCount,
		)
		m.metrics.IncrementPipelineRetry("completion")
	default:
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("cannot complete a session in state %s", rec.State))
	}

	rec, err = m.transition(ctx, rec, StateCompleting)
	if err != nil {
		return nil, err
	}
	// The pipeline owns the session now; no timer may end it mid-flight.
	m.timers.cancelAll(rec.ID)

	out, perr := m.pipeline.Run(ctx, rec, in.VoiceAuthenticity)
	if perr != nil {
		return nil, m.completionFailed(ctx, rec, perr)
	}

	rec, err = m.store.Update(ctx, rec.ID, func(r *Session) error {
		r.Quality = out.Quality
		r.Assessment = out.Assessment
		r.Result = out.Decision
		return nil
	})
	if err != nil {
		return nil, translateStateErr(err)
	}
	rec, err = m.transition(ctx, rec, StateComplete)
	if err != nil {
		return nil, err
	}

	m.metrics.IncrementCompleted()
	m.metrics.DecrementActive()

	m.emit(ctx, events.TypeFraudAssessed, rec, map[string]any{
		"risk_score":       out.Assessment.OverallRiskScore,
		"risk_level":       string(out.Assessment.RiskLevel),
		"blocked":          out.Assessment.SessionBlocked,
		"degraded_signals": len(out.Assessment.DegradedSignals),
	})
	if out.Assessment.ManualReview {
		m.emit(ctx, events.TypeManualReviewFlagged, rec, map[string]any{
			"risk_level": string(out.Assessment.RiskLevel),
		})
	}
	m.emit(ctx, events.TypeRewardDecided, rec, map[string]any{
		"base_reward":   out.Decision.BaseReward.Minor(),
		"final_reward":  out.Decision.TierCappedReward.Minor(),
		"commission":    out.Decision.Commission.Minor(),
		"business_cost": out.Decision.BusinessCost.Minor(),
		"blocked":       out.Decision.Blocked,
	})
	m.emit(ctx, events.TypeSessionCompleted, rec, map[string]any{
		"quality_total": out.Quality.Total,
		"final_reward":  out.Decision.TierCappedReward.Minor(),
		"turns":         rec.Transcript.TotalTurns(),
	})

	m.logger.InfoContext(ctx, "session completed",
		"session_id", rec.ID,
		"business_id", rec.BusinessID,
		"quality", out.Quality.Total,
		"risk_level", out.Assessment.RiskLevel,
		"final_reward", out.Decision.TierCappedReward,
	)
	return rec, nil
}

// completionFailed moves a failed completion to error, or abandons it once
// the retry budget is spent. The pipeline error is returned either way so the
// caller learns why.
func (m *Manager) completionFailed(ctx context.Context, rec *Session, perr error) error {
	m.logger.ErrorContext(ctx, "completion pipeline failed",
		"session_id", rec.ID,
		"failed_attempts", rec.ErrorCount,
		"error", perr,
	)

	if rec.ErrorCount >= MaxErrorRetries {
		next, err := m.store.Transition(ctx, rec.ID, StateCompleting, StateAbandoned)
		if err != nil {
			m.logger.ErrorContext(ctx, "abandoning failed session failed",
				"session_id", rec.ID, "error", err)
			return perr
		}
		m.finalizeAbandon(ctx, next, StateCompleting, AbandonRetriesExhausted)
		return perr
	}

	next, err := m.store.Update(ctx, rec.ID, func(r *Session) error {
		r.ErrorCount++
		return nil
	})
	if err != nil {
		return perr
	}
	if _, err := m.transition(ctx, next, StateError); err != nil {
		m.logger.ErrorContext(ctx, "parking failed session in error failed",
			"session_id", rec.ID, "error", err)
	}
	return perr
}

// Get returns a snapshot of the session.
func (m *Manager) Get(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, translateStateErr(err)
	}
	return rec, nil
}

// transition performs a CAS edge with metrics and the state_changed event.
func (m *Manager) transition(ctx context.Context, rec *Session, to State) (*Session, error) {
	from := rec.State
	next, err := m.store.Transition(ctx, rec.ID, from, to)
	if err != nil {
		return nil, translateStateErr(err)
	}
	m.metrics.IncrementTransition(string(from), string(to))
	m.emit(ctx, events.TypeStateChanged, next, map[string]any{
		"from": string(from),
		"to":   string(to),
	})
	return next, nil
}

// armFor arms the timers appropriate for the state the session parked in.
func (m *Manager) armFor(rec *Session) {
	sessionID, gen := rec.ID, rec.Generation
	switch rec.State {
	case StateListening:
		m.timers.cancel(sessionID, timerAbandon)
		m.timers.arm(sessionID, timerSilence, m.timeouts.SilenceWarning, func() {
			m.silenceFired(sessionID, gen)
		})
	case StateProcessing, StateResponding:
		from := rec.State
		m.timers.cancel(sessionID, timerSilence)
		m.timers.arm(sessionID, timerAbandon, m.timeouts.Abandon, func() {
			m.abandonFired(sessionID, gen, from)
		})
	default:
		m.timers.cancelAll(sessionID)
	}
}

// silenceFired handles the silence timer: warn the session and start the
// countdown to abandonment. Stale generations are discarded.
func (m *Manager) silenceFired(sessionID id.SessionID, gen uint64) {
	ctx := context.Background()
	rec, err := m.store.TransitionIfGeneration(ctx, sessionID, gen, StateListening, StateSilenceWarning)
	if err != nil {
		m.discardTimerFire(ctx, timerSilence, sessionID, err)
		return
	}

	m.metrics.IncrementTransition(string(StateListening), string(StateSilenceWarning))
	m.emit(ctx, events.TypeStateChanged, rec, map[string]any{
		"from": string(StateListening),
		"to":   string(StateSilenceWarning),
	})
	m.emit(ctx, events.TypeSilenceWarning, rec, map[string]any{
		"silent_for": m.timeouts.SilenceWarning.String(),
	})
	m.logger.InfoContext(ctx, "silence warning issued", "session_id", sessionID)

	// The abandonment clock keeps counting from the last activity; only the
	// remainder is left.
	remainder := m.timeouts.Abandon - m.timeouts.SilenceWarning
	nextGen := rec.Generation
	m.timers.arm(sessionID, timerAbandon, remainder, func() {
		m.abandonFired(sessionID, nextGen, StateSilenceWarning)
	})
}

// abandonFired handles the inactivity timer. Stale generations are discarded.
func (m *Manager) abandonFired(sessionID id.SessionID, gen uint64, from State) {
	ctx := context.Background()
	rec, err := m.store.TransitionIfGeneration(ctx, sessionID, gen, from, StateAbandoned)
	if err != nil {
		m.discardTimerFire(ctx, timerAbandon, sessionID, err)
		return
	}
	m.finalizeAbandon(ctx, rec, from, AbandonInactivity)
}

// ceilingFired enforces the hard cap on session duration. Completing, error,
// and terminal sessions are left alone; everything else is abandoned, with a
// couple of re-reads in case the fire races ordinary transitions.
func (m *Manager) ceilingFired(sessionID id.SessionID) {
	ctx := context.Background()
	for attempt := 0; attempt < 3; attempt++ {
		rec, err := m.store.Get(ctx, sessionID)
		if err != nil {
			return
		}
		if rec.State.IsTerminal() || rec.State == StateCompleting || rec.State == StateError {
			m.metrics.IncrementStaleTimer(string(timerCeiling))
			return
		}

		next, err := m.store.Transition(ctx, sessionID, rec.State, StateAbandoned)
		if err != nil {
			if errors.Is(err, sentinel.ErrInvalidState) {
				continue
			}
			return
		}
		m.finalizeAbandon(ctx, next, rec.State, AbandonCeiling)
		return
	}
}

// finalizeAbandon records the abandonment after its CAS already succeeded.
func (m *Manager) finalizeAbandon(ctx context.Context, rec *Session, from State, reason AbandonReason) {
	m.timers.cancelAll(rec.ID)
	m.metrics.IncrementTransition(string(from), string(StateAbandoned))
	m.metrics.IncrementAbandoned(string(reason))
	m.metrics.DecrementActive()
	m.emit(ctx, events.TypeStateChanged, rec, map[string]any{
		"from": string(from),
		"to":   string(StateAbandoned),
	})
	m.emit(ctx, events.TypeSessionAbandoned, rec, map[string]any{
		"reason": string(reason),
		"turns":  rec.Transcript.TotalTurns(),
	})
	m.logger.InfoContext(ctx, "session abandoned",
		"session_id", rec.ID,
		"reason", reason,
	)
}

// discardTimerFire books a timer fire that lost its race. Anything other
// than the expected stale markers is logged; it would mean a timer survived
// its session.
func (m *Manager) discardTimerFire(ctx context.Context, kind timerKind, sessionID id.SessionID, err error) {
	if errors.Is(err, sentinel.ErrExpired) || errors.Is(err, sentinel.ErrInvalidState) {
		m.metrics.IncrementStaleTimer(string(kind))
		return
	}
	m.logger.WarnContext(ctx, "timer fire discarded",
		"timer", string(kind),
		"session_id", sessionID,
		"error", err,
	)
}

// emit publishes a lifecycle event, logging instead of failing the operation
// when the publisher rejects it.
func (m *Manager) emit(ctx context.Context, eventType events.Type, rec *Session, attrs map[string]any) {
	if m.events == nil {
		return
	}
	err := m.events.Emit(ctx, events.Event{
		Type:       eventType,
		SessionID:  rec.ID,
		BusinessID: rec.BusinessID,
		Attrs:      attrs,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "event emit failed",
			"type", string(eventType),
			"session_id", rec.ID,
			"error", err,
		)
	}
}

// translateStateErr maps store sentinels to coded domain errors.
func translateStateErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "operation not allowed in the session's current state")
	default:
		return err
	}
}
