package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vocilia/internal/session"
	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/httputil"
	"vocilia/pkg/requestcontext"
)

// Service defines the interface for session lifecycle operations.
type Service interface {
	Start(ctx context.Context, in session.StartInput) (*session.StartResult, error)
	AppendTurn(ctx context.Context, sessionID id.SessionID, turn transcript.Turn) (*session.Session, error)
	Complete(ctx context.Context, in session.CompleteInput) (*session.Session, error)
	Get(ctx context.Context, sessionID id.SessionID) (*session.Session, error)
}

// TokenValidator checks turn tokens presented on session-scoped endpoints.
type TokenValidator interface {
	Validate(tokenString string) (*session.TurnClaims, error)
}

// Handler wires session endpoints to the session manager.
type Handler struct {
	service Service
	tokens  TokenValidator
	logger  *slog.Logger
}

// New constructs a session handler with its dependencies.
func New(service Service, tokens TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleStart)
	r.Get("/sessions/{sessionID}", h.HandleGet)
	r.Post("/sessions/{sessionID}/turns", h.HandleAppendTurn)
	r.Post("/sessions/{sessionID}/complete", h.HandleComplete)
}

// HandleStart handles POST /sessions requests.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[StartSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Start(ctx, session.StartInput{
		SessionID:      req.ParsedSessionID(),
		BusinessID:     req.ParsedBusinessID(),
		CustomerHash:   req.ParsedCustomerHash(),
		PurchaseAmount: req.ParsedPurchaseAmount(),
		PurchaseItems:  req.PurchaseItems,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "session start failed",
			"request_id", requestID,
			"business_id", req.BusinessID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "session started",
		"request_id", requestID,
		"session_id", result.Session.ID,
		"business_id", result.Session.BusinessID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromStartResult(result))
}

// HandleAppendTurn handles POST /sessions/{sessionID}/turns requests.
func (h *Handler) HandleAppendTurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	sessionID, ok := h.sessionFromPath(w, r)
	if !ok {
		return
	}
	if err := h.authorize(r, sessionID); err != nil {
		h.logger.WarnContext(ctx, "turn rejected",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AppendTurnRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sess, err := h.service.AppendTurn(ctx, sessionID, req.ParsedTurn())
	if err != nil {
		h.logger.ErrorContext(ctx, "append turn failed",
			"request_id", requestID,
			"session_id", sessionID,
			"speaker", req.Speaker,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "turn appended",
		"request_id", requestID,
		"session_id", sessionID,
		"speaker", req.Speaker,
		"state", sess.State,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleComplete handles POST /sessions/{sessionID}/complete requests.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	sessionID, ok := h.sessionFromPath(w, r)
	if !ok {
		return
	}
	if err := h.authorize(r, sessionID); err != nil {
		h.logger.WarnContext(ctx, "completion rejected",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CompleteSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sess, err := h.service.Complete(ctx, session.CompleteInput{
		SessionID:         sessionID,
		VoiceAuthenticity: req.VoiceAuthenticity,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "session completion failed",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "session completed",
		"request_id", requestID,
		"session_id", sessionID,
		"state", sess.State,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleGet handles GET /sessions/{sessionID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, ok := h.sessionFromPath(w, r)
	if !ok {
		return
	}

	sess, err := h.service.Get(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "session lookup failed",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

func (h *Handler) sessionFromPath(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return sessionID, true
}

// authorize checks the Bearer turn token and that it was minted for the
// session addressed by the path.
func (h *Handler) authorize(r *http.Request, sessionID id.SessionID) error {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "missing bearer turn token")
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID.String() {
		return dErrors.New(dErrors.CodeUnauthorized, "turn token was issued for a different session")
	}
	return nil
}
