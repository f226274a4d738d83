package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vocilia/internal/business"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/httputil"
	"vocilia/pkg/platform/sentinel"
	"vocilia/pkg/requestcontext"
)

// Handler exposes the business context as a read-only diagnostic. Context
// mutation belongs to the external business management surface.
type Handler struct {
	store  business.ContextStore
	logger *slog.Logger
}

func New(store business.ContextStore, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts business endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/businesses/{businessID}/context", h.HandleGetContext)
}

// HandleGetContext handles GET /businesses/{businessID}/context requests.
func (h *Handler) HandleGetContext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bizCtx, err := h.store.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.Wrap(err, dErrors.CodeNotFound, "unknown business")
		}
		h.logger.WarnContext(ctx, "business context lookup failed",
			"request_id", requestID,
			"business_id", businessID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromContext(bizCtx))
}
