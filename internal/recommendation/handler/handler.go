package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"covera/internal/recommendation"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/httputil"
	"covera/pkg/requestcontext"
)

// Service defines the interface for recommendation operations.
type Service interface {
	Compute(ctx context.Context, userID id.UserID, profile recommendation.UserProfile) (recommendation.Record, error)
	History(ctx context.Context, userID id.UserID, limit, offset int) ([]recommendation.Record, int, error)
	Get(ctx context.Context, userID id.UserID, recID id.RecommendationID) (recommendation.Record, error)
	Latest(ctx context.Context, userID id.UserID) (recommendation.Record, error)
}

// Handler wires recommendation endpoints to the recommendation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a recommendation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts recommendation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/recommendations", h.HandleCompute)
	r.Get("/recommendations", h.HandleHistory)
	r.Get("/recommendations/latest", h.HandleLatest)
	r.Get("/recommendations/{recommendationID}", h.HandleGet)
}

// HandleCompute handles POST /recommendations requests.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ComputeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Compute(ctx, userID, req.ParsedProfile())
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation compute failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "recommendation computed",
		"request_id", requestID,
		"user_id", userID,
		"recommendation_id", record.ID,
		"policy_type", record.Result.Policy.Type,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleHistory handles GET /recommendations requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	limit, offset, err := parsePagination(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, total, err := h.service.History(ctx, userID, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation history lookup failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{
		Recommendations: FromRecords(records),
		Total:           total,
		Limit:           limit,
		Offset:          offset,
	})
}

// HandleLatest handles GET /recommendations/latest requests.
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	record, err := h.service.Latest(ctx, userID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "latest recommendation lookup failed",
				"request_id", requestID,
				"user_id", userID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleGet handles GET /recommendations/{recommendationID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	recID, err := id.ParseRecommendationID(chi.URLParam(r, "recommendationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid recommendation id"))
		return
	}

	record, err := h.service.Get(ctx, userID, recID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "recommendation lookup failed",
				"request_id", requestID,
				"user_id", userID,
				"recommendation_id", recID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}
