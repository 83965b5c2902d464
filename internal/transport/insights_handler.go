package transport

import (
	"errors"
	"net/http"
	"strconv"

	"freshmind/internal/middleware"
	"freshmind/internal/repository"
	"freshmind/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InsightsHandler handles HTTP requests for purchase analytics
type InsightsHandler struct {
	insightsService service.InsightsService
	logger          *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(insightsService service.InsightsService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		logger:          logger,
	}
}

// RegisterRoutes registers all insights routes
func (h *InsightsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/users/{id}/purchase-summary", h.PurchaseSummary)
}

// PurchaseSummary returns a user's purchase analytics. period_days defaults
// to the service's 90-day window.
func (h *InsightsHandler) PurchaseSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	periodDays := 0
	if raw := r.URL.Query().Get("period_days"); raw != "" {
		periodDays, err = strconv.Atoi(raw)
		if err != nil || periodDays <= 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid period_days")
			return
		}
	}

	summary, err := h.insightsService.Summary(r.Context(), userID, periodDays)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error("Failed to build purchase summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build purchase summary")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}
