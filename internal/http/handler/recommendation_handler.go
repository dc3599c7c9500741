package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/service"
)

// RecommendationHandler handles HTTP requests for contact recommendations
type RecommendationHandler struct {
	recommendationService *service.RecommendationService
	logger                *zap.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(recommendationService *service.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// Recommend godoc
// @Summary Recommend contacts
// @Description Returns up to two suggested directory contacts for the inquiry. Previously generated suggestions are served from cache.
// @Tags Recommendations
// @Produce json
// @Param inquiryId path string true "Inquiry ID"
// @Success 200 {object} domain.APIResponse{data=domain.RecommendationResultDTO}
// @Failure 404 {object} domain.APIError "Inquiry not found or directory empty"
// @Failure 502 {object} domain.APIError "AI reply could not be used"
// @Security BearerAuth
// @Router /recommendations/{inquiryId} [get]
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	inquiryID, ok := parseUUIDParam(w, r, "inquiryId")
	if !ok {
		return
	}

	result, err := h.recommendationService.Recommend(r.Context(), inquiryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Inquiry not found")
		case errors.Is(err, service.ErrNoContacts):
			respondWithError(w, http.StatusNotFound, "No contacts available for recommendation")
		case errors.Is(err, service.ErrAIResponseInvalid), errors.Is(err, service.ErrExternal):
			h.logger.Warn("recommendation generation failed",
				zap.String("inquiryID", inquiryID.String()),
				zap.Error(err))
			respondWithError(w, http.StatusBadGateway, "Recommendation service is unavailable")
		default:
			h.logger.Error("failed to recommend contacts", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondSuccess(w, http.StatusOK, result, "")
}
