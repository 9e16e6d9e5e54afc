package transport

import (
	"net/http"

	"cosme-review/internal/domain"
	"cosme-review/internal/middleware"
	"cosme-review/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	homeRankingSize = 5
	homeRecentSize  = 10
)

// HomeResponse is the landing page payload: the overall top products and the
// newest published reviews
type HomeResponse struct {
	Rankings      []*domain.ProductRanking  `json:"rankings"`
	RecentReviews []*domain.AnnotatedReview `json:"recent_reviews"`
}

// HomeHandler serves the aggregated landing page data
type HomeHandler struct {
	rankingService service.RankingService
	reviewService  service.ReviewService
	logger         *zap.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(rankingService service.RankingService, reviewService service.ReviewService, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		rankingService: rankingService,
		reviewService:  reviewService,
		logger:         logger,
	}
}

// RegisterRoutes registers the home route. Public, with favorite annotations
// when a valid token is present.
func (h *HomeHandler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.With(optionalAuth).Get("/api/home", h.Home)
}

// Home returns the top-ranked products and the most recent published reviews
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.rankingService.Top(r.Context(), homeRankingSize)
	if err != nil {
		h.logger.Error("Home ranking query failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load home data")
		return
	}

	var viewer *uuid.UUID
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		viewer = &userID
	}

	recent, err := h.reviewService.ListRecent(r.Context(), homeRecentSize, viewer)
	if err != nil {
		h.logger.Error("Home recent reviews query failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load home data")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, HomeResponse{
		Rankings:      rankings,
		RecentReviews: recent,
	})
}
