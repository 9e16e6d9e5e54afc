package transport

import (
	"net/http"
	"strconv"

	"cosme-review/internal/middleware"
	"cosme-review/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RankingHandler handles HTTP requests for popularity rankings
type RankingHandler struct {
	rankingService service.RankingService
	logger         *zap.Logger
}

// NewRankingHandler creates a new RankingHandler
func NewRankingHandler(rankingService service.RankingService, logger *zap.Logger) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the ranking routes. Rankings are public.
func (h *RankingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/rankings", h.Rank)
}

// Rank returns products ordered by published review count, filtered by the
// optional category and demographic query parameters
func (h *RankingHandler) Rank(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	rankings, err := h.rankingService.Rank(r.Context(), service.RankingQuery{
		Category: q.Get("category"),
		SkinType: q.Get("skin_type"),
		AgeGroup: q.Get("age_group"),
		Limit:    limit,
	})
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		h.logger.Error("Ranking query failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute ranking")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rankings)
}
