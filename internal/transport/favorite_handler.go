package transport

import (
	"net/http"

	"cosme-review/internal/middleware"
	"cosme-review/internal/repository"
	"cosme-review/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ToggleResponse reports the state of a favorite after a toggle
type ToggleResponse struct {
	Favorited bool `json:"favorited"`
}

// FavoriteHandler handles HTTP requests for review favorites
type FavoriteHandler struct {
	favoriteService service.FavoriteService
	logger          *zap.Logger
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteService service.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// RegisterRoutes registers the favorite routes. All require authentication.
func (h *FavoriteHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/favorites", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/reviews/{reviewID}", h.Toggle)
	})
}

// Toggle flips the caller's favorite on a review and returns the new state
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	added, err := h.favoriteService.Toggle(r.Context(), requester, reviewID)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "review not found")
			return
		}
		h.logger.Error("Favorite toggle failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ToggleResponse{Favorited: added})
}

// List returns the caller's favorites with their reviews and products
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.favoriteService.ListByUser(r.Context(), requester)
	if err != nil {
		h.logger.Error("Favorite list failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}
