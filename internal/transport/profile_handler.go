package transport

import (
	"net/http"

	"cosme-review/internal/middleware"
	"cosme-review/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileRequest represents a demographic profile update payload
type ProfileRequest struct {
	AgeGroup string `json:"age_group"`
	Gender   string `json:"gender"`
	SkinType string `json:"skin_type"`
}

// ProfileHandler handles HTTP requests for demographic profiles
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers the profile routes. All require authentication.
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Get)
		r.Put("/", h.Update)
	})
}

// Get returns the caller's demographic profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// Update replaces the caller's demographic profile. Published reviews keep
// the demographics they were posted with.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, service.ProfileInput{
		AgeGroup: req.AgeGroup,
		Gender:   req.Gender,
		SkinType: req.SkinType,
	})
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		h.logger.Error("Failed to update profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profile)
}
