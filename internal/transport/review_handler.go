package transport

import (
	"net/http"

	"cosme-review/internal/domain"
	"cosme-review/internal/middleware"
	"cosme-review/internal/repository"
	"cosme-review/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewRequest represents a draft save, publish, or edit payload
type ReviewRequest struct {
	Rating           *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	GoodpointComment string `json:"goodpoint_comment"`
	BadpointComment  string `json:"badpoint_comment"`
	ImageURL         string `json:"image_url"`
}

// EditReviewRequest is a review edit with its target state
type EditReviewRequest struct {
	ReviewRequest
	Action string `json:"action" validate:"required,oneof=publish draft"`
}

func (req *ReviewRequest) toInput() service.ReviewInput {
	return service.ReviewInput{
		Rating:           req.Rating,
		GoodpointComment: req.GoodpointComment,
		BadpointComment:  req.BadpointComment,
		ImageURL:         req.ImageURL,
	}
}

// ReviewHandler handles HTTP requests for the review lifecycle
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/api/products/{productID}/reviews", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.ListForProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Publish)
			r.Post("/draft", h.SaveDraft)
			r.Get("/draft", h.GetDraft)
		})
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/drafts", h.ListDrafts)
		r.Get("/mine", h.ListMine)
		r.Put("/{reviewID}", h.Edit)
		r.Delete("/{reviewID}", h.Delete)
		r.Delete("/{reviewID}/draft", h.DeleteDraft)
	})
}

func requesterFrom(r *http.Request) (domain.Requester, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return domain.Requester{}, false
	}
	return domain.Requester{ID: userID, IsStaff: middleware.GetIsStaff(r.Context())}, true
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// SaveDraft creates or overwrites the caller's draft for a product
func (h *ReviewHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.SaveDraft(r.Context(), requester, productID, req.toInput())
	if err != nil {
		h.respondReviewError(w, err, "failed to save draft")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// Publish publishes the caller's review for a product, absorbing any draft
func (h *ReviewHandler) Publish(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Publish(r.Context(), requester, productID, req.toInput())
	if err != nil {
		h.respondReviewError(w, err, "failed to publish review")
		return
	}

	h.logger.Info("Review published",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", requester.ID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// Edit updates an existing review, optionally moving it between draft and
// published states
func (h *ReviewHandler) Edit(w http.ResponseWriter, r *http.Request) {
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

	var req EditReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Edit(r.Context(), requester, reviewID, req.toInput(), service.ReviewAction(req.Action))
	if err != nil {
		h.respondReviewError(w, err, "failed to edit review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// Delete removes a review. Owners may delete their published reviews; staff
// may delete any review.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.reviewService.Delete(r.Context(), requester, reviewID); err != nil {
		h.respondReviewError(w, err, "failed to delete review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

// DeleteDraft discards the caller's draft
func (h *ReviewHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
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

	if err := h.reviewService.DeleteDraft(r.Context(), requester, reviewID); err != nil {
		h.respondReviewError(w, err, "failed to delete draft")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "draft deleted"})
}

// GetDraft returns the caller's draft for a product, if any
func (h *ReviewHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	review, err := h.reviewService.GetDraft(r.Context(), requester, productID)
	if err != nil {
		h.respondReviewError(w, err, "failed to get draft")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// ListDrafts returns the caller's drafts across all products
func (h *ReviewHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviews, err := h.reviewService.ListDrafts(r.Context(), requester)
	if err != nil {
		h.respondReviewError(w, err, "failed to list drafts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// ListMine returns the caller's published reviews
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviews, err := h.reviewService.ListPublishedByUser(r.Context(), requester)
	if err != nil {
		h.respondReviewError(w, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// ListForProduct returns the published reviews of a product, annotated with
// the viewer's favorite state when authenticated
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var viewer *uuid.UUID
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		viewer = &userID
	}

	reviews, err := h.reviewService.ListForProduct(r.Context(), productID, viewer)
	if err != nil {
		h.respondReviewError(w, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) respondReviewError(w http.ResponseWriter, err error, fallback string) {
	if respondValidationError(w, err) {
		return
	}
	switch err {
	case service.ErrPermissionDenied:
		middleware.RespondWithError(w, http.StatusForbidden, "permission denied")
	case repository.ErrReviewNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "review not found")
	case repository.ErrDraftNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "draft not found")
	case repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error("Review operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
