package transport

import (
	"net/http"

	"cosme-review/internal/middleware"
	"cosme-review/internal/repository"
	"cosme-review/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest represents a catalog create or update payload
type ProductRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Price    *int   `json:"price" validate:"omitempty,gte=0"`
	ImageURL string `json:"image_url"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Mutations require an
// authenticated staff user; reads are public.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, requireStaff func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/{productID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(requireStaff)
			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Delete("/{productID}", h.Delete)
		})
	})
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.Create(r.Context(), requester, service.ProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.respondCatalogError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces a product's editable fields
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.Update(r.Context(), requester, productID, service.ProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.respondCatalogError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product and, by cascade, its reviews
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.catalogService.Delete(r.Context(), requester, productID); err != nil {
		h.respondCatalogError(w, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.Get(r.Context(), productID)
	if err != nil {
		h.respondCatalogError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// List returns catalog products, optionally filtered by category
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.respondCatalogError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Search returns products matching a name query, with review aggregates
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalogService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondCatalogError(w, err, "failed to search products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, results)
}

func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, err error, fallback string) {
	if respondValidationError(w, err) {
		return
	}
	switch err {
	case service.ErrPermissionDenied:
		middleware.RespondWithError(w, http.StatusForbidden, "permission denied")
	case repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error("Catalog operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
