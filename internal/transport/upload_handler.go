package transport

import (
	"net/http"

	"cosme-review/internal/middleware"
	"cosme-review/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadSize bounds a single image upload
const maxUploadSize = 10 << 20 // 10 MiB

// UploadResponse carries the stored object name and its public URL
type UploadResponse struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
}

// UploadHandler handles multipart image uploads for reviews and products
type UploadHandler struct {
	store  storage.ImageStore
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store storage.ImageStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers the upload routes. All require authentication.
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/uploads", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/reviews", h.uploadKind("reviews"))
		r.Post("/products", h.uploadKind("products"))
	})
}

func (h *UploadHandler) uploadKind(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form or file too large")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
			return
		}
		defer file.Close()

		objectName, url, err := h.store.Upload(r.Context(), kind, header.Filename, file, header.Size)
		if err != nil {
			h.logger.Error("Image upload failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload image")
			return
		}

		h.logger.Info("Image uploaded",
			zap.String("kind", kind),
			zap.String("object_name", objectName),
		)
		middleware.RespondWithJSON(w, http.StatusCreated, UploadResponse{
			ObjectName: objectName,
			URL:        url,
		})
	}
}
