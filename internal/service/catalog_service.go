package service

import (
	"context"
	"time"

	"cosme-review/internal/domain"
	"cosme-review/internal/events"
	"cosme-review/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductInput carries the staff-editable fields of a product
type ProductInput struct {
	Name     string
	Category string
	Price    *int
	ImageURL string
}

// CatalogService manages the product catalog. Mutations are staff-only;
// reads are open to everyone.
type CatalogService interface {
	Create(ctx context.Context, requester domain.Requester, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, requester domain.Requester, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, requester domain.Requester, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, category string) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.ProductSearchResult, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService. publisher may
// be nil, which disables eventing.
func NewCatalogService(productRepo repository.ProductRepository, publisher events.Publisher, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func validateProductInput(input ProductInput) (*domain.Product, error) {
	var fields []FieldError

	if input.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name is required"})
	}

	category := domain.Category(input.Category)
	if !category.Valid() {
		fields = append(fields, FieldError{Field: "category", Message: "unknown category"})
	}

	if input.Price != nil && *input.Price < 0 {
		fields = append(fields, FieldError{Field: "price", Message: "price must not be negative"})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &domain.Product{
		Name:     input.Name,
		Category: category,
		Price:    input.Price,
		ImageURL: input.ImageURL,
	}, nil
}

// Create adds a product to the catalog
func (s *catalogService) Create(ctx context.Context, requester domain.Requester, input ProductInput) (*domain.Product, error) {
	if !requester.IsStaff {
		return nil, ErrPermissionDenied
	}

	product, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update overwrites a product's fields
func (s *catalogService) Update(ctx context.Context, requester domain.Requester, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if !requester.IsStaff {
		return nil, ErrPermissionDenied
	}

	product, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	if product.ImageURL == "" {
		product.ImageURL = existing.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product. Its reviews and their favorites are removed with
// it by the store's cascade.
func (s *catalogService) Delete(ctx context.Context, requester domain.Requester, id uuid.UUID) error {
	if !requester.IsStaff {
		return ErrPermissionDenied
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		event := events.Event{
			Type:      events.TypeProductDeleted,
			UserID:    requester.ID.String(),
			ProductID: id.String(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish event",
				zap.String("type", event.Type),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Get retrieves one product
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List retrieves products, optionally restricted to one category
func (s *catalogService) List(ctx context.Context, category string) ([]*domain.Product, error) {
	if category == "" {
		return s.productRepo.List(ctx, nil)
	}

	parsed := domain.Category(category)
	if !parsed.Valid() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "category", Message: "unknown category"}}}
	}

	return s.productRepo.List(ctx, &parsed)
}

// Search finds products by name substring with review aggregates attached
func (s *catalogService) Search(ctx context.Context, query string) ([]*domain.ProductSearchResult, error) {
	return s.productRepo.Search(ctx, query)
}
