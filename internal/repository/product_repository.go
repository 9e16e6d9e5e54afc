package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cosme-review/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// publishedReviewJoin is the join condition shared by every aggregate over
// published reviews: drafts and never-posted rows are invisible.
const publishedReviewJoin = `r.product_id = p.id AND r.is_draft = FALSE AND r.posted_at IS NOT NULL`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, category *domain.Category) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.ProductSearchResult, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Price,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, image_url = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Price,
		product.ImageURL,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product. Its reviews and their favorites go with it via
// ON DELETE CASCADE.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, category, price, image_url, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Price,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products, optionally restricted to one category
func (r *productRepository) List(ctx context.Context, category *domain.Category) ([]*domain.Product, error) {
	whereClause := ""
	args := []interface{}{}

	if category != nil {
		whereClause = "WHERE category = $1"
		args = append(args, *category)
	}

	query := fmt.Sprintf(`
		SELECT id, name, category, price, image_url, created_at, updated_at
		FROM products
		%s
		ORDER BY created_at DESC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Category,
			&product.Price,
			&product.ImageURL,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Search finds products by case-insensitive name substring, each annotated
// with the count and average rating of its published reviews. Zero-review
// products still match (LEFT JOIN), so avg_rating may be null.
func (r *productRepository) Search(ctx context.Context, query string) ([]*domain.ProductSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []*domain.ProductSearchResult{}, nil
	}

	searchPattern := "%" + query + "%"

	searchQuery := `
		SELECT p.id, p.name, p.category, p.price, p.image_url, p.created_at, p.updated_at,
		       COUNT(r.id) AS review_count,
		       AVG(r.rating) AS avg_rating
		FROM products p
		LEFT JOIN reviews r ON ` + publishedReviewJoin + `
		WHERE p.name ILIKE $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	results := []*domain.ProductSearchResult{}
	for rows.Next() {
		result := &domain.ProductSearchResult{}
		err := rows.Scan(
			&result.ID,
			&result.Name,
			&result.Category,
			&result.Price,
			&result.ImageURL,
			&result.CreatedAt,
			&result.UpdatedAt,
			&result.ReviewCount,
			&result.AvgRating,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}
