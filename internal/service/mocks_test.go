package service

import (
	"context"
	"sync"
	"time"

	"cosme-review/internal/domain"
	"cosme-review/internal/events"
	"cosme-review/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories shared by the service tests.

type mockUserRepository struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	profiles map[uuid.UUID]*domain.Profile
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:    make(map[uuid.UUID]*domain.User),
		profiles: make(map[uuid.UUID]*domain.Profile),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	m.profiles[user.ID] = profile
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, tokenString string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenString]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if token.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return token, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenString]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	token.Revoked = true
	return nil
}

type mockProfileRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (m *mockProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	profile := &domain.Profile{UserID: userID, UpdatedAt: time.Now()}
	m.profiles[userID] = profile
	return profile, nil
}

func (m *mockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepository) set(profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[id]; ok {
		return product, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, category *domain.Category) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, product := range m.products {
		if category == nil || product.Category == *category {
			out = append(out, product)
		}
	}
	return out, nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string) ([]*domain.ProductSearchResult, error) {
	return nil, nil
}

type mockReviewRepository struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*domain.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[uuid.UUID]*domain.Review)}
}

func (m *mockReviewRepository) findDraftLocked(userID, productID uuid.UUID) *domain.Review {
	for _, review := range m.reviews {
		if review.UserID == userID && review.ProductID == productID && review.IsDraft {
			return review
		}
	}
	return nil
}

func (m *mockReviewRepository) SaveDraft(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.findDraftLocked(review.UserID, review.ProductID); existing != nil {
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
		if review.ImageURL == "" {
			review.ImageURL = existing.ImageURL
		}
	}
	review.IsDraft = true
	clone := *review
	m.reviews[review.ID] = &clone
	return nil
}

func (m *mockReviewRepository) Publish(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing := m.findDraftLocked(review.UserID, review.ProductID); existing != nil {
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
		if existing.PostedAt != nil {
			review.PostedAt = existing.PostedAt
		}
	}
	if review.PostedAt == nil {
		review.PostedAt = &now
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.IsDraft = false
	clone := *review
	m.reviews[review.ID] = &clone
	return nil
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[review.ID]
	if !ok {
		return repository.ErrReviewNotFound
	}
	if review.IsDraft {
		review.PostedAt = existing.PostedAt
	} else if existing.PostedAt != nil {
		review.PostedAt = existing.PostedAt
	} else {
		now := time.Now()
		review.PostedAt = &now
	}
	clone := *review
	m.reviews[review.ID] = &clone
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if review, ok := m.reviews[id]; ok {
		clone := *review
		return &clone, nil
	}
	return nil, repository.ErrReviewNotFound
}

func (m *mockReviewRepository) FindDraft(ctx context.Context, userID, productID uuid.UUID) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if review := m.findDraftLocked(userID, productID); review != nil {
		clone := *review
		return &clone, nil
	}
	return nil, repository.ErrDraftNotFound
}

func (m *mockReviewRepository) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Review
	for _, review := range m.reviews {
		if review.UserID == userID && review.IsDraft {
			clone := *review
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) ListPublishedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Review
	for _, review := range m.reviews {
		if review.UserID == userID && !review.IsDraft {
			clone := *review
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) ListPublishedByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Review
	for _, review := range m.reviews {
		if review.ProductID == productID && !review.IsDraft {
			clone := *review
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) ListRecentPublished(ctx context.Context, limit int) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Review
	for _, review := range m.reviews {
		if !review.IsDraft {
			clone := *review
			out = append(out, &clone)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type favoriteKey struct {
	userID   uuid.UUID
	reviewID uuid.UUID
}

type mockFavoriteRepository struct {
	mu        sync.Mutex
	favorites map[favoriteKey]bool
}

func newMockFavoriteRepository() *mockFavoriteRepository {
	return &mockFavoriteRepository{favorites: make(map[favoriteKey]bool)}
}

func (m *mockFavoriteRepository) Toggle(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := favoriteKey{userID, reviewID}
	if m.favorites[key] {
		delete(m.favorites, key)
		return false, nil
	}
	m.favorites[key] = true
	return true, nil
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.FavoriteEntry, error) {
	return nil, nil
}

func (m *mockFavoriteRepository) FavoritedSet(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for _, id := range reviewIDs {
		if m.favorites[favoriteKey{userID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

// capturePublisher records events instead of talking to a broker
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) captured() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}
