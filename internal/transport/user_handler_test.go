package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"cosme-review/internal/domain"
	"cosme-review/internal/repository"
	"cosme-review/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// In-memory repositories backing the handlers under test

type mockUserRepository struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	profiles map[uuid.UUID]*domain.Profile
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:    make(map[string]*domain.User),
		profiles: make(map[uuid.UUID]*domain.Profile),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repository.ErrUserAlreadyExists
		}
	}
	m.users[user.Email] = user
	m.profiles[user.ID] = profile
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
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

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newTestUserHandler() (*UserHandler, service.UserService) {
	userRepo := newMockUserRepository()
	refreshTokenRepo := newMockRefreshTokenRepository()
	userService := service.NewUserService(userRepo, refreshTokenRepo, "test-secret")
	return NewUserHandler(userService, zap.NewNop()), userService
}

func postJSON(handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			handler, _ := newTestUserHandler()

			var reqBody RegisterRequest
			switch invalidCase % 5 {
			case 0:
				// Empty email
				reqBody = RegisterRequest{Username: "tester", Password: "ValidPass123"}
			case 1:
				// Invalid email format
				reqBody = RegisterRequest{Username: "tester", Email: "not-an-email", Password: "ValidPass123"}
			case 2:
				// Short password
				reqBody = RegisterRequest{Username: "tester", Email: "test@example.com", Password: "short"}
			case 3:
				// Username below the minimum
				reqBody = RegisterRequest{Username: "abc", Email: "test@example.com", Password: "ValidPass123"}
			case 4:
				// Demographic value outside the closed set
				reqBody = RegisterRequest{
					Username: "tester",
					Email:    "test@example.com",
					Password: "ValidPass123",
					SkinType: "reptile_skin",
				}
			}

			w := postJSON(handler.Register, "/api/users/register", reqBody)

			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}
			if _, exists := response["error"]; !exists {
				t.Logf("FAIL: Response missing 'error' field")
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SuccessfulRegistrationReturnsAccount(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("successful registration returns the account with all fields", prop.ForAll(
		func(username string, email string, password string) bool {
			handler, _ := newTestUserHandler()

			reqBody := RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
				AgeGroup: string(domain.AgeTwenties),
				Gender:   string(domain.GenderFemale),
				SkinType: string(domain.SkinDry),
			}
			w := postJSON(handler.Register, "/api/users/register", reqBody)

			if w.Code != http.StatusCreated {
				t.Logf("FAIL: Expected 201 status code, got %d", w.Code)
				return false
			}

			var account UserAccount
			if err := json.NewDecoder(w.Body).Decode(&account); err != nil {
				t.Logf("FAIL: Could not decode response: %v", err)
				return false
			}

			if account.Username != username || account.Email != email {
				t.Logf("FAIL: Account fields mismatch: %+v", account)
				return false
			}
			if account.IsStaff {
				t.Logf("FAIL: Fresh registrations must not be staff")
				return false
			}
			if _, err := uuid.Parse(account.ID); err != nil {
				t.Logf("FAIL: Account ID is not a valid UUID: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{4,20}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidLoginReturnsBothTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid login returns access token and refresh token", prop.ForAll(
		func(username string, email string, password string) bool {
			handler, userService := newTestUserHandler()

			_, err := userService.Register(context.Background(), service.RegisterInput{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return true // duplicate from a previous iteration
			}

			w := postJSON(handler.Login, "/api/users/login", LoginRequest{Email: email, Password: password})

			if w.Code != http.StatusOK {
				t.Logf("FAIL: Expected 200 status code, got %d", w.Code)
				return false
			}

			var loginResp LoginResponse
			if err := json.NewDecoder(w.Body).Decode(&loginResp); err != nil {
				t.Logf("FAIL: Could not decode login response: %v", err)
				return false
			}

			if loginResp.AccessToken == "" || loginResp.RefreshToken == "" {
				t.Logf("FAIL: Missing token in response")
				return false
			}
			if loginResp.User.Email != email {
				t.Logf("FAIL: User email mismatch")
				return false
			}

			claims, err := userService.ValidateToken(loginResp.AccessToken)
			if err != nil {
				t.Logf("FAIL: Access token validation failed: %v", err)
				return false
			}
			if claims.UserID.String() != loginResp.User.ID {
				t.Logf("FAIL: Token user ID doesn't match account ID")
				return false
			}

			newAccessToken, err := userService.RefreshToken(context.Background(), loginResp.RefreshToken)
			if err != nil {
				t.Logf("FAIL: Refresh token is not valid: %v", err)
				return false
			}
			if newAccessToken == "" {
				t.Logf("FAIL: Refresh token returned empty access token")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{4,20}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserHandler_DuplicateEmailConflict(t *testing.T) {
	handler, _ := newTestUserHandler()

	reqBody := RegisterRequest{Username: "original", Email: "dup@example.com", Password: "ValidPass123"}
	if w := postJSON(handler.Register, "/api/users/register", reqBody); w.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", w.Code)
	}

	reqBody.Username = "different"
	if w := postJSON(handler.Register, "/api/users/register", reqBody); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestUserHandler_LoginWrongPassword(t *testing.T) {
	handler, userService := newTestUserHandler()

	_, err := userService.Register(context.Background(), service.RegisterInput{
		Username: "tester",
		Email:    "tester@example.com",
		Password: "CorrectPass1",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	w := postJSON(handler.Login, "/api/users/login", LoginRequest{Email: "tester@example.com", Password: "WrongPass1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", w.Code)
	}
}

func TestUserHandler_RefreshWithRevokedToken(t *testing.T) {
	handler, userService := newTestUserHandler()
	ctx := context.Background()

	_, err := userService.Register(ctx, service.RegisterInput{
		Username: "tester",
		Email:    "tester@example.com",
		Password: "CorrectPass1",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, refreshToken, _, err := userService.Login(ctx, "tester@example.com", "CorrectPass1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := userService.Logout(ctx, refreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	w := postJSON(handler.RefreshToken, "/api/users/refresh", RefreshRequest{RefreshToken: refreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked refresh token, got %d", w.Code)
	}
}
