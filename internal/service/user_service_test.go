package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"glamour-boutique/internal/domain"
	"glamour-boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[normalizeEmail(email)]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	for _, user := range m.users {
		if user.ID == id {
			user.Name = name
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
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
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newTestUserService(adminEmails ...string) UserService {
	return NewUserService(newMockUserRepository(), newMockRefreshTokenRepository(), "test-secret-key", adminEmails)
}

// Feature: storefront, Property 6: registration stores bcrypt hashes, never
// plaintext
func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(name string, email string, password string) bool {
			service := newTestUserService()
			ctx := context.Background()

			user, err := service.Register(ctx, name, email, password)
			if err != nil {
				// If registration fails, skip this test case
				return true
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash or doesn't match: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 7: only allow-listed emails get the admin
// role, compared case-insensitively on trimmed addresses
func TestProperty_AdminRoleFollowsAllowList(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("login stamps admin exactly for allow-listed emails", prop.ForAll(
		func(email string, password string, listed bool, shout bool) bool {
			var allowList []string
			if listed {
				// The configured entry may differ in case and padding
				allowList = []string{"  " + strings.ToUpper(email) + " "}
			}
			service := newTestUserService(allowList...)
			ctx := context.Background()

			registeredEmail := email
			if shout {
				// The user may type their own email in a different case
				registeredEmail = strings.ToUpper(email)
			}

			if _, err := service.Register(ctx, "Test", registeredEmail, password); err != nil {
				return true
			}

			accessToken, _, user, err := service.Login(ctx, registeredEmail, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			wantRole := RoleUser
			if listed {
				wantRole = RoleAdmin
			}
			if user.Role != wantRole {
				t.Logf("FAIL: expected role %s for email %s, got %s", wantRole, email, user.Role)
				return false
			}

			claims, err := service.ValidateToken(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}
			if claims.Role != wantRole {
				t.Logf("FAIL: expected role claim %s, got %s", wantRole, claims.Role)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 8: token refresh round trip
func TestProperty_TokenRefreshRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid refresh token returns new valid access token", prop.ForAll(
		func(name string, email string, password string) bool {
			service := newTestUserService()
			ctx := context.Background()

			if _, err := service.Register(ctx, name, email, password); err != nil {
				return true
			}

			_, refreshToken, user, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			newAccessToken, err := service.RefreshToken(ctx, refreshToken)
			if err != nil {
				t.Logf("FAIL: Token refresh failed: %v", err)
				return false
			}

			claims, err := service.ValidateToken(newAccessToken)
			if err != nil {
				t.Logf("FAIL: New access token validation failed: %v", err)
				return false
			}

			if claims.UserID != user.ID {
				t.Logf("FAIL: User ID mismatch in refreshed token")
				return false
			}
			if claims.Email != user.Email {
				t.Logf("FAIL: Email mismatch in refreshed token")
				return false
			}
			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				t.Logf("FAIL: Refreshed token is already expired")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	service := newTestUserService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, refreshToken, _, err := service.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := service.RefreshToken(ctx, refreshToken); err != nil {
		t.Fatalf("refresh token should work before logout: %v", err)
	}

	if err := service.Logout(ctx, refreshToken); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if _, err := service.RefreshToken(ctx, refreshToken); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}

	// Logging out twice is not an error
	if err := service.Logout(ctx, refreshToken); err != nil {
		t.Fatalf("repeated Logout returned error: %v", err)
	}
}

func TestIsAdminEmail(t *testing.T) {
	service := newTestUserService("Boutique@Example.com")

	cases := []struct {
		email string
		want  bool
	}{
		{"boutique@example.com", true},
		{"BOUTIQUE@EXAMPLE.COM", true},
		{"  boutique@example.com  ", true},
		{"someone@example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := service.IsAdminEmail(tc.email); got != tc.want {
			t.Errorf("IsAdminEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestUpdateName(t *testing.T) {
	service := newTestUserService()
	ctx := context.Background()

	user, err := service.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	updated, err := service.UpdateName(ctx, user.ID, "Alice Smith")
	if err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if updated.Name != "Alice Smith" {
		t.Fatalf("expected the new name, got %q", updated.Name)
	}
}
