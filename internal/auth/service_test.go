package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	pkgauth "github.com/ecomstore/backend/pkg/auth"
	"github.com/ecomstore/backend/pkg/auth/session"
	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/security"
)

type userStore struct {
	users     map[string]*models.User
	lastLogin *time.Time
}

func (s *userStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.users[user.Email] = user
	return user, nil
}

func (s *userStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userStore) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (s *userStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type sessionStub struct {
	tokens  map[string]string
	revoked []string
}

func newSessionStub() *sessionStub {
	return &sessionStub{tokens: make(map[string]string)}
}

func (s *sessionStub) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	return token, nil
}

func (s *sessionStub) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	next := session.NewAccessID()
	s.tokens[next] = "refresh-" + next
	return next, s.tokens[next], nil
}

func (s *sessionStub) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "ecomstore-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 43200,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seedUser(t *testing.T, store *userStore, email, password string, role enums.Role) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
	store.users[email] = user
	return user
}

func newAuthService(t *testing.T, store *userStore, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:    store,
		Sessions: sessions,
		JWT:      testJWTConfig(),
		Logger:   logger.New(logger.Options{Level: zerolog.Disabled}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	store := &userStore{users: make(map[string]*models.User)}
	user := seedUser(t, store, "dina@example.com", "sup3rsecret", enums.RoleCustomer)
	sessions := newSessionStub()
	svc := newAuthService(t, store, sessions)

	pair, err := svc.Login(context.Background(), "dina@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.User.ID != user.ID || pair.User.Role != enums.RoleCustomer {
		t.Fatalf("user view = %+v", pair.User)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}
	if _, ok := sessions.tokens[claims.ID]; !ok {
		t.Fatal("refresh session must be keyed by the token jti")
	}
	if store.lastLogin == nil {
		t.Fatal("last login must be recorded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := &userStore{users: make(map[string]*models.User)}
	seedUser(t, store, "dina@example.com", "sup3rsecret", enums.RoleCustomer)
	svc := newAuthService(t, store, newSessionStub())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "dina@example.com", "nope"},
		{"unknown email", "ghost@example.com", "sup3rsecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			if derr := pkgerrors.As(err); derr == nil || derr.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("error = %v, want unauthorized", err)
			}
		})
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	store := &userStore{users: make(map[string]*models.User)}
	user := seedUser(t, store, "dina@example.com", "sup3rsecret", enums.RoleCustomer)
	user.IsActive = false
	svc := newAuthService(t, store, newSessionStub())

	_, err := svc.Login(context.Background(), "dina@example.com", "sup3rsecret")
	if derr := pkgerrors.As(err); derr == nil || derr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	store := &userStore{users: make(map[string]*models.User)}
	seedUser(t, store, "dina@example.com", "sup3rsecret", enums.RoleCustomer)
	sessions := newSessionStub()
	svc := newAuthService(t, store, sessions)

	pair, err := svc.Login(context.Background(), "dina@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.AccessToken, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.AccessToken == pair.AccessToken || next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh must rotate both tokens")
	}

	// The old refresh token is burned.
	if _, err := svc.Refresh(context.Background(), pair.AccessToken, pair.RefreshToken); err == nil {
		t.Fatal("replaying the old refresh token must fail")
	}
}

func TestRefreshRejectsForeignToken(t *testing.T) {
	store := &userStore{users: make(map[string]*models.User)}
	seedUser(t, store, "dina@example.com", "sup3rsecret", enums.RoleCustomer)
	sessions := newSessionStub()
	svc := newAuthService(t, store, sessions)

	pair, err := svc.Login(context.Background(), "dina@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), pair.AccessToken, "stolen-token")
	if derr := pkgerrors.As(err); derr == nil || derr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	store := &userStore{users: make(map[string]*models.User)}
	seedUser(t, store, "dina@example.com", "sup3rsecret", enums.RoleCustomer)
	sessions := newSessionStub()
	svc := newAuthService(t, store, sessions)

	pair, err := svc.Login(context.Background(), "dina@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatalf("revoked = %v", sessions.revoked)
	}
}
