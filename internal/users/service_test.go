package users

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/security"
)

type userRepoStub struct {
	byEmail map[string]*models.User
	created *models.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byEmail: map[string]*models.User{}}
}

func (r *userRepoStub) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "users_email_key"`}
	}
	user.ID = uuid.New()
	r.byEmail[user.Email] = user
	r.created = user
	return user, nil
}

func (r *userRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errNotFoundStub
}

func (r *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, errNotFoundStub
}

func (r *userRepoStub) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *userRepoStub) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

var errNotFoundStub = stubErr("record not found")

type stubErr string

func (e stubErr) Error() string { return string(e) }

func testUsersService(t *testing.T) (Service, *userRepoStub) {
	t.Helper()
	repo := newUserRepoStub()
	cfg := config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	svc, err := NewService(repo, cfg, logger.New(logger.Options{Level: zerolog.Disabled}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	svc, repo := testUsersService(t)

	view, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Dina@Example.COM ",
		Password: "correct horse",
		FullName: " Dina Rahma ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if view.Email != "dina@example.com" || view.FullName != "Dina Rahma" {
		t.Fatalf("view = %+v", view)
	}
	if view.Role != enums.RoleCustomer || !view.IsActive {
		t.Fatalf("view = %+v", view)
	}
	if repo.created.PasswordHash == "" || strings.Contains(repo.created.PasswordHash, "correct horse") {
		t.Fatal("password must be stored hashed")
	}
	ok, err := security.VerifyPassword("correct horse", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash must verify, ok=%v err=%v", ok, err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := testUsersService(t)

	input := RegisterInput{Email: "dina@example.com", Password: "correct horse", FullName: "Dina Rahma"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), input)
	if derr := pkgerrors.As(err); derr == nil || derr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	svc, _ := testUsersService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "dina@example.com"})
	if derr := pkgerrors.As(err); derr == nil || derr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}
