package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/db"
	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/pagination"
	"github.com/ecomstore/backend/pkg/security"
)

// RegisterInput is a storefront signup request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

// UserView is the safe user projection returned by the API.
type UserView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// UserList wraps the backoffice user listing.
type UserList struct {
	Items      []UserView `json:"items"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
	Page       int        `json:"page"`
}

// Service manages account creation and user projections.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, page, limit int) (*UserList, error)
}

type service struct {
	repo     Repository
	password config.PasswordConfig
	logger   *logger.Logger
}

func NewService(repo Repository, password config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, password: password, logger: logg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserView, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, password and full name are required")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         enums.RoleCustomer,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	s.logger.Info(s.logger.WithUserID(ctx, created.ID.String()), "user registered")
	view := Project(created)
	return &view, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	view := Project(user)
	return &view, nil
}

func (s *service) List(ctx context.Context, page, limit int) (*UserList, error) {
	params := pagination.Params{Page: page, Limit: limit}.Normalize()

	rows, total, err := s.repo.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	items := make([]UserView, 0, len(rows))
	for i := range rows {
		items = append(items, Project(&rows[i]))
	}
	return &UserList{
		Items:      items,
		Total:      total,
		TotalPages: pagination.TotalPages(total, params.Limit),
		Page:       params.Page,
	}, nil
}

// Project maps a stored user to its API view.
func Project(user *models.User) UserView {
	return UserView{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
