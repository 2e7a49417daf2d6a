package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

var userConstraints = map[string]string{
	"uq_users_username": "username",
}

// UserService login accounts, managed by administrators
type UserService interface {
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.UserResponse, error)
	List(ctx context.Context, ac *scope.ActingContext, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo       *repository.Repository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, bcryptCost: bcrypt.DefaultCost, logger: logger}
}

// HashPassword bcrypt hash used for stored credentials
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !ac.Can(policy.CapManageUsers) {
		return nil, ErrForbidden
	}

	unit, err := s.repo.Unit.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("unit_id", "does not exist")
		}
		s.logger.Error("get unit failed", zap.String("unit_id", req.UnitID), zap.Error(err))
		return nil, err
	}

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		UnitID:       unit.UnitID,
		IsActive:     true,
	}
	user.SetCreator(ac.UserID)
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, writeFailure(s.logger, "create user failed", err, userConstraints)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
		zap.String("by", ac.UserID),
	)
	user.Unit = unit
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *userService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.UserResponse, error) {
	if !ac.Can(policy.CapManageUsers) {
		return nil, ErrForbidden
	}
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, ac *scope.ActingContext, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if !ac.Can(policy.CapManageUsers) {
		return nil, 0, ErrForbidden
	}
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		UnitID:  req.UnitID,
		Role:    req.Role,
		Keyword: strings.TrimSpace(req.Keyword),
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, total, nil
}
