package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenBlacklist revokes access tokens by id until they would have expired anyway
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// ActingUnitSwitcher changes the caller's acting unit
type ActingUnitSwitcher interface {
	SwitchActingUnit(ctx context.Context, p scope.Principal, unitID string) (*scope.ActingContext, error)
}

// AuthService login, logout and the caller's acting unit
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, ac *scope.ActingContext) (*dto.MeResponse, error)
	Context(ac *scope.ActingContext) dto.ActingUnitResponse
	SwitchUnit(ctx context.Context, ac *scope.ActingContext, req *dto.SwitchUnitRequest) (*dto.ActingUnitResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	switcher  ActingUnitSwitcher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService. Without a blacklist, logout only
// relies on the client discarding its token.
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	switcher ActingUnitSwitcher,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		switcher:  switcher,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Login / Logout ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.UnitID)
	if err != nil {
		s.logger.Error("issue access token failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.UserID))
	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := s.jwtMgr.AccessTokenTTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me / acting unit ──────────────────────

func (s *authService) Me(ctx context.Context, ac *scope.ActingContext) (*dto.MeResponse, error) {
	user, err := s.repo.User.GetByID(ctx, ac.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", ac.UserID), zap.Error(err))
		return nil, err
	}
	return &dto.MeResponse{User: toUserResponse(user), Context: s.Context(ac)}, nil
}

func (s *authService) Context(ac *scope.ActingContext) dto.ActingUnitResponse {
	resp := dto.ActingUnitResponse{
		HomeUnitID:          ac.HomeUnitID,
		CanActOnDescendants: ac.CanActOnDescendants,
		Units:               ac.Visible,
		Capabilities:        ac.Capabilities,
	}
	if resp.Units == nil {
		resp.Units = []scope.UnitRef{}
	}
	if resp.Capabilities == nil {
		resp.Capabilities = []string{}
	}
	if ac.HasUnit() {
		resp.ActingUnit = &scope.UnitRef{ID: ac.ActingUnitID, Name: ac.ActingUnitName}
	}
	return resp
}

func (s *authService) SwitchUnit(ctx context.Context, ac *scope.ActingContext, req *dto.SwitchUnitRequest) (*dto.ActingUnitResponse, error) {
	if !ac.HasUnit() {
		return nil, ErrNoActingUnit
	}
	next, err := s.switcher.SwitchActingUnit(ctx, scope.Principal{
		UserID:     ac.UserID,
		Role:       ac.Role,
		HomeUnitID: ac.HomeUnitID,
	}, req.UnitID)
	if err != nil {
		return nil, err
	}
	resp := s.Context(next)
	return &resp, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       u.UserID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
	if u.Unit != nil {
		resp.Unit = &dto.UnitBrief{ID: u.Unit.UnitID, Name: u.Unit.Name}
	}
	return resp
}
