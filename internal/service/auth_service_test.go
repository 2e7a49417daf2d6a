package service

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/config"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

// ── Mock switcher ──

type mockSwitcher struct {
	calls []string
	err   error
}

func (m *mockSwitcher) SwitchActingUnit(_ context.Context, p scope.Principal, unitID string) (*scope.ActingContext, error) {
	m.calls = append(m.calls, unitID)
	if m.err != nil {
		return nil, m.err
	}
	ac := actingAt(p.UserID, p.Role, unitID)
	ac.HomeUnitID = p.HomeUnitID
	ac.ActingUnitName = "Regional Sul"
	return ac, nil
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func setupTestAuthService() (AuthService, *mockRepos, *mockBlacklist, *mockSwitcher) {
	repos := newMockRepos()
	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-forte-1"), bcrypt.MinCost)
	repos.users.users["user-ana"] = &model.User{
		UserID:       "user-ana",
		Username:     "ana",
		Name:         "Ana Souza",
		PasswordHash: string(hash),
		Role:         policy.RoleSupervisor,
		UnitID:       unitNorth,
		IsActive:     true,
	}
	repos.users.users["user-old"] = &model.User{
		UserID:       "user-old",
		Username:     "antigo",
		Name:         "Conta Antiga",
		PasswordHash: string(hash),
		Role:         policy.RoleMember,
		UnitID:       unitNorth,
		IsActive:     false,
	}
	blacklist := &mockBlacklist{}
	switcher := &mockSwitcher{}
	svc := NewAuthService(repos.repo, newTestJWTManager(), blacklist, switcher, zap.NewNop())
	return svc, repos, blacklist, switcher
}

// ── Login ──

func TestAuthService_Login(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "senha-forte-1"})
	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("expected 900 seconds, got %d", resp.ExpiresIn)
	}
	if resp.User.Unit == nil || resp.User.Unit.Name != "Regional Norte" {
		t.Errorf("expected the home unit in the response, got %+v", resp.User.Unit)
	}

	claims, err := newTestJWTManager().ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.UserID != "user-ana" || claims.UnitID != unitNorth || claims.Role != policy.RoleSupervisor {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_Rejected(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	cases := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"unknown user", dto.LoginRequest{Username: "ninguem", Password: "senha-forte-1"}},
		{"wrong password", dto.LoginRequest{Username: "ana", Password: "errada"}},
		{"inactive user", dto.LoginRequest{Username: "antigo", Password: "senha-forte-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			if _, err := svc.Login(context.Background(), &req); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

// ── Logout ──

func TestAuthService_Logout_BlacklistsUntilExpiry(t *testing.T) {
	svc, _, blacklist, _ := setupTestAuthService()
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	svc.(*authService).now = func() time.Time { return now }

	claims := &jwt.Claims{UserID: "user-ana"}
	claims.ID = "jti-1"
	claims.ExpiresAt = jwtv5.NewNumericDate(now.Add(10 * time.Minute))

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("Logout should succeed: %v", err)
	}
	if ttl := blacklist.revoked["jti-1"]; ttl != 10*time.Minute {
		t.Errorf("expected a 10m blacklist entry, got %v", ttl)
	}

	expired := &jwt.Claims{UserID: "user-ana"}
	expired.ID = "jti-2"
	expired.ExpiresAt = jwtv5.NewNumericDate(now.Add(-time.Minute))
	if err := svc.Logout(context.Background(), expired); err != nil {
		t.Fatalf("Logout should succeed: %v", err)
	}
	if _, ok := blacklist.revoked["jti-2"]; ok {
		t.Error("an expired token needs no blacklist entry")
	}
}

func TestAuthService_Logout_NoBlacklist(t *testing.T) {
	repos := newMockRepos()
	svc := NewAuthService(repos.repo, newTestJWTManager(), nil, &mockSwitcher{}, zap.NewNop())

	claims := &jwt.Claims{UserID: "user-ana"}
	claims.ID = "jti-1"
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("Logout without a blacklist should be a no-op, got %v", err)
	}
}

// ── Me / acting unit ──

func TestAuthService_Me(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()
	ac := actingAt("user-ana", policy.RoleSupervisor, unitNorth, unitNorthA)
	ac.ActingUnitName = "Regional Norte"

	me, err := svc.Me(context.Background(), ac)
	if err != nil {
		t.Fatalf("Me should succeed: %v", err)
	}
	if me.User.Username != "ana" {
		t.Errorf("unexpected user: %+v", me.User)
	}
	if me.Context.ActingUnit == nil || me.Context.ActingUnit.ID != unitNorth {
		t.Errorf("unexpected acting unit: %+v", me.Context.ActingUnit)
	}
	if len(me.Context.Units) != 2 {
		t.Errorf("expected north and its child, got %+v", me.Context.Units)
	}
}

func TestAuthService_Context_NoActingUnit(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	resp := svc.Context(&scope.ActingContext{UserID: "user-x", HomeUnitID: unitNorth})
	if resp.ActingUnit != nil {
		t.Error("expected no acting unit")
	}
	if resp.Units == nil || resp.Capabilities == nil {
		t.Error("empty lists should render as [] rather than null")
	}
}

func TestAuthService_SwitchUnit(t *testing.T) {
	svc, _, _, switcher := setupTestAuthService()
	ac := actingAt("user-ana", policy.RoleSupervisor, unitNorth)

	resp, err := svc.SwitchUnit(context.Background(), ac, &dto.SwitchUnitRequest{UnitID: unitSouth})
	if err != nil {
		t.Fatalf("SwitchUnit should succeed: %v", err)
	}
	if resp.ActingUnit == nil || resp.ActingUnit.ID != unitSouth {
		t.Errorf("expected the new acting unit, got %+v", resp.ActingUnit)
	}
	if len(switcher.calls) != 1 {
		t.Errorf("expected one switch, got %d", len(switcher.calls))
	}

	switcher.err = ErrForbidden
	if _, err := svc.SwitchUnit(context.Background(), ac, &dto.SwitchUnitRequest{UnitID: unitRoot}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected the switcher error, got %v", err)
	}
}
