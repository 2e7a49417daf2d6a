package dto

import "github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"

// ── auth ──

// LoginRequest username/password login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=60"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse issued access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

// ── acting unit ──

// SwitchUnitRequest PUT /me/acting-unit
type SwitchUnitRequest struct {
	UnitID string `json:"unit_id" binding:"required,uuid"`
}

// ActingUnitResponse acting context as shown to the user
type ActingUnitResponse struct {
	ActingUnit          *scope.UnitRef  `json:"acting_unit,omitempty"`
	HomeUnitID          string          `json:"home_unit_id"`
	CanActOnDescendants bool            `json:"can_act_on_descendants"`
	Units               []scope.UnitRef `json:"units"`
	Capabilities        []string        `json:"capabilities"`
}

// MeResponse GET /auth/me
type MeResponse struct {
	User    UserResponse       `json:"user"`
	Context ActingUnitResponse `json:"context"`
}
