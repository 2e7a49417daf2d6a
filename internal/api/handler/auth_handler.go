package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// AuthHandler login, logout and the caller's acting unit
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login username/password login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the presented token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// Me current user and acting context
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), ac)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, me)
}

// Units visible units and the acting one
// GET /api/v1/me/units
func (h *AuthHandler) Units(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	response.OK(c, h.authSvc.Context(ac))
}

// SwitchUnit changes the acting unit
// PUT /api/v1/me/acting-unit
func (h *AuthHandler) SwitchUnit(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	var req dto.SwitchUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.SwitchUnit(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "invalid username or password")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11002, "user not found")
	case errors.Is(err, scope.ErrUnitNotVisible):
		response.Forbidden(c, 11003, "unit is not visible to you")
	default:
		handleCommonError(c, err)
	}
}
