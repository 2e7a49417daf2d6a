package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/middleware"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// MustGetActing returns the acting context set by middleware.ActingUnit.
// When it is missing a 401 is written and ok is false; callers return.
func MustGetActing(c *gin.Context) (*scope.ActingContext, bool) {
	v, exists := c.Get(middleware.ActingKey)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	ac, ok := v.(*scope.ActingContext)
	if !ok || ac == nil {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return ac, true
}

// MustGetClaims returns the token claims set by middleware.JWTAuth.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ClaimsKey)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return claims, true
}

// ── binding ──

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badBinding(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		badBinding(c, err)
		return false
	}
	return true
}

func badBinding(c *gin.Context, err error) {
	if fields, ok := dto.FieldErrors(err); ok {
		response.ErrorWithData(c, http.StatusBadRequest, 10001, "validation failed", gin.H{"fields": fields})
		return
	}
	response.BadRequest(c, 10001, "malformed request")
}

// ── errors shared by every module ──

// handleCommonError maps the cross-module service errors. Anything else is
// an internal error; the service has already logged it.
func handleCommonError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var inUse *service.UnitInUseError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithData(c, http.StatusBadRequest, 10001, "validation failed", verr)
	case errors.As(err, &inUse):
		response.ErrorWithData(c, http.StatusConflict, 10008, inUse.Error(), gin.H{"dependents": inUse.Dependents})
	case errors.Is(err, service.ErrHasDependents):
		response.Conflict(c, 10008, "record is still referenced by other records")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "operation not allowed for your role")
	case errors.Is(err, service.ErrNoActingUnit):
		response.Forbidden(c, 10006, "no acting unit; your home unit no longer exists")
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.Conflict(c, 10007, "concurrent update detected, please retry")
	default:
		response.InternalError(c)
	}
}
