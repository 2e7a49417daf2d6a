package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// ActingResolver builds the acting context of an authenticated caller
type ActingResolver interface {
	Resolve(ctx context.Context, p scope.Principal) (*scope.ActingContext, error)
}

// ScopeRecorder counts resolution outcomes; may be nil
type ScopeRecorder interface {
	ScopeResolved(outcome string)
}

// ActingUnit resolves the caller's acting unit once per request and stores
// the context under ActingKey. Must run after JWTAuth. A caller whose home
// unit was deleted still gets a context, with an empty scope.
func ActingUnit(resolver ActingResolver, recorder ScopeRecorder, logger *zap.Logger) gin.HandlerFunc {
	record := func(outcome string) {
		if recorder != nil {
			recorder.ScopeResolved(outcome)
		}
	}
	return func(c *gin.Context) {
		v, ok := c.Get(ClaimsKey)
		claims, _ := v.(*jwt.Claims)
		if !ok || claims == nil {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		ac, err := resolver.Resolve(c.Request.Context(), scope.Principal{
			UserID:     claims.UserID,
			Role:       claims.Role,
			HomeUnitID: claims.UnitID,
		})
		if err != nil {
			record("error")
			logger.Error("resolve acting unit failed", zap.String("user_id", claims.UserID), zap.Error(err))
			response.InternalError(c)
			c.Abort()
			return
		}
		if ac.HasUnit() {
			record("ok")
		} else {
			record("empty")
		}

		c.Set(ActingKey, ac)
		c.Next()
	}
}

// RequireCapability rejects callers whose role lacks capability. Must run
// after ActingUnit.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(ActingKey)
		ac, _ := v.(*scope.ActingContext)
		if ac == nil {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}
		if !ac.Can(capability) {
			response.Forbidden(c, 10003, "operation not allowed for your role")
			c.Abort()
			return
		}
		c.Next()
	}
}
