// Package middleware holds the gin middleware of the HTTP API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (uuid.UUID, domain.Role, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func abort(c *gin.Context, status int, err *domain.Error) {
	c.AbortWithStatusJSON(status, errorBody{Error: err.Message, Code: err.Kind.String()})
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAuth verifies the bearer token and stores the caller's id and role
// on the gin context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, domain.ErrInvalidToken)
			return
		}

		userID, role, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if domain.KindOf(err) == domain.KindUnavailable {
				abort(c, http.StatusServiceUnavailable, &domain.Error{Kind: domain.KindUnavailable, Message: "service unavailable"})
				return
			}
			abort(c, http.StatusUnauthorized, domain.ErrInvalidToken)
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Set(ContextToken, token)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID.String()))
		c.Next()
	}
}

// RequireRole rejects authenticated callers of any other role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got, _ := c.Get(ContextRole); got != role {
			abort(c, http.StatusForbidden, domain.ErrAccessDenied)
			return
		}
		c.Next()
	}
}
