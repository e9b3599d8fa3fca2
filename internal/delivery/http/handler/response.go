package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gdugdh24/creatorsync-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindInvalidState:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps an application error to its HTTP status. Internal and
// unavailable errors are logged and their details are not exposed.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request error", slog.Any("error", err))
		if kind == domain.KindUnavailable {
			message = "service temporarily unavailable"
		} else {
			message = "internal server error"
		}
	}

	c.JSON(status, ErrorResponse{Error: message, Code: kind.String()})
}

// respondBindError reports the first failed field when binding rejects input.
func respondBindError(c *gin.Context, err error) {
	message := "invalid request body"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		message = "invalid field " + verrs[0].Field() + ": " + verrs[0].Tag()
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: domain.KindValidation.String()})
}

func currentActor(c *gin.Context) (match.Actor, bool) {
	rawID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return match.Actor{}, false
	}
	userID, ok := rawID.(uuid.UUID)
	if !ok {
		return match.Actor{}, false
	}
	role, _ := c.Get(middleware.ContextRole)
	r, _ := role.(domain.Role)
	return match.Actor{UserID: userID, Role: r}, true
}

// requireActor writes 401 when the auth middleware did not run.
func requireActor(c *gin.Context) (match.Actor, bool) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: domain.KindUnauthorized.String()})
	}
	return actor, ok
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name, Code: domain.KindValidation.String()})
		return uuid.Nil, false
	}
	return id, true
}
