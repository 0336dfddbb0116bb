package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dojo.app/platform/internal/http/dto"
	"dojo.app/platform/internal/http/middleware"
	"dojo.app/platform/internal/service"
)

// CacheInvalidator drops cached responses after a mutation.
type CacheInvalidator interface {
	ClearOrganization(ctx context.Context, orgID int64)
	ClearSchool(ctx context.Context, schoolID int64)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Error: message})
}

func respondBindError(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation failed",
		Details: dto.ValidationMessages(err),
	})
}

// respondServiceError maps service errors to statuses. fallback is the
// message for anything unexpected, which is logged with the failing op.
func respondServiceError(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case service.IsEmailTaken(err):
		respondError(c, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, service.ErrDuplicateConstraint):
		slog.WarnContext(ctx, "unique constraint conflict", "error", err)
		respondError(c, http.StatusConflict, "The request conflicts with a concurrent change, please retry")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSchoolQuotaExceeded):
		respondError(c, http.StatusForbidden, "School limit reached for your subscription")
	case errors.Is(err, service.ErrSchoolNameTaken):
		respondError(c, http.StatusBadRequest, "A school with this name already exists in your organization")
	case errors.Is(err, service.ErrSchoolHasStudents):
		respondError(c, http.StatusBadRequest, "Cannot delete school with active students")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccountInactive):
		respondError(c, http.StatusUnauthorized, "Account is deactivated")
	default:
		var regErr *service.RegistrationError
		if errors.As(err, &regErr) {
			slog.ErrorContext(ctx, fallback, "error", err, "op", regErr.Op)
		} else {
			slog.ErrorContext(ctx, fallback, "error", err)
		}
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// callerOrganization aborts with 403 when the token carries no organization.
func callerOrganization(c *gin.Context) (int64, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	if claims.OrganizationID == 0 {
		respondError(c, http.StatusForbidden, "No organization associated with this account")
		return 0, false
	}
	return claims.OrganizationID, true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
