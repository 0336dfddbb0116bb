package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/http/dto"
	"dojo.app/platform/internal/http/middleware"
	"dojo.app/platform/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := h.authService.Login(ctx, req.Email.String(), req.Password)
	if err != nil {
		slog.InfoContext(ctx, "login rejected", "email", logger.MaskEmail(req.Email.String()), "error", err)
		respondServiceError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.LoginResponse{
		Token:        session.Token,
		User:         dto.ToUserResponse(session.User),
		Organization: dto.ToOrganizationResponse(session.Organization),
	}))
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, org, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.MeResponse{
		User:         dto.ToUserResponse(user),
		Organization: dto.ToOrganizationResponse(org),
	}))
}

// Logout is a no-op on the server; tokens are stateless and dropped by the client.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OKMessage("Logged out successfully", nil))
}
