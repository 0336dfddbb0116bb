package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/http/dto"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/service"
)

// TokenIssuer signs a session token for a persisted user.
type TokenIssuer interface {
	IssueToken(user *model.User) (string, error)
}

type RegistrationHandler struct {
	registration  service.RegistrationService
	subscriptions service.SubscriptionService
	tokens        TokenIssuer
	cache         CacheInvalidator
	schema        *jsonschema.Schema
}

func NewRegistrationHandler(
	registration service.RegistrationService,
	subscriptions service.SubscriptionService,
	tokens TokenIssuer,
	cache CacheInvalidator,
) *RegistrationHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return &RegistrationHandler{
		registration:  registration,
		subscriptions: subscriptions,
		tokens:        tokens,
		cache:         cache,
		schema:        reflector.Reflect(&dto.RegisterRequest{}),
	}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	available, err := h.registration.IsEmailAvailable(ctx, req.Email.String())
	if err != nil {
		slog.ErrorContext(ctx, "email availability check failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}
	if !available {
		slog.InfoContext(ctx, "registration with existing email", "email", logger.MaskEmail(req.Email.String()))
		respondError(c, http.StatusConflict, "An account with this email already exists")
		return
	}

	result, err := h.registration.RegisterDojo(ctx, req.ToModel())
	if err != nil {
		respondServiceError(c, err, "Registration failed")
		return
	}

	// The dojo exists at this point; a signing failure only costs the auto-login.
	token, err := h.tokens.IssueToken(result.User)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue token after registration",
			"error", err, "user_id", result.User.ID)
	}

	slog.InfoContext(ctx, "dojo registered",
		"organization_id", result.Organization.ID,
		"slug", result.Organization.Slug,
		"school_id", result.School.ID)

	c.JSON(http.StatusCreated, dto.OKMessage("Dojo registered successfully", dto.ToRegisterResponse(result, token)))
}

func (h *RegistrationHandler) CheckEmail(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	available, err := h.registration.IsEmailAvailable(ctx, req.Email.String())
	if err != nil {
		slog.ErrorContext(ctx, "email availability check failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to check email availability")
		return
	}

	c.JSON(http.StatusOK, dto.CheckEmailResponse{Success: true, Available: available})
}

// Schema publishes the JSON schema of the registration form.
func (h *RegistrationHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.schema)
}

func (h *RegistrationHandler) TrialStatus(c *gin.Context) {
	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}

	status, err := h.subscriptions.CheckTrialStatus(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, err, "Failed to check trial status")
		return
	}

	c.JSON(http.StatusOK, dto.OK(status))
}

func (h *RegistrationHandler) ExtendTrial(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}

	var req dto.ExtendTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.subscriptions.ExtendTrial(ctx, orgID, req.Days)
	if err != nil {
		respondServiceError(c, err, "Failed to extend trial")
		return
	}
	h.cache.ClearOrganization(ctx, orgID)

	c.JSON(http.StatusOK, dto.OKMessage(
		fmt.Sprintf("Trial extended by %d days", req.Days),
		dto.TrialExtendedResponse{TrialEndDate: org.TrialEndDate},
	))
}

func (h *RegistrationHandler) ConvertSubscription(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}

	var req dto.ConvertSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.subscriptions.ConvertToSubscription(ctx, orgID, req.SubscriptionType)
	if err != nil {
		respondServiceError(c, err, "Failed to convert subscription")
		return
	}
	h.cache.ClearOrganization(ctx, orgID)

	c.JSON(http.StatusOK, dto.OKMessage(
		fmt.Sprintf("Subscription converted to %s", req.SubscriptionType),
		dto.ToSubscriptionResponse(org),
	))
}
