package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dojo.app/platform/internal/http/dto"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/service"
)

type SchoolHandler struct {
	schools service.SchoolService
	cache   CacheInvalidator
}

func NewSchoolHandler(schools service.SchoolService, cache CacheInvalidator) *SchoolHandler {
	return &SchoolHandler{schools: schools, cache: cache}
}

func (h *SchoolHandler) List(c *gin.Context) {
	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}

	filter, err := schoolFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "isActive must be true or false")
		return
	}

	schools, err := h.schools.List(c.Request.Context(), orgID, filter)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch schools")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToSchoolResponses(schools)))
}

func schoolFilter(c *gin.Context) (model.SchoolFilter, error) {
	var filter model.SchoolFilter
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if art := c.Query("martialArt"); art != "" {
		filter.MartialArt = &art
	}
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.IsActive = &active
	}
	return filter, nil
}

func (h *SchoolHandler) Get(c *gin.Context) {
	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}
	schoolID, ok := idParam(c, "id")
	if !ok {
		return
	}

	school, err := h.schools.Get(c.Request.Context(), orgID, schoolID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch school")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToSchoolResponse(school)))
}

func (h *SchoolHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}

	var req dto.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	school, err := h.schools.Create(ctx, orgID, req.ToModel())
	if err != nil {
		respondServiceError(c, err, "Failed to create school")
		return
	}
	h.cache.ClearOrganization(ctx, orgID)

	c.JSON(http.StatusCreated, dto.OKMessage("School created successfully", dto.ToSchoolResponse(school)))
}

func (h *SchoolHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}
	schoolID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	school, err := h.schools.Update(ctx, orgID, schoolID, req.ToPatch())
	if err != nil {
		respondServiceError(c, err, "Failed to update school")
		return
	}
	h.invalidate(c, orgID, schoolID)

	c.JSON(http.StatusOK, dto.OKMessage("School updated successfully", dto.ToSchoolResponse(school)))
}

func (h *SchoolHandler) Delete(c *gin.Context) {
	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}
	schoolID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.schools.Delete(c.Request.Context(), orgID, schoolID); err != nil {
		respondServiceError(c, err, "Failed to delete school")
		return
	}
	h.invalidate(c, orgID, schoolID)

	c.JSON(http.StatusOK, dto.OKMessage("School deleted successfully", nil))
}

func (h *SchoolHandler) Stats(c *gin.Context) {
	orgID, ok := callerOrganization(c)
	if !ok {
		return
	}
	schoolID, ok := idParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.schools.Stats(c.Request.Context(), orgID, schoolID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch school statistics")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToSchoolStatsResponse(stats)))
}

func (h *SchoolHandler) invalidate(c *gin.Context, orgID, schoolID int64) {
	ctx := c.Request.Context()
	h.cache.ClearSchool(ctx, schoolID)
	h.cache.ClearOrganization(ctx, orgID)
}
