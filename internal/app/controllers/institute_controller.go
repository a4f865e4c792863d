package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/middleware"
)

// InstituteController handles institute branches
type InstituteController struct {
	instituteService services.InstituteService
}

// NewInstituteController creates a new InstituteController
func NewInstituteController(instituteService services.InstituteService) *InstituteController {
	return &InstituteController{instituteService: instituteService}
}

// CreateInstitute adds a branch
// @Summary Create institute
// @Tags institutes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.InstituteInput true "Institute"
// @Success 201 {object} dto.APIResponse{data=models.Institute}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Institute already exists"
// @Router /institutes [post]
func (c *InstituteController) CreateInstitute(ctx *gin.Context) {
	var input services.InstituteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	inst, err := c.instituteService.CreateInstitute(ctx.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(inst, "Institute created successfully"))
}

// ListInstitutes lists branches
// @Summary List institutes
// @Tags institutes
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active branches"
// @Success 200 {object} dto.APIResponse{data=[]models.Institute}
// @Router /institutes [get]
func (c *InstituteController) ListInstitutes(ctx *gin.Context) {
	institutes, err := c.instituteService.ListInstitutes(ctx.Request.Context(), ctx.Query("active") == "true")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(institutes, ""))
}

// GetInstitute retrieves a branch
// @Summary Get institute
// @Tags institutes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institute ID"
// @Success 200 {object} dto.APIResponse{data=models.Institute}
// @Failure 404 {object} dto.ErrorResponse "Institute not found"
// @Router /institutes/{id} [get]
func (c *InstituteController) GetInstitute(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Institute")
	if !ok {
		return
	}

	inst, err := c.instituteService.GetInstitute(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(inst, ""))
}

// UpdateInstitute changes a branch
// @Summary Update institute
// @Tags institutes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institute ID"
// @Param request body services.InstituteInput true "Institute"
// @Success 200 {object} dto.APIResponse{data=models.Institute}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Institute not found"
// @Failure 409 {object} dto.ErrorResponse "Institute already exists"
// @Router /institutes/{id} [put]
func (c *InstituteController) UpdateInstitute(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Institute")
	if !ok {
		return
	}
	var input services.InstituteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	inst, err := c.instituteService.UpdateInstitute(ctx.Request.Context(), id, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(inst, "Institute updated successfully"))
}

// DeleteInstitute removes a branch
// @Summary Delete institute
// @Tags institutes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institute ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Institute not found"
// @Router /institutes/{id} [delete]
func (c *InstituteController) DeleteInstitute(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Institute")
	if !ok {
		return
	}

	if err := c.instituteService.DeleteInstitute(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Institute deleted successfully"))
}
