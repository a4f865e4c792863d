package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/middleware"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

// StatusController flips the active state of records
type StatusController struct {
	statusService services.StatusService
}

// NewStatusController creates a new StatusController
func NewStatusController(statusService services.StatusService) *StatusController {
	return &StatusController{statusService: statusService}
}

// ToggleStatus flips the status of a student, user or institute
// @Summary Toggle status
// @Description Flips active/inactive. Office staff may toggle students only.
// @Tags status
// @Produce json
// @Security BearerAuth
// @Param kind path string true "student, user or institute"
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid kind or ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 500 {object} dto.ErrorResponse "Could not save"
// @Router /status/{kind}/{id} [patch]
func (c *StatusController) ToggleStatus(ctx *gin.Context) {
	kind, ok := models.ParseEntityKind(ctx.Param("kind"))
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "kind",
			Message: "Kind must be one of: student, user, institute.",
		}))
		return
	}
	id, ok := parseIDParam(ctx, "id", kind.Title())
	if !ok {
		return
	}

	identity, _ := middleware.CurrentIdentity(ctx)
	if identity.Role != models.RoleAdmin && kind != models.EntityStudent {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("Only administrators may change the status of "+string(kind)+"s"))
		return
	}

	res, err := c.statusService.ToggleStatus(ctx.Request.Context(), kind, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res, res.Message))
}
