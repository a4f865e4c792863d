package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/middleware"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/helpers"
)

// FeeController handles fee records
type FeeController struct {
	feeService services.FeeService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService services.FeeService) *FeeController {
	return &FeeController{feeService: feeService}
}

// SaveFee inserts a fee or replaces the fee with the same ID
// @Summary Save fee
// @Description Adds the fee, or replaces every field of the fee with the same fee_id
// @Tags fees
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body models.FeeInput true "Fee"
// @Success 200 {object} dto.APIResponse{data=dto.SaveFeeResponse} "Fee updated"
// @Success 201 {object} dto.APIResponse{data=dto.SaveFeeResponse} "Fee added"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 503 {object} dto.ErrorResponse "Could not save"
// @Router /fees [post]
func (c *FeeController) SaveFee(ctx *gin.Context) {
	var input models.FeeInput
	if err := ctx.ShouldBind(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	res, err := c.feeService.SaveFee(ctx.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == models.FeeInserted {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(dto.SaveFeeResponse{Outcome: res.Outcome, Fee: res.Fee}, res.Message))
}

// ListFees lists fees
// @Summary List fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param status query string false "Paid or Pending"
// @Param institute query string false "Institute branch"
// @Param student query string false "Student name"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse{items=[]models.Fee}}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /fees [get]
func (c *FeeController) ListFees(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	fees, total, err := c.feeService.ListFees(ctx.Request.Context(), models.FeeFilter{
		Status:        models.FeeStatus(ctx.Query("status")),
		InstituteName: strings.TrimSpace(ctx.Query("institute")),
		StudentName:   strings.TrimSpace(ctx.Query("student")),
		Offset:        offset,
		Limit:         limit,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, pagedResponse(fees, total, page, size))
}

// GetFee retrieves a fee by its ID
// @Summary Get fee
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param feeId path string true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=models.Fee}
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /fees/{feeId} [get]
func (c *FeeController) GetFee(ctx *gin.Context) {
	fee, err := c.feeService.GetFee(ctx.Request.Context(), ctx.Param("feeId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      fee,
		Timestamp: time.Now(),
	})
}

// MarkFeePaid marks a fee as paid
// @Summary Mark fee paid
// @Description Sets the fee status to Paid. Marking a paid fee again has no effect.
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param feeId path string true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=models.Fee}
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /fees/{feeId}/paid [patch]
func (c *FeeController) MarkFeePaid(ctx *gin.Context) {
	fee, err := c.feeService.MarkFeePaid(ctx.Request.Context(), ctx.Param("feeId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fee, "Fee marked as paid"))
}

// MyFees lists the fees of the signed-in student
// @Summary My fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse{items=[]models.Fee}}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /me/fees [get]
func (c *FeeController) MyFees(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	fees, total, err := c.feeService.StudentFees(ctx.Request.Context(), identity.Name, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, pagedResponse(fees, total, page, size))
}
