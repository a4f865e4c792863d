package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/middleware"
	"github.com/vemac/institute/internal/pkg/helpers"
)

// InquiryController handles contact requests
type InquiryController struct {
	inquiryService services.InquiryService
}

// NewInquiryController creates a new InquiryController
func NewInquiryController(inquiryService services.InquiryService) *InquiryController {
	return &InquiryController{inquiryService: inquiryService}
}

// SubmitInquiry stores a public inquiry
// @Summary Submit an inquiry
// @Description Student inquiries need a grade. Teacher inquiries need a qualification and may attach a CV.
// @Tags inquiries
// @Accept multipart/form-data
// @Produce json
// @Param role formData string true "student or teacher"
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param phone formData string true "Phone"
// @Param grade formData string false "Grade (students)"
// @Param qualification formData string false "Qualification (teachers)"
// @Param preferred_time formData string false "Preferred time"
// @Param message formData string false "Message"
// @Param cv formData file false "CV (pdf/doc/docx, max 5 MB)"
// @Success 201 {object} dto.APIResponse{data=models.Inquiry}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /inquiries [post]
func (c *InquiryController) SubmitInquiry(ctx *gin.Context) {
	var input services.InquiryInput
	if err := ctx.ShouldBind(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	cv, err := optionalFile(ctx, "cv")
	if err != nil {
		badForm(ctx, err)
		return
	}
	input.CV = cv

	inquiry, err := c.inquiryService.SubmitInquiry(ctx.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(inquiry, "Thank you, we will get back to you soon."))
}

// ListInquiries lists inquiries, newest first
// @Summary List inquiries
// @Tags inquiries
// @Produce json
// @Security BearerAuth
// @Param role query string false "student or teacher"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse{items=[]models.Inquiry}}
// @Router /inquiries [get]
func (c *InquiryController) ListInquiries(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	inquiries, total, err := c.inquiryService.ListInquiries(ctx.Request.Context(), models.InquiryRole(ctx.Query("role")), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, pagedResponse(inquiries, total, page, size))
}
