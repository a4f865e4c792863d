package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/middleware"
)

// AdmissionController handles public admissions and admission code reservation
type AdmissionController struct {
	admissionService services.AdmissionService
	now              func() time.Time
}

// NewAdmissionController creates a new AdmissionController
func NewAdmissionController(admissionService services.AdmissionService) *AdmissionController {
	return &AdmissionController{admissionService: admissionService, now: time.Now}
}

// SubmitAdmission handles the public admission form
// @Summary Submit an admission
// @Description Validates the admission form, stores the optional photo and assigns the next admission code of the current year
// @Tags admissions
// @Accept multipart/form-data
// @Produce json
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param email formData string true "Email"
// @Param phone formData string true "Phone (10-15 digits)"
// @Param dob formData string true "Date of birth (YYYY-MM-DD)"
// @Param gender formData string true "male, female or other"
// @Param address formData string true "Street address"
// @Param city formData string false "City"
// @Param state formData string false "State"
// @Param zip formData string false "Postal code"
// @Param country formData string false "Country"
// @Param course formData string true "Course"
// @Param institute_name formData string true "Institute branch"
// @Param admission_date formData string false "Admission date (YYYY-MM-DD), defaults to today"
// @Param terms formData string true "Terms accepted"
// @Param photo formData file false "Photo (jpeg/png, max 2 MB)"
// @Success 201 {object} dto.APIResponse{data=dto.AdmissionResponse} "Admission submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Admission codes exhausted"
// @Failure 503 {object} dto.ErrorResponse "Could not save"
// @Router /admissions [post]
func (c *AdmissionController) SubmitAdmission(ctx *gin.Context) {
	fields, err := formFields(ctx)
	if err != nil {
		badForm(ctx, err)
		return
	}
	photo, err := optionalFile(ctx, "photo")
	if err != nil {
		badForm(ctx, err)
		return
	}

	student, err := c.admissionService.SubmitAdmission(ctx.Request.Context(), services.AdmissionSubmission{
		Fields: fields,
		Photo:  photo,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.AdmissionResponse{
		AdmissionCode: student.AdmissionCode,
		Student:       student,
	}, "Admission submitted successfully. Your admission code is "+student.AdmissionCode+"."))
}

// GenerateAdmissionCode reserves the next admission code of a year
// @Summary Reserve an admission code
// @Description Reserves and returns the next unused admission code of the given year
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdmissionCodeRequest false "Year, defaults to the current year"
// @Success 201 {object} dto.APIResponse{data=dto.AdmissionCodeResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid year"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 409 {object} dto.ErrorResponse "Admission codes exhausted"
// @Router /admission-codes [post]
func (c *AdmissionController) GenerateAdmissionCode(ctx *gin.Context) {
	var req dto.AdmissionCodeRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBind(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
	}
	if req.Year == 0 {
		req.Year = c.now().Year()
	}

	code, err := c.admissionService.GenerateAdmissionCode(ctx.Request.Context(), req.Year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.AdmissionCodeResponse{
		Year:          req.Year,
		AdmissionCode: code,
	}, ""))
}
