package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/pkg/helpers"
)

// maxFormMemory bounds the in-memory part of a multipart form; larger files spill to disk
const maxFormMemory = 8 << 20

// parseIDParam reads a positive int64 path parameter. On failure the response is written.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+label+" ID").
			WithDetails(label + " ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// formFields flattens a multipart, urlencoded or JSON object body into field values
func formFields(ctx *gin.Context) (map[string]string, error) {
	if strings.HasPrefix(ctx.ContentType(), gin.MIMEJSON) {
		fields := map[string]string{}
		if err := ctx.ShouldBindJSON(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if err := ctx.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	fields := make(map[string]string, len(ctx.Request.PostForm))
	for k, v := range ctx.Request.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields, nil
}

// optionalFile returns the uploaded file of field, or nil when none was sent
func optionalFile(ctx *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fh, nil
}

func badForm(ctx *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format").WithDetails(err.Error())
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

func pagedResponse(items interface{}, total int64, page, size int) dto.APIResponse {
	return dto.APIResponse{
		Success: true,
		Data: dto.PagedResponse{
			Items:      items,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	}
}
