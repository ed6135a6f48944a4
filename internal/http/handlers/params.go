package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

// pathID parses a positive int64 path parameter, writing a 400 when invalid.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.RespondAppError(c, apperr.Validation("params", "invalid "+name))
		return 0, false
	}
	return id, true
}

// optionalInt parses raw, treating blank input as zero.
func optionalInt(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// actingID prefers the bearer token's identity over a client-supplied id.
func actingID(c *gin.Context, role ctxutil.Role, supplied int64) int64 {
	return ctxutil.IDFor(c.Request.Context(), role, supplied)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondAppError(c, apperr.Validation("bind", err.Error()))
		return false
	}
	return true
}

func formString(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

func formFloat(c *gin.Context, key string) (*float64, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, apperr.Validation("form", key+" must be a number")
	}
	return &f, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, apperr.Validation("form", key+" must be an integer")
	}
	return &n, nil
}

// formUpload opens an optional multipart file. The returned closer is never nil.
func formUpload(c *gin.Context, key string) (*services.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(key)
	if err != nil || fh == nil {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperr.Wrap(apperr.CodeValidation, "form", err)
	}
	return &services.Upload{Filename: fh.Filename, Body: f}, func() { closeFile(f) }, nil
}

func closeFile(f multipart.File) { _ = f.Close() }
