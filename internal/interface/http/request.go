package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/interface/middleware"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

func invalidPayload(err error) error {
	return &apperror.AppError{Err: apperror.ErrValidation, Message: "invalid payload", Cause: err}
}

// bind decodes the body (JSON or form, by content type) into dst and records
// a validation error on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		_ = c.Error(invalidPayload(err))
		return false
	}
	return true
}

// formFile returns the uploaded file under field, or nil when absent.
func formFile(c *gin.Context, field string) (*entity.MediaFile, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, invalidPayload(err)
	}
	return &entity.MediaFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open:        func() (io.ReadCloser, error) { return fh.Open() },
	}, nil
}

func listParams(c *gin.Context) pagination.Params {
	return pagination.FromValues(c.Request.URL.Query())
}

func actor(c *gin.Context) string {
	return middleware.UserID(c)
}
