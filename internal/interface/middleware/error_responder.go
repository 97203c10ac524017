package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/response"
	"github.com/oksasatya/vidtube-api/pkg/validation"
)

// ErrorResponder writes the error envelope for the last error recorded with
// c.Error. Handlers record errors and return without writing.
func ErrorResponder(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.HTTPStatus(err)

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       routePath(c),
			"status":     status,
		}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		if c.Writer.Written() {
			return
		}
		response.Error(c, status, apperror.PublicMessage(err), response.ErrorBody{
			Code:    apperror.Code(err),
			Details: details(err),
		})
	}
}

func details(err error) map[string]string {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
		return nil
	}
	if appErr.Cause != nil {
		return validation.ToDetails(appErr.Cause)
	}
	if appErr.Field != "" {
		return map[string]string{appErr.Field: appErr.Message}
	}
	return nil
}
