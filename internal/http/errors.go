package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "complaint-desk.com/complaint-desk/internal/errors"
)

type errorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// ErrorHandler renders every failure as {"error": ..., "fields": [...]}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := errorResponse{Error: "internal server error"}

	var appErr *apperrors.Exception
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		body = errorResponse{Error: appErr.Message, Fields: appErr.Fields}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			body.Error = msg
		} else {
			body.Error = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Printf("failed to write error response: %v", err)
	}
}
