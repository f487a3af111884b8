package errors

import (
	"errors"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Exception struct {
	Message    string
	StatusCode int
	Fields     []FieldError
}

func (e *Exception) Error() string {
	return e.Message
}

// Is matches sentinel exceptions by message and status so that copies
// carrying field detail still compare equal to their sentinel.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return e.Message == t.Message && e.StatusCode == t.StatusCode
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func Validation(fields ...FieldError) *Exception {
	return &Exception{
		Message:    ErrValidation.Message,
		StatusCode: ErrValidation.StatusCode,
		Fields:     fields,
	}
}

func InvalidQuery(fields ...FieldError) *Exception {
	return &Exception{
		Message:    ErrInvalidQuery.Message,
		StatusCode: ErrInvalidQuery.StatusCode,
		Fields:     fields,
	}
}
