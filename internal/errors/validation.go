package errors

import "net/http"

var ErrValidation = &Exception{
	Message:    "validation failed",
	StatusCode: http.StatusUnprocessableEntity,
}

var ErrInvalidQuery = &Exception{
	Message:    "invalid query parameters",
	StatusCode: http.StatusBadRequest,
}
