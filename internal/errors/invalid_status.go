package errors

import "net/http"

var ErrInvalidStatus = &Exception{
	Message:    "Invalid status",
	StatusCode: http.StatusBadRequest,
}
