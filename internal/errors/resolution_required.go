package errors

import "net/http"

var ErrResolutionRequired = &Exception{
	Message:    "Resolution text required",
	StatusCode: http.StatusBadRequest,
}
