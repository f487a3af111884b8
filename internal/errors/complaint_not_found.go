package errors

import "net/http"

var ErrComplaintNotFound = &Exception{
	Message:    "Not found",
	StatusCode: http.StatusNotFound,
}
