package errors

import "net/http"

var ErrComplaintIDRequired = &Exception{
	Message:    "complaint id is required",
	StatusCode: http.StatusBadRequest,
}
