package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Client-facing messages. Internal errors are logged, never sent.
const (
	msgRequiredFields  = "Please fill in all required field"
	msgCategoryExists  = "This category already exist"
	msgInvalidPage     = "page must be positive number"
	msgServerErrGet    = "server error GET"
	msgServerErrPost   = "server error POST"
	msgServerErrPut    = "server error PUT"
	msgServerErrDelete = "server error DELETE"
)

// StatusResponse echoes the status of an operation without a payload.
type StatusResponse struct {
	Status int `json:"status"`
}

// idParam reads the numeric {id} path segment.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
