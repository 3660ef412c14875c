package httperr

import (
	"errors"
	"net/http"
	"strings"
)

// Codes shared by several use cases.
const (
	CodeForbidden    = "forbidden"
	CodeInvalidState = "invalid_state"
)

// BusinessError is a rule violation identified by a stable code the client can switch on.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// Status picks the HTTP status for the code: "*_not_found" is 404, forbidden 403,
// invalid_state 409, anything else 400.
func (e BusinessError) Status() int {
	switch {
	case strings.HasSuffix(e.Code, "_not_found"):
		return http.StatusNotFound
	case e.Code == CodeForbidden:
		return http.StatusForbidden
	case e.Code == CodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
