package httperr

import (
	"errors"
	"net/http"
)

// BusinessError is an expected failure identified by a stable code.
// The code doubles as the `error_code` field of the response.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
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

// BusinessCode returns the code of a BusinessError anywhere in err's chain.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

var statusByCode = map[string]int{
	"pet_not_found":          http.StatusNotFound,
	"user_not_found":         http.StatusNotFound,
	"appointment_not_found":  http.StatusNotFound,
	"appointments_not_found": http.StatusNotFound,
	"appointment_forbidden":  http.StatusForbidden,
	"appointment_busy":       http.StatusConflict,
}

// StatusOf maps a business code to its HTTP status. Unlisted codes are
// client errors.
func StatusOf(code string) int {
	if st, ok := statusByCode[code]; ok {
		return st
	}
	return http.StatusBadRequest
}
