package core

import (
	"fmt"
)

var ErrInvalidLocale = fmt.Errorf("unsupported locale")
var ErrPageNotExist = fmt.Errorf("page does not exist")

// PageNotExistError is returned for page numbers below 1, URL is the page
// that would have been requested.
type PageNotExistError struct {
	URL string
}

func (e *PageNotExistError) Error() string {
	return fmt.Sprintf("page does not exist: %s", e.URL)
}

func (e *PageNotExistError) Is(target error) bool {
	return target == ErrPageNotExist
}

// StatusError is returned when the portal answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}
