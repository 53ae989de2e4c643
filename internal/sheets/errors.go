package sheets

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// Kind classifies gateway failures. TabNotFound means the addressed tab does
// not exist in the spreadsheet; everything else (network, auth expiry, quota)
// is Transient and handled by letting the user retry.
type Kind int

const (
	KindTabNotFound Kind = iota
	KindTransient
)

// Error is a classified gateway failure.
type Error struct {
	Kind Kind
	Tab  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindTabNotFound {
		return "tab " + e.Tab + " not found"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "spreadsheet request failed"
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// IsTabNotFound reports whether err is a missing-tab failure.
func IsTabNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindTabNotFound
}

// classify wraps a raw API error. The Sheets API reports a missing tab as a
// 400 whose message starts with "Unable to parse range"; there is no
// dedicated error code for it.
func classify(tab string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range") {
			return &Error{Kind: KindTabNotFound, Tab: tab, Err: err}
		}
		if apiErr.Code == 404 {
			return &Error{Kind: KindTabNotFound, Tab: tab, Err: err}
		}
	}
	return &Error{Kind: KindTransient, Tab: tab, Err: err}
}
