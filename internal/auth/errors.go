package auth

import "errors"

// Kind classifies sign-in failures. Cancelled means the user dismissed the
// consent prompt; it is cleared silently and never rendered. Config failures
// need operator action and carry remediation steps. Everything else is
// transient.
type Kind int

const (
	KindCancelled Kind = iota
	KindConfig
	KindTransient
)

// Error is a structured sign-in failure.
type Error struct {
	Kind    Kind
	Message string
	Origin  string // redirect origin the OAuth client must authorize
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Remediation returns operator-facing steps for configuration failures.
func (e *Error) Remediation() []string {
	if e.Kind != KindConfig {
		return nil
	}
	steps := []string{
		"check that a browser window opened and was not blocked",
		"verify the OAuth client allows the redirect origin",
		"verify your account is on the OAuth consent screen's test-user list",
	}
	if e.Origin != "" {
		steps[1] = "verify the OAuth client allows the redirect origin " + e.Origin
	}
	return steps
}

// IsCancelled reports whether err is a user-cancelled sign-in.
func IsCancelled(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindCancelled
}

func cancelled(msg string) *Error {
	return &Error{Kind: KindCancelled, Message: msg}
}

func configErr(origin, msg string, err error) *Error {
	return &Error{Kind: KindConfig, Message: msg, Origin: origin, Err: err}
}

func transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}
