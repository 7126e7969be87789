package domain

import (
	"errors"
	"fmt"
	"strconv"
)

type NotFoundError struct {
	Resource string
	ID       int64
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource == "":
		return "not found"
	case e.ID > 0:
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	default:
		return fmt.Sprintf("%s not found", e.Resource)
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// ConfigurationError blocks a write because owner-managed configuration is
// missing. The message is shown to the user as-is, so it names the fix.
type ConfigurationError struct {
	Setting string
	Msg     string
	Err     error
}

func (e ConfigurationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Setting != "" {
		return fmt.Sprintf("%s is not configured - ask owner to set it up", e.Setting)
	}
	return "configuration missing"
}

func (e ConfigurationError) Unwrap() error { return e.Err }

// NoRateConfiguredError is returned when no active rate slab covers a distance.
type NoRateConfiguredError struct {
	DistanceKm float64
}

func (e NoRateConfiguredError) Error() string {
	return fmt.Sprintf("no rate configured for %skm - ask owner to add a slab",
		strconv.FormatFloat(e.DistanceKm, 'f', -1, 64))
}

// ForbiddenError is returned when the actor's role may not perform an operation.
type ForbiddenError struct {
	Action string
}

func (e ForbiddenError) Error() string {
	if e.Action == "" {
		return "forbidden"
	}
	return fmt.Sprintf("only the owner can %s", e.Action)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// IsConfiguration reports both generic configuration errors and missing rate slabs.
func IsConfiguration(err error) bool {
	var cfg ConfigurationError
	if errors.As(err, &cfg) {
		return true
	}
	var rate NoRateConfiguredError
	return errors.As(err, &rate)
}

func IsNoRateConfigured(err error) bool {
	var target NoRateConfiguredError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}
