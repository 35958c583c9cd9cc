package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstreamModel marks a failed or refused call to the external model.
	// Nothing is committed when it is returned.
	ErrUpstreamModel = errors.New("upstream model failure")
	// ErrStoreWrite marks a commit the findings store or database rejected.
	ErrStoreWrite    = errors.New("store write failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCallerVisible reports whether err fails a submission outright. Parsing and
// matching problems never reach the caller.
func IsCallerVisible(err error) bool {
	return errors.Is(err, ErrUpstreamModel) || errors.Is(err, ErrStoreWrite)
}

// ExitCode maps an error to the CLI process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return 2
	case errors.Is(err, ErrUpstreamModel):
		return 3
	case errors.Is(err, ErrStoreWrite):
		return 4
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
