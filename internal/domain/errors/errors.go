// File: internal/domain/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// Storage errors.
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource already exists")

	// Credential errors. None of these are retried within a run; they are
	// resolved by the user re-authorizing or by fixing server configuration.
	ErrNoConnection          = errors.New("no service connection for provider")
	ErrIncompleteGrant       = errors.New("stored grant has no refresh token")
	ErrRefreshFailed         = errors.New("token refresh rejected by provider")
	ErrProviderMisconfigured = errors.New("oauth client credentials not configured")

	// Pipeline errors.
	ErrUnknownKind = errors.New("unknown action or reaction kind")
)

// ConfigurationError marks an applet whose configuration cannot produce a
// valid provider call (for example a send reaction with no resolvable
// recipient). Never retried: the applet will fail identically every tick
// until the user edits it.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("applet configuration invalid: %s (%s)", e.Field, e.Reason)
}

// NewConfigurationError creates a ConfigurationError for one config field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// ProviderCallError wraps a failure reported by an external provider call.
// Body carries the raw provider error text for the classifier.
type ProviderCallError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderCallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s failed: status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

// IsCredentialError reports whether err belongs to the credential taxonomy,
// i.e. every applet of the user should be fanned out as an error without
// attempting provider calls.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrNoConnection) ||
		errors.Is(err, ErrIncompleteGrant) ||
		errors.Is(err, ErrRefreshFailed) ||
		errors.Is(err, ErrProviderMisconfigured)
}

// IsConfigurationError reports whether err is a non-retryable applet
// configuration failure.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce) || errors.Is(err, ErrUnknownKind)
}

// IsProviderCallError reports whether err came from an external call.
func IsProviderCallError(err error) bool {
	var pe *ProviderCallError
	return errors.As(err, &pe)
}
