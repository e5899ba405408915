// File: internal/service/classifier.go
package service

import "strings"

// Classifier messages. Kept as constants so tests and handlers can compare
// against the exact user-facing text.
const (
	msgUnknownError = "Unknown error. Please try again, or reconnect your Google account."

	msgGmailAPIDisabled = "The Gmail API is not enabled for this server's Google project. " +
		"Enable it in the Google Cloud console, wait a few minutes, then try again."
	msgCalendarAPIDisabled = "The Google Calendar API is not enabled for this server's Google project. " +
		"Enable it in the Google Cloud console, wait a few minutes, then try again."
	msgAPIDisabled = "A required Google API is not enabled for this server's Google project. " +
		"Enable it in the Google Cloud console, wait a few minutes, then try again."

	msgMissingOfflineAccess = "Your Google connection cannot be refreshed because it was granted without offline access. " +
		"Reconnect your Google account and accept the consent screen."
	msgGrantRevoked = "Your Google authorization has expired or was revoked. " +
		"Reconnect your Google account to keep this applet running."
	msgInsufficientScope = "Your Google account did not grant the permissions this applet needs. " +
		"Reconnect your Google account and accept all requested permissions."
)

// ClassifyProviderError rewrites a raw provider error into actionable
// guidance for the user. Pure and total: no I/O, never panics, unknown
// signatures pass through unchanged, an empty message becomes a generic
// unknown-error string.
func ClassifyProviderError(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return msgUnknownError
	}
	lower := strings.ToLower(raw)

	switch {
	case strings.Contains(lower, "accessnotconfigured"),
		strings.Contains(lower, "has not been used in project"),
		strings.Contains(lower, "api has not been enabled"),
		strings.Contains(lower, "it is disabled"):
		if strings.Contains(lower, "gmail") {
			return msgGmailAPIDisabled
		}
		if strings.Contains(lower, "calendar") {
			return msgCalendarAPIDisabled
		}
		return msgAPIDisabled

	case strings.Contains(lower, "no refresh token"),
		strings.Contains(lower, "missing refresh token"),
		strings.Contains(lower, "stored grant has no refresh token"):
		return msgMissingOfflineAccess

	case strings.Contains(lower, "invalid_grant"),
		strings.Contains(lower, "token has been expired or revoked"),
		strings.Contains(lower, "token refresh rejected by provider"):
		return msgGrantRevoked

	case strings.Contains(lower, "insufficientpermissions"),
		strings.Contains(lower, "access_token_scope_insufficient"),
		strings.Contains(lower, "insufficient authentication scopes"),
		strings.Contains(lower, "request had insufficient authentication"),
		strings.Contains(lower, "permission_denied"):
		return msgInsufficientScope
	}

	return raw
}
