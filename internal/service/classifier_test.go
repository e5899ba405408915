// File: internal/service/classifier_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty message becomes generic unknown error",
			raw:  "",
			want: msgUnknownError,
		},
		{
			name: "whitespace-only message becomes generic unknown error",
			raw:  "   ",
			want: msgUnknownError,
		},
		{
			name: "gmail api disabled",
			raw:  `gmail messages.list failed: status 403: {"error":{"message":"Gmail API has not been used in project 12345 before or it is disabled.","status":"PERMISSION_DENIED","reason":"accessNotConfigured"}}`,
			want: msgGmailAPIDisabled,
		},
		{
			name: "calendar api disabled",
			raw:  `calendar events.list failed: status 403: Google Calendar API has not been used in project 12345 before or it is disabled.`,
			want: msgCalendarAPIDisabled,
		},
		{
			name: "api disabled without identifiable sub-service",
			raw:  "accessNotConfigured: the API is not enabled",
			want: msgAPIDisabled,
		},
		{
			name: "missing refresh token",
			raw:  "stored grant has no refresh token: provider \"google\"",
			want: msgMissingOfflineAccess,
		},
		{
			name: "revoked grant",
			raw:  `token refresh rejected by provider: oauth2: "invalid_grant" "Token has been expired or revoked."`,
			want: msgGrantRevoked,
		},
		{
			name: "insufficient scopes",
			raw:  "gmail messages.send failed: status 403: Request had insufficient authentication scopes. ACCESS_TOKEN_SCOPE_INSUFFICIENT",
			want: msgInsufficientScope,
		},
		{
			name: "unknown errors pass through unchanged",
			raw:  "something entirely unexpected happened",
			want: "something entirely unexpected happened",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProviderError(tt.raw))
		})
	}
}

func TestClassifyProviderError_Deterministic(t *testing.T) {
	raw := "invalid_grant: token revoked"
	first := ClassifyProviderError(raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyProviderError(raw))
	}
}
