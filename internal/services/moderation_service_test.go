package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterContent(t *testing.T) {
	ms := NewModerationService()

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{name: "empty text passes", text: "", ok: true},
		{name: "clean review passes", text: "Wonderful trek, the guide knew every trail.", ok: true},
		{name: "profanity", text: "this tour was shit", ok: false, reason: "inappropriate_language"},
		{name: "profanity is word-bounded", text: "we visited Scunthorpe and Assisi", ok: true},
		{name: "url", text: "book via https://cheap-tours.example.com", ok: false, reason: "url_not_allowed"},
		{name: "bare www url", text: "see www.cheap-tours.example for offers", ok: false, reason: "url_not_allowed"},
		{name: "email address", text: "contact me at deals@example.com", ok: false, reason: "contact_info_not_allowed"},
		{name: "phone number", text: "call 555-123-4567 for a discount", ok: false, reason: "contact_info_not_allowed"},
		{name: "repeated characters", text: "sooooo good", ok: false, reason: "spam_detected"},
		{name: "excessive caps", text: "AMAZING DEALS TODAY HURRY LIMITED OFFER", ok: false, reason: "excessive_caps"},
		{name: "a couple of acronyms pass", text: "The UNESCO site near DELHI was calm.", ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ms.FilterContent(tc.text)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.reason, reason)
		})
	}
}

func TestContainsProfanity(t *testing.T) {
	ms := NewModerationService()
	require.True(t, ms.ContainsProfanity("what a SCAM"))
	require.False(t, ms.ContainsProfanity("a lovely homestay"))
}

func TestGetRejectionMessage(t *testing.T) {
	ms := NewModerationService()
	require.Equal(t, "URLs and web links are not allowed.", ms.GetRejectionMessage("url_not_allowed"))
	require.Equal(t, "Your submission does not meet our content guidelines.", ms.GetRejectionMessage("something_else"))
}
