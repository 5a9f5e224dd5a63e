// internal/notify/record_test.go
package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecord_AllFieldsPresent(t *testing.T) {
	rec := BuildRecord(RecordParams{
		Title:            "Event Just for You!",
		Content:          "Check it out",
		NotificationType: TypeInterestMatch,
	})

	// Optional fields must be concrete empty strings, never absent, because
	// clients pattern-match on the fixed record shape.
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var asMap map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &asMap))

	for _, field := range []string{"title", "content", "notificationType", "isRead", "date", "image", "navigation", "url", "eventId", "eventHost"} {
		_, ok := asMap[field]
		assert.True(t, ok, "field %q missing from serialized record", field)
	}

	assert.Equal(t, "", rec.Image)
	assert.Equal(t, "", rec.Navigation)
	assert.Equal(t, "", rec.URL)
	assert.Equal(t, "", rec.EventID)
	assert.Equal(t, "", rec.EventHost)
}

func TestBuildRecord_IsReadStartsFalse(t *testing.T) {
	rec := BuildRecord(RecordParams{
		Title:            "x",
		Content:          "y",
		NotificationType: TypeInvite,
	})
	assert.False(t, rec.IsRead)
}

func TestBuildRecord_PassesOptionalFields(t *testing.T) {
	rec := BuildRecord(RecordParams{
		Title:            "Invite",
		Content:          "Come along",
		NotificationType: TypeInvite,
		Image:            "https://cdn/img.png",
		Navigation:       "/event/abc",
		URL:              "https://example.com",
		EventID:          "evt-1",
		EventHost:        "host-1",
	})

	assert.Equal(t, "https://cdn/img.png", rec.Image)
	assert.Equal(t, "/event/abc", rec.Navigation)
	assert.Equal(t, "https://example.com", rec.URL)
	assert.Equal(t, "evt-1", rec.EventID)
	assert.Equal(t, "host-1", rec.EventHost)
}

func TestBuildRecord_DateLeftForWriter(t *testing.T) {
	rec := BuildRecord(RecordParams{Title: "x", Content: "y", NotificationType: TypeReminder})
	assert.True(t, rec.Date.IsZero(), "builder must not stamp the date; the writer does at append time")
}
