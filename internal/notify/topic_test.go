// internal/notify/topic_test.go
package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase passthrough",
			input:    "music",
			expected: "music",
		},
		{
			name:     "uppercase folded",
			input:    "CDMX",
			expected: "cdmx",
		},
		{
			name:     "accented and punctuation runes replaced",
			input:    "Jalisco México!",
			expected: "jalisco_m_xico_",
		},
		{
			name:     "allowed separators preserved",
			input:    "live_music-2024",
			expected: "live_music-2024",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "multibyte runes replaced one underscore each",
			input:    "夏祭り",
			expected: "___",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTopic(tt.input))
		})
	}
}

func TestNormalizeTopic_Idempotent(t *testing.T) {
	inputs := []string{"Jalisco México!", "CDMX", "live music", "favorite-abc123"}
	for _, in := range inputs {
		once := NormalizeTopic(in)
		assert.Equal(t, once, NormalizeTopic(once), "normalizing %q twice must be stable", in)
	}
}

func TestCompoundTopic(t *testing.T) {
	assert.Equal(t, "live_music-cdmx", CompoundTopic("Live Music", "CDMX"))
	assert.Equal(t, "music", CompoundTopic("music"))
}

func TestFavoriteTopic(t *testing.T) {
	assert.Equal(t, "favorite-evt_42", FavoriteTopic("Evt 42"))
}
