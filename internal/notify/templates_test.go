// internal/notify/templates_test.go
package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		data     map[string]string
		expected string
	}{
		{
			name:     "substitutes placeholders",
			tmpl:     "{{inviteUser}} invited you to {{eventName}}",
			data:     map[string]string{"inviteUser": "Ana", "eventName": "Salsa Night"},
			expected: "Ana invited you to Salsa Night",
		},
		{
			name:     "strips unknown placeholders",
			tmpl:     "Hello {{missing}}world",
			data:     nil,
			expected: "Hello world",
		},
		{
			name:     "no placeholders",
			tmpl:     "plain text",
			data:     map[string]string{"x": "y"},
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderTemplate(tt.tmpl, tt.data))
		})
	}
}

func TestTemplateFor(t *testing.T) {
	tmpl, err := TemplateFor(TypeInterestMatch)
	require.NoError(t, err)
	assert.Equal(t, "Event Just for You!", tmpl.Title)

	_, err = TemplateFor("99")
	assert.Error(t, err)
}

func TestTemplates_CoverAllTypeCodes(t *testing.T) {
	codes := []string{
		TypeInterestMatch, TypeInvite, TypeStateMatch, TypeReminder,
		TypeEventFinished, TypeSameDay, TypeFavoriteReminder, TypeChatMessage,
		TypeRateApp, TypeCreateEventPrompt, TypeRecurringEventPrompt,
		TypeQuestion, TypeAdminBroadcast, TypeAdminStrike,
	}
	for _, code := range codes {
		_, ok := Templates[code]
		assert.True(t, ok, "missing template for type %s", code)
	}
}
