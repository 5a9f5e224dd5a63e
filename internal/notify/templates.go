// internal/notify/templates.go
package notify

import (
	"fmt"
	"strings"
)

// Template holds the title/body pair for one notification kind.
type Template struct {
	Title string
	Body  string
}

// Templates maps a notification type code to its fixed copy. Bodies may
// contain {{placeholder}} markers substituted at build time.
var Templates = map[string]Template{
	TypeInterestMatch: {
		Title: "Event Just for You!",
		Body:  "We found an event that matches your interests. Don't miss out—check it out now and see if it's the perfect fit!",
	},
	TypeInvite: {
		Title: "You've Got an Invite!",
		Body:  "{{inviteUser}} just invited you to join the event {{eventName}}! Ready to RSVP? Accept or decline—it's your call!",
	},
	TypeStateMatch: {
		Title: "New Events Nearby!",
		Body:  "New events just popped up near you! Dive in and see what's happening around town!",
	},
	TypeReminder: {
		Title: "Event Reminder!",
		Body:  "Your event '{{eventName}}' is coming up soon! Are you ready for it?",
	},
	TypeEventFinished: {
		Title: "Event Feedback",
		Body:  "The event has ended. Share your thoughts by leaving a review for others!",
	},
	TypeSameDay: {
		Title: "Last-Minute Events",
		Body:  "Last-minute events have just popped up. Interested in attending one?",
	},
	TypeFavoriteReminder: {
		Title: "Favorite Event Reminder",
		Body:  "The event '{{eventName}}' you favorited is happening in {{daysLeft}} days. Are you going to join?",
	},
	TypeChatMessage: {
		Title: "New Message",
		Body:  "{{senderName}}: {{message}}",
	},
	TypeRateApp: {
		Title: "Enjoying the App?",
		Body:  "Your opinion matters! Take a second to rate us and help other people discover great events.",
	},
	TypeCreateEventPrompt: {
		Title: "Host Your Own Event",
		Body:  "Got a plan in mind? Create your own event and bring people together!",
	},
	TypeRecurringEventPrompt: {
		Title: "Bring It Back!",
		Body:  "Your event '{{eventName}}' was a hit. How about hosting it again?",
	},
	TypeQuestion: {
		Title: "New Question About Your Event",
		Body:  "Someone asked about '{{eventName}}': {{question}}",
	},
	TypeAdminBroadcast: {
		Title: "{{title}}",
		Body:  "{{content}}",
	},
	TypeAdminStrike: {
		Title: "Community Guidelines Notice",
		Body:  "{{content}}",
	},
}

// RenderTemplate substitutes {{key}} placeholders from data and strips any
// placeholder with no value so no marker ever reaches a client.
func RenderTemplate(tmpl string, data map[string]string) string {
	result := tmpl

	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

// TemplateFor returns the copy for a type code, failing loudly on unknown
// codes rather than sending an empty notification.
func TemplateFor(typeCode string) (Template, error) {
	t, ok := Templates[typeCode]
	if !ok {
		return Template{}, fmt.Errorf("no template for notification type %q", typeCode)
	}
	return t, nil
}
