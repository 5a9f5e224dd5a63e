// internal/functions/triggers/models.go
package triggers

import "time"

// EventDoc is the event document carried inside the trigger envelope.
// InterestList holds the event's single category tag.
type EventDoc struct {
	Name         string    `json:"name"`
	Photo        string    `json:"photo"`
	State        string    `json:"state"`
	InterestList string    `json:"interestList"`
	HostID       string    `json:"hostId"`
	StartDate    time.Time `json:"startDate"`
}

// EventCreatedPayload is the document-created delivery envelope for a
// freshly created event.
type EventCreatedPayload struct {
	EventID string   `json:"eventId"`
	Event   EventDoc `json:"event"`
}

// TriggerResponse acknowledges a delivery. Triggers are acknowledged even
// when downstream sends fail; failures only show up in logs and metrics.
type TriggerResponse struct {
	Message string `json:"message"`
}
