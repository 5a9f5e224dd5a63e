// internal/functions/triggers/schema.go
package triggers

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// eventCreatedSchema validates the envelope delivered when an event
// document is created. Deliveries come from an external pipeline, so the
// shape is checked before anything touches the stores.
const eventCreatedSchema = `{
	"type": "object",
	"required": ["eventId", "event"],
	"properties": {
		"eventId": {"type": "string", "minLength": 1},
		"event": {
			"type": "object",
			"required": ["name", "state", "hostId", "startDate"],
			"properties": {
				"name":         {"type": "string", "minLength": 1},
				"photo":        {"type": "string"},
				"state":        {"type": "string", "minLength": 1},
				"interestList": {"type": "string"},
				"hostId":       {"type": "string", "minLength": 1},
				"startDate":    {"type": "string", "format": "date-time"}
			}
		}
	}
}`

var eventCreatedLoader = gojsonschema.NewStringLoader(eventCreatedSchema)

// validateEventCreated checks a raw trigger payload against the schema and
// returns a single message listing every violation.
func validateEventCreated(raw []byte) error {
	result, err := gojsonschema.Validate(eventCreatedLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msg := "invalid trigger payload:"
	for _, desc := range result.Errors() {
		msg += " " + desc.String() + ";"
	}
	return fmt.Errorf("%s", msg)
}
