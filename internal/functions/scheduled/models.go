// internal/functions/scheduled/models.go
package scheduled

// Engagement prompt modes accepted by the prompts handler.
const (
	PromptRateApp        = "rate-app"
	PromptCreateEvent    = "create-event"
	PromptRecurringEvent = "recurring-event"
)

// PromptRequest selects which engagement prompt a scheduled invocation sends.
type PromptRequest struct {
	Mode string `json:"mode"`
}

// RunResponse reports how much work a scheduled run did.
type RunResponse struct {
	Message string `json:"message"`
	Events  int    `json:"events"`
	Updated int    `json:"updated"`
}
