// internal/functions/notifications/models.go
package notifications

// PutNotificationRequest appends one record to one user's inbox.
type PutNotificationRequest struct {
	UserID           string `json:"userId"`
	Title            string `json:"title"`
	Content          string `json:"content"`
	NotificationType string `json:"notificationType"`
	Image            string `json:"image"`
	EventID          string `json:"eventId"`
	EventHost        string `json:"eventHost"`
	Navigation       string `json:"navigation"`
	URL              string `json:"url"`
}

// InviteRequest notifies a guest that inviteUser invited them to an event.
type InviteRequest struct {
	InviteUser string `json:"inviteUser"`
	EventName  string `json:"eventName"`
	EventPhoto string `json:"eventPhoto"`
	EventID    string `json:"eventId"`
	GuestID    string `json:"guestId"`
}

// EventFinishRequest asks attendees of a finished event for feedback.
type EventFinishRequest struct {
	EventPhoto string `json:"eventPhoto"`
	EventID    string `json:"eventId"`
	HostID     string `json:"hostId"`
}

// ChatMessageRequest notifies a user of a new chat message.
type ChatMessageRequest struct {
	SenderName  string `json:"senderName"`
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
	Image       string `json:"image"`
	Navigation  string `json:"navigation"`
}

// QuestionRequest notifies an event host that someone asked a question.
type QuestionRequest struct {
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	HostID    string `json:"hostId"`
	Question  string `json:"question"`
}

// Admin send modes.
const (
	AdminModeBroadcast = "broadcast"
	AdminModeStrike    = "strike"
)

// AdminRequest is either a broadcast to every user or a strike notice to one.
type AdminRequest struct {
	Mode    string `json:"mode"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SendResponse reports a successful delivery.
type SendResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated,omitempty"`
}
