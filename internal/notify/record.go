// internal/notify/record.go
package notify

import "time"

// Notification type codes. The client application switches on these, so the
// numeric string values are part of the wire contract.
const (
	TypeInterestMatch        = "1"
	TypeInvite               = "2"
	TypeStateMatch           = "3"
	TypeReminder             = "4"
	TypeEventFinished        = "5"
	TypeSameDay              = "6"
	TypeFavoriteReminder     = "7"
	TypeChatMessage          = "8"
	TypeRateApp              = "9"
	TypeCreateEventPrompt    = "10"
	TypeRecurringEventPrompt = "12"
	TypeQuestion             = "13"
	TypeAdminBroadcast       = "14"
	TypeAdminStrike          = "15"
)

// Record is the per-user inbox entry. Every field is always present in the
// persisted document; downstream consumers pattern-match on the fixed shape,
// so optional values are empty strings, never absent.
type Record struct {
	Title            string    `firestore:"title" json:"title"`
	Content          string    `firestore:"content" json:"content"`
	NotificationType string    `firestore:"notificationType" json:"notificationType"`
	IsRead           bool      `firestore:"isRead" json:"isRead"`
	Date             time.Time `firestore:"date" json:"date"`
	Image            string    `firestore:"image" json:"image"`
	Navigation       string    `firestore:"navigation" json:"navigation"`
	URL              string    `firestore:"url" json:"url"`
	EventID          string    `firestore:"eventId" json:"eventId"`
	EventHost        string    `firestore:"eventHost" json:"eventHost"`
}

// RecordParams carries the caller-supplied fields for a new Record.
// Title, Content and NotificationType are required by the handlers; the
// rest default to empty strings.
type RecordParams struct {
	Title            string
	Content          string
	NotificationType string
	Image            string
	Navigation       string
	URL              string
	EventID          string
	EventHost        string
}

// BuildRecord constructs a normalized Record. Pure: no clock access, no
// side effects. The Date field is stamped by the writer at append time.
// IsRead always starts false; it is mutated later by the client, never here.
func BuildRecord(p RecordParams) Record {
	return Record{
		Title:            p.Title,
		Content:          p.Content,
		NotificationType: p.NotificationType,
		IsRead:           false,
		Image:            p.Image,
		Navigation:       p.Navigation,
		URL:              p.URL,
		EventID:          p.EventID,
		EventHost:        p.EventHost,
	}
}
