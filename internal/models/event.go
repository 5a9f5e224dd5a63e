// internal/models/event.go
package models

import "time"

// Event is the Firestore event document as consumed by the trigger and
// scheduled handlers.
type Event struct {
	ID           string    `firestore:"-" json:"id"`
	Name         string    `firestore:"name" json:"name"`
	Photo        string    `firestore:"photo" json:"photo"`
	State        string    `firestore:"state" json:"state"`
	InterestList string    `firestore:"interestList" json:"interestList"`
	HostID       string    `firestore:"hostId" json:"hostId"`
	StartDate    time.Time `firestore:"startDate" json:"startDate"`
}
