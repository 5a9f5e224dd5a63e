// internal/functions/scheduled/source.go
package scheduled

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"eventapp-functions/internal/models"
)

// EventSource lists events whose start date falls in [from, to).
type EventSource interface {
	EventsBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
}

// FirestoreEvents reads the event collection by start-date range.
type FirestoreEvents struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreEvents(client *firestore.Client, collection string) *FirestoreEvents {
	return &FirestoreEvents{client: client, collection: collection}
}

func (s *FirestoreEvents) EventsBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	iter := s.client.Collection(s.collection).
		Where("startDate", ">=", from).
		Where("startDate", "<", to).
		Documents(ctx)
	defer iter.Stop()

	var events []models.Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing events by start date: %w", err)
		}

		var ev models.Event
		if err := doc.DataTo(&ev); err != nil {
			return nil, fmt.Errorf("decoding event %s: %w", doc.Ref.ID, err)
		}
		ev.ID = doc.Ref.ID
		events = append(events, ev)
	}
	return events, nil
}
