// internal/notify/firestore.go
package notify

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"eventapp-functions/internal/common/logger"
)

const inboxField = "notifications"

// FirestoreAudience resolves predicates against the user collection with
// cursor pagination (OrderBy document ID + StartAfter + Limit).
type FirestoreAudience struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreAudience(client *firestore.Client, collection string) *FirestoreAudience {
	return &FirestoreAudience{client: client, collection: collection}
}

func (a *FirestoreAudience) NextPage(ctx context.Context, p Predicate, cursor string, limit int) ([]string, error) {
	q := a.client.Collection(a.collection).Query
	if !p.All {
		if p.EqField != "" {
			q = q.Where(p.EqField, "==", p.EqValue)
		}
		if p.ArrField != "" {
			q = q.Where(p.ArrField, "array-contains", p.ArrValue)
		}
	}

	q = q.OrderBy(firestore.DocumentID, firestore.Asc).Limit(limit)
	if cursor != "" {
		q = q.StartAfter(cursor)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var ids []string
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate audience query: %w", err)
		}
		ids = append(ids, doc.Ref.ID)
	}
	return ids, nil
}

// EventRef returns the document reference used in relationship predicates
// (attendance and favorite lists store references, not plain IDs).
func EventRef(client *firestore.Client, collection, eventID string) *firestore.DocumentRef {
	return client.Collection(collection).Doc(eventID)
}

// FirestoreAppender persists one page of inbox appends as a single
// WriteBatch of ArrayUnion updates. ArrayUnion merges concurrent appends
// from other invocations instead of overwriting the list.
type FirestoreAppender struct {
	client       *firestore.Client
	collection   string
	maxInboxSize int
	log          logger.Logger
}

// NewFirestoreAppender creates the grouped-write sink. maxInboxSize 0 keeps
// inboxes unbounded; a positive value trims each touched inbox to its most
// recent entries after the append (best-effort, outside the batch).
func NewFirestoreAppender(client *firestore.Client, collection string, maxInboxSize int, log logger.Logger) *FirestoreAppender {
	return &FirestoreAppender{
		client:       client,
		collection:   collection,
		maxInboxSize: maxInboxSize,
		log:          log,
	}
}

func (w *FirestoreAppender) AppendAll(ctx context.Context, userIDs []string, rec Record) error {
	if len(userIDs) == 0 {
		return nil
	}

	batch := w.client.Batch()
	for _, id := range userIDs {
		ref := w.client.Collection(w.collection).Doc(id)
		batch.Update(ref, []firestore.Update{
			{Path: inboxField, Value: firestore.ArrayUnion(rec)},
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit inbox batch (%d users): %w", len(userIDs), err)
	}

	if w.maxInboxSize > 0 {
		w.trimOverflow(ctx, userIDs)
	}
	return nil
}

// trimOverflow rewrites inboxes that grew past the cap, keeping the newest
// entries. Failures are logged, not propagated: the append itself succeeded.
func (w *FirestoreAppender) trimOverflow(ctx context.Context, userIDs []string) {
	for _, id := range userIDs {
		ref := w.client.Collection(w.collection).Doc(id)
		snap, err := ref.Get(ctx)
		if err != nil {
			w.log.Warn("inbox trim read failed", map[string]interface{}{"userId": id, "error": err})
			continue
		}

		raw, err := snap.DataAt(inboxField)
		if err != nil {
			continue
		}
		list, ok := raw.([]interface{})
		if !ok || len(list) <= w.maxInboxSize {
			continue
		}

		trimmed := list[len(list)-w.maxInboxSize:]
		if _, err := ref.Update(ctx, []firestore.Update{{Path: inboxField, Value: trimmed}}); err != nil {
			w.log.Warn("inbox trim write failed", map[string]interface{}{"userId": id, "error": err})
		}
	}
}
