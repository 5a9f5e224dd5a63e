// internal/notify/fanout.go
package notify

import (
	"context"
	"fmt"
	"time"

	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/common/metrics"
)

// DefaultPageSize bounds one grouped write. Firestore caps a batch at 500
// mutations, so the page size must never exceed it.
const DefaultPageSize = 500

// BatchAppender appends rec to every listed user's inbox in one grouped
// write: all-or-nothing for the page, order-preserving, and mergeable under
// concurrent writers (the store's list-append primitive must not clobber
// concurrent appends).
type BatchAppender interface {
	AppendAll(ctx context.Context, userIDs []string, rec Record) error
}

// Fanout is the batched fan-out writer: it drives an AudienceSource page by
// page and persists the record through a BatchAppender.
type Fanout struct {
	source   AudienceSource
	sink     BatchAppender
	pageSize int
	log      logger.Logger
	now      func() time.Time
}

func NewFanout(source AudienceSource, sink BatchAppender, pageSize int, log logger.Logger) *Fanout {
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	return &Fanout{
		source:   source,
		sink:     sink,
		pageSize: pageSize,
		log:      log,
		now:      time.Now,
	}
}

// Deliver appends rec to the inbox of every user matching pred and returns
// the number of users updated. Pages are strictly sequential; a failure at
// page k aborts the delivery without rolling back pages 1..k-1 (accepted
// partial-delivery semantics). Zero matching users is a success with count 0
// and no grouped writes.
func (f *Fanout) Deliver(ctx context.Context, pred Predicate, rec Record) (int, error) {
	if rec.Date.IsZero() {
		rec.Date = f.now().UTC()
	}

	total := 0
	pages := 0
	cursor := ""

	for {
		ids, err := f.source.NextPage(ctx, pred, cursor, f.pageSize)
		if err != nil {
			return total, fmt.Errorf("resolve audience page: %w", err)
		}
		if len(ids) == 0 {
			f.log.Info("fan-out delivered", map[string]interface{}{
				"notificationType": rec.NotificationType,
				"users":            total,
				"pages":            pages,
			})
			return total, nil
		}

		if err := f.sink.AppendAll(ctx, ids, rec); err != nil {
			return total, fmt.Errorf("append page %d: %w", pages+1, err)
		}

		pages++
		total += len(ids)
		cursor = ids[len(ids)-1]

		metrics.FanoutPages.WithLabelValues(rec.NotificationType).Inc()
		metrics.FanoutUsersUpdated.WithLabelValues(rec.NotificationType).Add(float64(len(ids)))
	}
}

// DeliverOne appends rec to a single user's inbox, stamping the date the
// same way the paged path does.
func (f *Fanout) DeliverOne(ctx context.Context, userID string, rec Record) error {
	if rec.Date.IsZero() {
		rec.Date = f.now().UTC()
	}
	if err := f.sink.AppendAll(ctx, []string{userID}, rec); err != nil {
		return fmt.Errorf("append record for user %s: %w", userID, err)
	}
	metrics.FanoutUsersUpdated.WithLabelValues(rec.NotificationType).Inc()
	return nil
}
