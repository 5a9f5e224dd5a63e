// internal/functions/triggers/handler.go
package triggers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperrors "eventapp-functions/internal/common/errors"
	"eventapp-functions/internal/common/httpx"
	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/common/metrics"
	"eventapp-functions/internal/notify"
)

const (
	kindInterest = "interest"
	kindState    = "state"
	kindSameDay  = "same-day"

	outcomeSent      = "sent"
	outcomeDuplicate = "duplicate"
	outcomeError     = "error"
)

// PushSender sends one topic-addressed message. *notify.Dispatcher
// satisfies it.
type PushSender interface {
	SendToTopic(ctx context.Context, p notify.Push) (string, error)
}

// Deliverer persists records into user inboxes. *notify.Fanout satisfies it.
type Deliverer interface {
	Deliver(ctx context.Context, pred notify.Predicate, rec notify.Record) (int, error)
}

// Claimer marks a delivery key as handled. *database.RedisClient satisfies
// it; losing a claim means another delivery of the same trigger already ran.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type Handler struct {
	push     PushSender
	fanout   Deliverer
	dedup    Claimer
	dedupTTL time.Duration
	log      logger.Logger
	now      func() time.Time
}

func NewHandler(push PushSender, fanout Deliverer, dedup Claimer, dedupTTL time.Duration, log logger.Logger) *Handler {
	return &Handler{
		push:     push,
		fanout:   fanout,
		dedup:    dedup,
		dedupTTL: dedupTTL,
		log:      log.WithFields(map[string]interface{}{"component": "triggers"}),
		now:      time.Now,
	}
}

// EventCreated reacts to a new event document. Deliveries arrive
// at-least-once, so each targeting kind claims a per-event key before
// sending. Downstream failures are logged and swallowed; the delivery is
// acknowledged either way so the pipeline does not retry a half-done send.
func (h *Handler) EventCreated(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.WriteError(w, apperrors.NewBadRequestError("unable to read trigger payload"))
		return
	}
	if err := validateEventCreated(raw); err != nil {
		httpx.WriteError(w, apperrors.NewBadRequestError(err.Error()))
		return
	}

	var payload EventCreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		httpx.WriteError(w, apperrors.NewBadRequestError("unable to parse trigger payload"))
		return
	}

	ctx := r.Context()
	if payload.Event.InterestList != "" {
		h.notifyInterestMatch(ctx, payload)
	}
	h.notifyStateMatch(ctx, payload)
	h.notifySameDay(ctx, payload)

	httpx.WriteJSON(w, http.StatusOK, TriggerResponse{Message: "Trigger processed"})
}

// notifyInterestMatch targets users in the event's state who share its
// interest tag: a compound-topic push plus an inbox fan-out.
func (h *Handler) notifyInterestMatch(ctx context.Context, p EventCreatedPayload) {
	if !h.claim(ctx, kindInterest, p.EventID) {
		return
	}

	tmpl := notify.Templates[notify.TypeInterestMatch]
	_, err := h.push.SendToTopic(ctx, notify.Push{
		Topic:    notify.CompoundTopic(p.Event.InterestList, p.Event.State),
		Title:    tmpl.Title,
		Body:     tmpl.Body,
		Image:    p.Event.Photo,
		TypeCode: notify.TypeInterestMatch,
		Info:     map[string]string{"eventId": p.EventID},
	})
	if err != nil {
		h.fail(kindInterest, p.EventID, err)
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          tmpl.Body,
		NotificationType: notify.TypeInterestMatch,
		Image:            p.Event.Photo,
		EventID:          p.EventID,
		EventHost:        p.Event.HostID,
	})
	updated, err := h.fanout.Deliver(ctx, notify.ByInterest(p.Event.InterestList, p.Event.State), rec)
	if err != nil {
		h.fail(kindInterest, p.EventID, err)
		return
	}

	metrics.TriggerDeliveries.WithLabelValues(kindInterest, outcomeSent).Inc()
	h.log.Info("interest match delivered", map[string]interface{}{
		"eventId": p.EventID,
		"updated": updated,
	})
}

// notifyStateMatch targets every user in the event's state.
func (h *Handler) notifyStateMatch(ctx context.Context, p EventCreatedPayload) {
	if !h.claim(ctx, kindState, p.EventID) {
		return
	}

	tmpl := notify.Templates[notify.TypeStateMatch]
	_, err := h.push.SendToTopic(ctx, notify.Push{
		Topic:    p.Event.State,
		Title:    tmpl.Title,
		Body:     tmpl.Body,
		Image:    p.Event.Photo,
		TypeCode: notify.TypeStateMatch,
		Info:     map[string]string{"eventId": p.EventID},
	})
	if err != nil {
		h.fail(kindState, p.EventID, err)
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          tmpl.Body,
		NotificationType: notify.TypeStateMatch,
		Image:            p.Event.Photo,
		EventID:          p.EventID,
		EventHost:        p.Event.HostID,
	})
	updated, err := h.fanout.Deliver(ctx, notify.ByState(p.Event.State), rec)
	if err != nil {
		h.fail(kindState, p.EventID, err)
		return
	}

	metrics.TriggerDeliveries.WithLabelValues(kindState, outcomeSent).Inc()
	h.log.Info("state match delivered", map[string]interface{}{
		"eventId": p.EventID,
		"updated": updated,
	})
}

// notifySameDay fires only when the event starts on the trigger's own UTC
// calendar day. Push only, no inbox append.
func (h *Handler) notifySameDay(ctx context.Context, p EventCreatedPayload) {
	now := h.now().UTC()
	start := p.Event.StartDate.UTC()
	if start.Year() != now.Year() || start.YearDay() != now.YearDay() {
		return
	}

	if !h.claim(ctx, kindSameDay, p.EventID) {
		return
	}

	tmpl := notify.Templates[notify.TypeSameDay]
	_, err := h.push.SendToTopic(ctx, notify.Push{
		Topic:    p.Event.State,
		Title:    tmpl.Title,
		Body:     tmpl.Body,
		Image:    p.Event.Photo,
		TypeCode: notify.TypeSameDay,
		Info:     map[string]string{"eventId": p.EventID},
	})
	if err != nil {
		h.fail(kindSameDay, p.EventID, err)
		return
	}

	metrics.TriggerDeliveries.WithLabelValues(kindSameDay, outcomeSent).Inc()
	h.log.Info("same-day notice delivered", map[string]interface{}{"eventId": p.EventID})
}

// claim takes the per-event dedup key for a kind. A claim error counts as
// won so a Redis outage degrades to possible duplicates, never to silence.
func (h *Handler) claim(ctx context.Context, kind, eventID string) bool {
	key := "trigger:event-created:" + kind + ":" + eventID
	won, err := h.dedup.Claim(ctx, key, h.dedupTTL)
	if err != nil {
		h.log.Warn("dedup claim failed, proceeding", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return true
	}
	if !won {
		metrics.TriggerDeliveries.WithLabelValues(kind, outcomeDuplicate).Inc()
		h.log.Info("duplicate delivery skipped", map[string]interface{}{"key": key})
		return false
	}
	return true
}

func (h *Handler) fail(kind, eventID string, err error) {
	metrics.TriggerDeliveries.WithLabelValues(kind, outcomeError).Inc()
	h.log.Error("trigger delivery failed", map[string]interface{}{
		"kind":    kind,
		"eventId": eventID,
		"error":   err,
	})
}
