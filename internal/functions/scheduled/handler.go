// internal/functions/scheduled/handler.go
package scheduled

import (
	"context"
	"net/http"
	"strconv"
	"time"

	apperrors "eventapp-functions/internal/common/errors"
	"eventapp-functions/internal/common/httpx"
	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/notify"
)

const (
	attendanceField = "attendance"
	favoritesField  = "favorites"

	// reminderWindow is how far ahead the weekly reminder runs look.
	reminderWindow = 7 * 24 * time.Hour
)

// PushSender sends one topic-addressed message. *notify.Dispatcher
// satisfies it.
type PushSender interface {
	SendToTopic(ctx context.Context, p notify.Push) (string, error)
}

// Deliverer persists records into user inboxes. *notify.Fanout satisfies it.
type Deliverer interface {
	Deliver(ctx context.Context, pred notify.Predicate, rec notify.Record) (int, error)
	DeliverOne(ctx context.Context, userID string, rec notify.Record) error
}

type Handler struct {
	push     PushSender
	fanout   Deliverer
	events   EventSource
	eventRef func(eventID string) interface{}
	log      logger.Logger
	now      func() time.Time
}

func NewHandler(push PushSender, fanout Deliverer, events EventSource, eventRef func(string) interface{}, log logger.Logger) *Handler {
	return &Handler{
		push:     push,
		fanout:   fanout,
		events:   events,
		eventRef: eventRef,
		log:      log.WithFields(map[string]interface{}{"component": "scheduled"}),
		now:      time.Now,
	}
}

// EventsReminder notifies attendees of every event starting inside the
// reminder window. Per-event failures are logged and the run continues;
// the scheduler must not retry the whole batch for one broken event.
func (h *Handler) EventsReminder(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	now := h.now().UTC()
	events, err := h.events.EventsBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error listing upcoming events", err))
		return
	}

	total := 0
	for _, ev := range events {
		tmpl := notify.Templates[notify.TypeReminder]
		body := notify.RenderTemplate(tmpl.Body, map[string]string{"eventName": ev.Name})

		if _, err := h.push.SendToTopic(ctx, notify.Push{
			Topic:    ev.ID,
			Title:    tmpl.Title,
			Body:     body,
			Image:    ev.Photo,
			TypeCode: notify.TypeReminder,
			Info:     map[string]string{"eventId": ev.ID},
		}); err != nil {
			h.log.Error("reminder push failed", map[string]interface{}{"eventId": ev.ID, "error": err})
			continue
		}

		rec := notify.BuildRecord(notify.RecordParams{
			Title:            tmpl.Title,
			Content:          body,
			NotificationType: notify.TypeReminder,
			Image:            ev.Photo,
			EventID:          ev.ID,
			EventHost:        ev.HostID,
		})
		updated, err := h.fanout.Deliver(ctx,
			notify.ByRelationship(attendanceField, h.eventRef(ev.ID)), rec)
		if err != nil {
			h.log.Error("reminder fan-out failed", map[string]interface{}{"eventId": ev.ID, "error": err})
			continue
		}
		total += updated
	}

	httpx.WriteJSON(w, http.StatusOK, RunResponse{
		Message: "Reminders sent",
		Events:  len(events),
		Updated: total,
	})
}

// FavoritesReminder nudges users about favorited events starting in the
// next few days, with the remaining day count in the message body.
func (h *Handler) FavoritesReminder(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	now := h.now().UTC()
	events, err := h.events.EventsBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error listing upcoming events", err))
		return
	}

	total := 0
	for _, ev := range events {
		daysLeft := daysUntil(now, ev.StartDate)
		tmpl := notify.Templates[notify.TypeFavoriteReminder]
		body := notify.RenderTemplate(tmpl.Body, map[string]string{
			"eventName": ev.Name,
			"daysLeft":  strconv.Itoa(daysLeft),
		})

		if _, err := h.push.SendToTopic(ctx, notify.Push{
			Topic:    notify.FavoriteTopic(ev.ID),
			Title:    tmpl.Title,
			Body:     body,
			Image:    ev.Photo,
			TypeCode: notify.TypeFavoriteReminder,
			Info:     map[string]string{"eventId": ev.ID},
		}); err != nil {
			h.log.Error("favorite reminder push failed", map[string]interface{}{"eventId": ev.ID, "error": err})
			continue
		}

		rec := notify.BuildRecord(notify.RecordParams{
			Title:            tmpl.Title,
			Content:          body,
			NotificationType: notify.TypeFavoriteReminder,
			Image:            ev.Photo,
			EventID:          ev.ID,
			EventHost:        ev.HostID,
		})
		updated, err := h.fanout.Deliver(ctx,
			notify.ByRelationship(favoritesField, h.eventRef(ev.ID)), rec)
		if err != nil {
			h.log.Error("favorite reminder fan-out failed", map[string]interface{}{"eventId": ev.ID, "error": err})
			continue
		}
		total += updated
	}

	httpx.WriteJSON(w, http.StatusOK, RunResponse{
		Message: "Favorite reminders sent",
		Events:  len(events),
		Updated: total,
	})
}

// EngagementPrompts sends periodic nudges. rate-app and create-event are
// broadcast pushes; recurring-event goes to hosts whose events wrapped up
// about a week ago.
func (h *Handler) EngagementPrompts(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req PromptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	switch req.Mode {
	case PromptRateApp:
		h.broadcastPrompt(w, r, notify.TypeRateApp)
	case PromptCreateEvent:
		h.broadcastPrompt(w, r, notify.TypeCreateEventPrompt)
	case PromptRecurringEvent:
		h.recurringPrompt(w, r)
	default:
		httpx.WriteError(w, apperrors.NewBadRequestError(
			"The mode must be rate-app, create-event or recurring-event"))
	}
}

func (h *Handler) broadcastPrompt(w http.ResponseWriter, r *http.Request, typeCode string) {
	tmpl := notify.Templates[typeCode]
	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    notify.BroadcastTopic,
		Title:    tmpl.Title,
		Body:     tmpl.Body,
		TypeCode: typeCode,
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending engagement prompt", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          tmpl.Body,
		NotificationType: typeCode,
	})
	updated, err := h.fanout.Deliver(r.Context(), notify.Everyone(), rec)
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error adding engagement prompts", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, RunResponse{Message: "Prompt sent", Updated: updated})
}

// recurringPrompt targets hosts of events that started seven to eight days
// ago, suggesting they run the event again.
func (h *Handler) recurringPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now().UTC()
	events, err := h.events.EventsBetween(ctx, now.Add(-8*24*time.Hour), now.Add(-7*24*time.Hour))
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error listing past events", err))
		return
	}

	total := 0
	for _, ev := range events {
		if ev.HostID == "" {
			continue
		}
		tmpl := notify.Templates[notify.TypeRecurringEventPrompt]
		body := notify.RenderTemplate(tmpl.Body, map[string]string{"eventName": ev.Name})

		if _, err := h.push.SendToTopic(ctx, notify.Push{
			Topic:    ev.HostID,
			Title:    tmpl.Title,
			Body:     body,
			Image:    ev.Photo,
			TypeCode: notify.TypeRecurringEventPrompt,
			Info:     map[string]string{"eventId": ev.ID},
		}); err != nil {
			h.log.Error("recurring prompt push failed", map[string]interface{}{"eventId": ev.ID, "error": err})
			continue
		}

		rec := notify.BuildRecord(notify.RecordParams{
			Title:            tmpl.Title,
			Content:          body,
			NotificationType: notify.TypeRecurringEventPrompt,
			Image:            ev.Photo,
			EventID:          ev.ID,
			EventHost:        ev.HostID,
		})
		if err := h.fanout.DeliverOne(ctx, ev.HostID, rec); err != nil {
			h.log.Error("recurring prompt append failed", map[string]interface{}{"eventId": ev.ID, "error": err})
			continue
		}
		total++
	}

	httpx.WriteJSON(w, http.StatusOK, RunResponse{
		Message: "Recurring prompts sent",
		Events:  len(events),
		Updated: total,
	})
}

// daysUntil rounds up so an event 50 hours away reads as "3 days".
func daysUntil(now, start time.Time) int {
	d := start.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

