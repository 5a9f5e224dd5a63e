// internal/functions/notifications/handler.go
package notifications

import (
	"context"
	"net/http"

	apperrors "eventapp-functions/internal/common/errors"
	"eventapp-functions/internal/common/httpx"
	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/notify"
)

// Attendance and favorite relationships live as reference lists on the
// user document.
const attendanceField = "attendance"

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
	eventRef func(eventID string) interface{}
	log      logger.Logger
}

// NewHandler wires the directed-send handlers. eventRef resolves an event ID
// to the reference value stored in user relationship lists.
func NewHandler(push PushSender, fanout Deliverer, eventRef func(string) interface{}, log logger.Logger) *Handler {
	return &Handler{
		push:     push,
		fanout:   fanout,
		eventRef: eventRef,
		log:      log.WithFields(map[string]interface{}{"component": "notifications"}),
	}
}

// PutNotification appends a caller-built record to one user's inbox.
func (h *Handler) PutNotification(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req PutNotificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.UserID == "" || req.Title == "" || req.Content == "" || req.NotificationType == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError(
			"The userId, title, content and notificationType of the notification are required"))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            req.Title,
		Content:          req.Content,
		NotificationType: req.NotificationType,
		Image:            req.Image,
		Navigation:       req.Navigation,
		URL:              req.URL,
		EventID:          req.EventID,
		EventHost:        req.EventHost,
	})

	if err := h.fanout.DeliverOne(r.Context(), req.UserID, rec); err != nil {
		h.log.Error("inbox append failed", map[string]interface{}{"userId": req.UserID, "error": err})
		httpx.WriteError(w, apperrors.NewInternalError("Error adding notification", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification added successfully"})
}

// Invite pushes an invitation to a guest's personal topic and records it
// in their inbox.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req InviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.InviteUser == "" || req.EventName == "" || req.EventPhoto == "" || req.EventID == "" || req.GuestID == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError(
			"The inviteUser, eventName, eventPhoto, eventId and guestId of the notification are required"))
		return
	}

	tmpl := notify.Templates[notify.TypeInvite]
	body := notify.RenderTemplate(tmpl.Body, map[string]string{
		"inviteUser": req.InviteUser,
		"eventName":  req.EventName,
	})

	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    req.GuestID,
		Title:    tmpl.Title,
		Body:     body,
		Image:    req.EventPhoto,
		TypeCode: notify.TypeInvite,
		Info:     map[string]string{"eventId": req.EventID},
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending invite notification", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          body,
		NotificationType: notify.TypeInvite,
		Image:            req.EventPhoto,
		EventID:          req.EventID,
	})
	if err := h.fanout.DeliverOne(r.Context(), req.GuestID, rec); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error adding invite notification", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification sent successfully"})
}

// EventFinish pushes a feedback prompt to an event's attendee topic and
// fans the record out to every attendee inbox.
func (h *Handler) EventFinish(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req EventFinishRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.EventPhoto == "" || req.EventID == "" || req.HostID == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError(
			"The eventPhoto, eventId and hostId of the notification are required"))
		return
	}

	tmpl := notify.Templates[notify.TypeEventFinished]

	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    req.EventID,
		Title:    tmpl.Title,
		Body:     tmpl.Body,
		Image:    req.EventPhoto,
		TypeCode: notify.TypeEventFinished,
		Info:     map[string]string{"eventId": req.EventID, "eventHost": req.HostID},
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending event finish notification", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          tmpl.Body,
		NotificationType: notify.TypeEventFinished,
		Image:            req.EventPhoto,
		EventID:          req.EventID,
		EventHost:        req.HostID,
	})
	updated, err := h.fanout.Deliver(r.Context(),
		notify.ByRelationship(attendanceField, h.eventRef(req.EventID)), rec)
	if err != nil {
		h.log.Error("attendee fan-out failed", map[string]interface{}{
			"eventId": req.EventID,
			"updated": updated,
			"error":   err,
		})
		httpx.WriteError(w, apperrors.NewInternalError("Error adding event finish notifications", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification sent successfully", Updated: updated})
}

// ChatMessage notifies a recipient of a new direct message.
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ChatMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.SenderName == "" || req.RecipientID == "" || req.Message == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError(
			"The senderName, recipientId and message of the notification are required"))
		return
	}

	tmpl := notify.Templates[notify.TypeChatMessage]
	body := notify.RenderTemplate(tmpl.Body, map[string]string{
		"senderName": req.SenderName,
		"message":    req.Message,
	})

	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    req.RecipientID,
		Title:    tmpl.Title,
		Body:     body,
		Image:    req.Image,
		TypeCode: notify.TypeChatMessage,
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending chat notification", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          body,
		NotificationType: notify.TypeChatMessage,
		Image:            req.Image,
		Navigation:       req.Navigation,
	})
	if err := h.fanout.DeliverOne(r.Context(), req.RecipientID, rec); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error adding chat notification", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification sent successfully"})
}

// Question notifies an event host about a new question on their event.
func (h *Handler) Question(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req QuestionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.EventID == "" || req.HostID == "" || req.Question == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError(
			"The eventId, hostId and question of the notification are required"))
		return
	}

	tmpl := notify.Templates[notify.TypeQuestion]
	body := notify.RenderTemplate(tmpl.Body, map[string]string{
		"eventName": req.EventName,
		"question":  req.Question,
	})

	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    req.HostID,
		Title:    tmpl.Title,
		Body:     body,
		TypeCode: notify.TypeQuestion,
		Info:     map[string]string{"eventId": req.EventID},
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending question notification", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          body,
		NotificationType: notify.TypeQuestion,
		EventID:          req.EventID,
		EventHost:        req.HostID,
	})
	if err := h.fanout.DeliverOne(r.Context(), req.HostID, rec); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error adding question notification", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification sent successfully"})
}

// Admin handles moderation sends: a broadcast to every user or a strike
// notice to a single account.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AdminRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	switch req.Mode {
	case AdminModeBroadcast:
		h.adminBroadcast(w, r, req)
	case AdminModeStrike:
		h.adminStrike(w, r, req)
	default:
		httpx.WriteError(w, apperrors.NewBadRequestError("The mode must be broadcast or strike"))
	}
}

func (h *Handler) adminBroadcast(w http.ResponseWriter, r *http.Request, req AdminRequest) {
	if req.Title == "" || req.Content == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The title and content of the broadcast are required"))
		return
	}

	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    notify.BroadcastTopic,
		Title:    req.Title,
		Body:     req.Content,
		TypeCode: notify.TypeAdminBroadcast,
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending broadcast notification", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            req.Title,
		Content:          req.Content,
		NotificationType: notify.TypeAdminBroadcast,
	})
	updated, err := h.fanout.Deliver(r.Context(), notify.Everyone(), rec)
	if err != nil {
		h.log.Error("broadcast fan-out failed", map[string]interface{}{"updated": updated, "error": err})
		httpx.WriteError(w, apperrors.NewInternalError("Error adding broadcast notifications", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification sent successfully", Updated: updated})
}

func (h *Handler) adminStrike(w http.ResponseWriter, r *http.Request, req AdminRequest) {
	if req.UserID == "" || req.Content == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The userId and content of the strike are required"))
		return
	}

	tmpl := notify.Templates[notify.TypeAdminStrike]
	body := notify.RenderTemplate(tmpl.Body, map[string]string{"content": req.Content})

	if _, err := h.push.SendToTopic(r.Context(), notify.Push{
		Topic:    req.UserID,
		Title:    tmpl.Title,
		Body:     body,
		TypeCode: notify.TypeAdminStrike,
	}); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error sending strike notification", err))
		return
	}

	rec := notify.BuildRecord(notify.RecordParams{
		Title:            tmpl.Title,
		Content:          body,
		NotificationType: notify.TypeAdminStrike,
	})
	if err := h.fanout.DeliverOne(r.Context(), req.UserID, rec); err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error adding strike notification", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SendResponse{Message: "Notification sent successfully"})
}
