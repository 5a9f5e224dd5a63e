// internal/notify/dispatcher.go
package notify

import (
	"context"
	"encoding/json"
	"time"

	"firebase.google.com/go/v4/messaging"

	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/common/metrics"
)

const androidChannelID = "high_importance_channel"

// Messenger is the push gateway surface the dispatcher needs.
// *messaging.Client satisfies it.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Push describes one topic-addressed gateway message.
type Push struct {
	Topic    string
	Title    string
	Body     string
	Image    string
	TypeCode string
	// Info carries correlation identifiers (eventId, eventHost, ...)
	// serialized into the data payload's "information" field.
	Info map[string]string
}

// Dispatcher sends topic messages through the push gateway.
type Dispatcher struct {
	messenger Messenger
	log       logger.Logger
	now       func() time.Time
}

func NewDispatcher(messenger Messenger, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		messenger: messenger,
		log:       log,
		now:       time.Now,
	}
}

// SendToTopic normalizes the topic, builds the gateway envelope and sends
// one message. Returns the gateway's delivery receipt.
func (d *Dispatcher) SendToTopic(ctx context.Context, p Push) (string, error) {
	topic := NormalizeTopic(p.Topic)

	data := map[string]string{
		"notification": p.TypeCode,
		"image":        p.Image,
		"date":         d.now().UTC().Format(time.RFC3339),
	}
	if len(p.Info) > 0 {
		info, err := json.Marshal(p.Info)
		if err == nil {
			data["information"] = string(info)
		}
	}

	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title:    p.Title,
			Body:     p.Body,
			ImageURL: p.Image,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: androidChannelID,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
		Topic: topic,
	}

	receipt, err := d.messenger.Send(ctx, msg)
	if err != nil {
		d.log.Error("push send failed", map[string]interface{}{
			"topic": topic,
			"type":  p.TypeCode,
			"error": err,
		})
		return "", err
	}

	metrics.NotificationsSent.WithLabelValues(p.TypeCode).Inc()
	d.log.Info("push sent", map[string]interface{}{
		"topic":   topic,
		"type":    p.TypeCode,
		"receipt": receipt,
	})
	return receipt, nil
}
