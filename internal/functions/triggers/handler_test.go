// internal/functions/triggers/handler_test.go
package triggers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp-functions/internal/common/config"
	"eventapp-functions/internal/common/database"
	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/notify"
)

// MockPushSender implements PushSender for testing
type MockPushSender struct {
	SendFunc func(ctx context.Context, p notify.Push) (string, error)
	sent     []notify.Push
}

func (m *MockPushSender) SendToTopic(ctx context.Context, p notify.Push) (string, error) {
	m.sent = append(m.sent, p)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, p)
	}
	return "projects/test/messages/1", nil
}

// MockDeliverer implements Deliverer for testing
type MockDeliverer struct {
	DeliverFunc func(ctx context.Context, pred notify.Predicate, rec notify.Record) (int, error)

	records    []notify.Record
	predicates []notify.Predicate
}

func (m *MockDeliverer) Deliver(ctx context.Context, pred notify.Predicate, rec notify.Record) (int, error) {
	m.records = append(m.records, rec)
	m.predicates = append(m.predicates, pred)
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, pred, rec)
	}
	return 1, nil
}

func newTestHandler(t *testing.T) (*Handler, *MockPushSender, *MockDeliverer) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	push := &MockPushSender{}
	fanout := &MockDeliverer{}
	h := NewHandler(push, fanout, rdb, 24*time.Hour, logger.NewTestLogger(t))
	return h, push, fanout
}

func deliver(t *testing.T, h *Handler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rr := httptest.NewRecorder()
	h.EventCreated(rr, req)
	return rr
}

func validPayload() EventCreatedPayload {
	return EventCreatedPayload{
		EventID: "evt-1",
		Event: EventDoc{
			Name:      "Jazz Night",
			Photo:     "https://img/jazz.png",
			State:     "Jalisco",
			HostID:    "host-1",
			StartDate: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		},
	}
}

func TestEventCreatedStateMatch(t *testing.T) {
	h, push, fanout := newTestHandler(t)

	rr := deliver(t, h, validPayload())

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, push.sent, 1)
	assert.Equal(t, "Jalisco", push.sent[0].Topic)
	assert.Equal(t, notify.TypeStateMatch, push.sent[0].TypeCode)

	require.Len(t, fanout.predicates, 1)
	assert.Equal(t, "state", fanout.predicates[0].EqField)
	assert.Equal(t, "Jalisco", fanout.predicates[0].EqValue)
	assert.Equal(t, notify.TypeStateMatch, fanout.records[0].NotificationType)
}

func TestEventCreatedInterestMatch(t *testing.T) {
	h, push, fanout := newTestHandler(t)

	payload := validPayload()
	payload.Event.InterestList = "Live Music"
	rr := deliver(t, h, payload)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, push.sent, 2)
	assert.Equal(t, "live_music-jalisco", push.sent[0].Topic)
	assert.Equal(t, notify.TypeInterestMatch, push.sent[0].TypeCode)

	require.Len(t, fanout.predicates, 2)
	interest := fanout.predicates[0]
	assert.Equal(t, "state", interest.EqField)
	assert.Equal(t, "Jalisco", interest.EqValue)
	assert.Equal(t, "interestList", interest.ArrField)
	assert.Equal(t, "Live Music", interest.ArrValue)
}

func TestEventCreatedSameDay(t *testing.T) {
	h, push, fanout := newTestHandler(t)
	h.now = func() time.Time {
		return time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	}

	rr := deliver(t, h, validPayload())

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, push.sent, 2)
	assert.Equal(t, notify.TypeSameDay, push.sent[1].TypeCode)
	// same-day is push only
	require.Len(t, fanout.records, 1)
	assert.Equal(t, notify.TypeStateMatch, fanout.records[0].NotificationType)
}

func TestEventCreatedSameDaySkippedOnOtherDays(t *testing.T) {
	h, push, _ := newTestHandler(t)
	h.now = func() time.Time {
		return time.Date(2026, 3, 13, 23, 59, 0, 0, time.UTC)
	}

	deliver(t, h, validPayload())

	require.Len(t, push.sent, 1)
	assert.Equal(t, notify.TypeStateMatch, push.sent[0].TypeCode)
}

func TestEventCreatedDuplicateDelivery(t *testing.T) {
	h, push, fanout := newTestHandler(t)

	first := deliver(t, h, validPayload())
	second := deliver(t, h, validPayload())

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	// the second delivery loses every claim, so nothing is re-sent
	assert.Len(t, push.sent, 1)
	assert.Len(t, fanout.records, 1)
}

func TestEventCreatedInvalidPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "missing event id",
			payload: map[string]interface{}{
				"event": map[string]interface{}{
					"name":      "Jazz Night",
					"state":     "Jalisco",
					"hostId":    "host-1",
					"startDate": "2026-03-14T20:00:00Z",
				},
			},
		},
		{
			name: "missing event document",
			payload: map[string]interface{}{
				"eventId": "evt-1",
			},
		},
		{
			name: "empty state",
			payload: map[string]interface{}{
				"eventId": "evt-1",
				"event": map[string]interface{}{
					"name":      "Jazz Night",
					"state":     "",
					"hostId":    "host-1",
					"startDate": "2026-03-14T20:00:00Z",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, push, _ := newTestHandler(t)

			rr := deliver(t, h, tt.payload)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, push.sent)

			var envelope map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
			assert.Equal(t, "bad-request", envelope["error"])
		})
	}
}

func TestEventCreatedPushFailureStillAcknowledged(t *testing.T) {
	h, push, fanout := newTestHandler(t)
	push.SendFunc = func(ctx context.Context, p notify.Push) (string, error) {
		return "", errors.New("fcm down")
	}

	rr := deliver(t, h, validPayload())

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, fanout.records)
}

func TestEventCreatedWrongMethod(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.EventCreated(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
