// internal/functions/scheduled/handler_test.go
package scheduled

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/models"
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
	singles    map[string]notify.Record
}

func (m *MockDeliverer) Deliver(ctx context.Context, pred notify.Predicate, rec notify.Record) (int, error) {
	m.records = append(m.records, rec)
	m.predicates = append(m.predicates, pred)
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, pred, rec)
	}
	return 1, nil
}

func (m *MockDeliverer) DeliverOne(ctx context.Context, userID string, rec notify.Record) error {
	if m.singles == nil {
		m.singles = make(map[string]notify.Record)
	}
	m.singles[userID] = rec
	return nil
}

// MockEventSource implements EventSource for testing
type MockEventSource struct {
	EventsFunc func(ctx context.Context, from, to time.Time) ([]models.Event, error)

	from, to time.Time
}

func (m *MockEventSource) EventsBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	m.from, m.to = from, to
	if m.EventsFunc != nil {
		return m.EventsFunc(ctx, from, to)
	}
	return nil, nil
}

var testNow = time.Date(2026, 5, 10, 6, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, events *MockEventSource) (*Handler, *MockPushSender, *MockDeliverer) {
	t.Helper()
	push := &MockPushSender{}
	fanout := &MockDeliverer{}
	h := NewHandler(push, fanout, events, func(eventID string) interface{} {
		return "event/" + eventID
	}, logger.NewTestLogger(t))
	h.now = func() time.Time { return testNow }
	return h, push, fanout
}

func post(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(http.MethodPost, "/", reader)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestEventsReminder(t *testing.T) {
	events := &MockEventSource{
		EventsFunc: func(ctx context.Context, from, to time.Time) ([]models.Event, error) {
			return []models.Event{
				{ID: "evt-1", Name: "Jazz Night", Photo: "p1", HostID: "host-1", StartDate: testNow.Add(6 * time.Hour)},
				{ID: "evt-2", Name: "Food Fair", Photo: "p2", HostID: "host-2", StartDate: testNow.Add(20 * time.Hour)},
			}, nil
		},
	}
	h, push, fanout := newTestHandler(t, events)
	fanout.DeliverFunc = func(ctx context.Context, pred notify.Predicate, rec notify.Record) (int, error) {
		return 10, nil
	}

	rr := post(t, h.EventsReminder, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testNow, events.from)
	assert.Equal(t, testNow.Add(7*24*time.Hour), events.to)

	require.Len(t, push.sent, 2)
	assert.Equal(t, "evt-1", push.sent[0].Topic)
	assert.Equal(t, notify.TypeReminder, push.sent[0].TypeCode)
	assert.Contains(t, push.sent[0].Body, "Jazz Night")

	require.Len(t, fanout.predicates, 2)
	assert.Equal(t, "attendance", fanout.predicates[0].ArrField)
	assert.Equal(t, "event/evt-1", fanout.predicates[0].ArrValue)

	var resp RunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Events)
	assert.Equal(t, 20, resp.Updated)
}

func TestEventsReminderNoEvents(t *testing.T) {
	h, push, fanout := newTestHandler(t, &MockEventSource{})

	rr := post(t, h.EventsReminder, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, push.sent)
	assert.Empty(t, fanout.records)
}

func TestEventsReminderContinuesPastFailures(t *testing.T) {
	events := &MockEventSource{
		EventsFunc: func(ctx context.Context, from, to time.Time) ([]models.Event, error) {
			return []models.Event{
				{ID: "evt-1", Name: "Jazz Night", StartDate: testNow.Add(time.Hour)},
				{ID: "evt-2", Name: "Food Fair", StartDate: testNow.Add(2 * time.Hour)},
			}, nil
		},
	}
	h, push, fanout := newTestHandler(t, events)
	push.SendFunc = func(ctx context.Context, p notify.Push) (string, error) {
		if p.Topic == "evt-1" {
			return "", errors.New("fcm down")
		}
		return "ok", nil
	}

	rr := post(t, h.EventsReminder, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	// evt-1 failed at the push, evt-2 still fanned out
	require.Len(t, fanout.predicates, 1)
	assert.Equal(t, "event/evt-2", fanout.predicates[0].ArrValue)
}

func TestEventsReminderSourceFailure(t *testing.T) {
	events := &MockEventSource{
		EventsFunc: func(ctx context.Context, from, to time.Time) ([]models.Event, error) {
			return nil, errors.New("firestore unavailable")
		},
	}
	h, _, _ := newTestHandler(t, events)

	rr := post(t, h.EventsReminder, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestFavoritesReminder(t *testing.T) {
	events := &MockEventSource{
		EventsFunc: func(ctx context.Context, from, to time.Time) ([]models.Event, error) {
			return []models.Event{
				{ID: "evt-1", Name: "Jazz Night", StartDate: testNow.Add(50 * time.Hour)},
			}, nil
		},
	}
	h, push, fanout := newTestHandler(t, events)

	rr := post(t, h.FavoritesReminder, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testNow.Add(7*24*time.Hour), events.to)

	require.Len(t, push.sent, 1)
	assert.Equal(t, "favorite-evt-1", push.sent[0].Topic)
	assert.Equal(t, notify.TypeFavoriteReminder, push.sent[0].TypeCode)
	// 50 hours out rounds up to 3 days
	assert.Contains(t, push.sent[0].Body, "3 days")
	assert.Contains(t, push.sent[0].Body, "Jazz Night")

	require.Len(t, fanout.predicates, 1)
	assert.Equal(t, "favorites", fanout.predicates[0].ArrField)
	assert.Equal(t, "event/evt-1", fanout.predicates[0].ArrValue)
}

func TestEngagementPromptsBroadcast(t *testing.T) {
	tests := []struct {
		mode     string
		typeCode string
	}{
		{PromptRateApp, notify.TypeRateApp},
		{PromptCreateEvent, notify.TypeCreateEventPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			h, push, fanout := newTestHandler(t, &MockEventSource{})

			rr := post(t, h.EngagementPrompts, PromptRequest{Mode: tt.mode})

			assert.Equal(t, http.StatusOK, rr.Code)
			require.Len(t, push.sent, 1)
			assert.Equal(t, notify.BroadcastTopic, push.sent[0].Topic)
			assert.Equal(t, tt.typeCode, push.sent[0].TypeCode)

			require.Len(t, fanout.predicates, 1)
			assert.True(t, fanout.predicates[0].All)
			assert.Equal(t, tt.typeCode, fanout.records[0].NotificationType)
		})
	}
}

func TestEngagementPromptsRecurring(t *testing.T) {
	events := &MockEventSource{
		EventsFunc: func(ctx context.Context, from, to time.Time) ([]models.Event, error) {
			return []models.Event{
				{ID: "evt-1", Name: "Jazz Night", HostID: "host-1", StartDate: testNow.Add(-7*24*time.Hour - 2*time.Hour)},
				{ID: "evt-2", Name: "Orphan Event", StartDate: testNow.Add(-7*24*time.Hour - 3*time.Hour)},
			}, nil
		},
	}
	h, push, fanout := newTestHandler(t, events)

	rr := post(t, h.EngagementPrompts, PromptRequest{Mode: PromptRecurringEvent})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testNow.Add(-8*24*time.Hour), events.from)
	assert.Equal(t, testNow.Add(-7*24*time.Hour), events.to)

	// the hostless event is skipped
	require.Len(t, push.sent, 1)
	assert.Equal(t, "host-1", push.sent[0].Topic)
	assert.Contains(t, push.sent[0].Body, "Jazz Night")

	rec, ok := fanout.singles["host-1"]
	require.True(t, ok)
	assert.Equal(t, notify.TypeRecurringEventPrompt, rec.NotificationType)
}

func TestEngagementPromptsUnknownMode(t *testing.T) {
	h, push, _ := newTestHandler(t, &MockEventSource{})

	rr := post(t, h.EngagementPrompts, PromptRequest{Mode: "spam-everyone"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, push.sent)
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name  string
		ahead time.Duration
		want  int
	}{
		{"already started", -time.Hour, 0},
		{"under a day", 5 * time.Hour, 1},
		{"exactly two days", 48 * time.Hour, 2},
		{"rounds up", 50 * time.Hour, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysUntil(testNow, testNow.Add(tt.ahead)))
		})
	}
}
