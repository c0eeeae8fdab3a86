package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_aid_connect/internal/config"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newQuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func TestRedisWebhookPublisher_Publish(t *testing.T) {
	client := newTestRedis(t)
	publisher := NewRedisWebhookPublisher(client)
	ctx := context.Background()
	id := uuid.New()

	err := publisher.Publish(ctx, WebhookEvent{
		Event:      EventDisasterCreated,
		DisasterID: id,
		Disaster:   &models.DisasterReport{ID: id, Name: "Flood A", Status: models.StatusPending},
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)

	raw, err := client.RPop(ctx, webhookQueueKey).Result()
	require.NoError(t, err)

	var event WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	assert.Equal(t, EventDisasterCreated, event.Event)
	assert.Equal(t, id, event.DisasterID)
	assert.Equal(t, "Flood A", event.Disaster.Name)
}

func TestWebhookWorker_DeliversSignedPayload(t *testing.T) {
	client := newTestRedis(t)
	received := make(chan *http.Request, 1)
	bodies := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- string(body)
		received <- r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  10 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewWebhookWorker(client, newQuietLogger(), cfg)
	worker.Start(ctx)

	id := uuid.New()
	require.NoError(t, NewRedisWebhookPublisher(client).Publish(ctx, WebhookEvent{
		Event:          EventDisasterStatusChanged,
		DisasterID:     id,
		PreviousStatus: models.StatusPending,
		Timestamp:      time.Now(),
	}))

	select {
	case body := <-bodies:
		req := <-received
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "sha256="+generateHMACSHA256(body, "s3cret"), req.Header.Get("X-Webhook-Signature"))
		assert.Equal(t, string(EventDisasterStatusChanged), req.Header.Get("X-Webhook-Event"))
		assert.Contains(t, body, id.String())
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not delivered")
	}

	cancel()
	select {
	case <-worker.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWebhookWorker_RetriesOnFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := NewWebhookWorker(nil, newQuietLogger(), cfg)

	worker.processWebhookEvent(context.Background(), WebhookEvent{Event: EventDisasterCreated}, `{"event":"disaster.created"}`)

	assert.Equal(t, int32(3), attempts.Load())
}

func TestWebhookWorker_PermanentFailureGoesToDeadLetter(t *testing.T) {
	client := newTestRedis(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 5,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := NewWebhookWorker(client, newQuietLogger(), cfg)
	payload := `{"event":"disaster.created"}`

	worker.processWebhookEvent(context.Background(), WebhookEvent{Event: EventDisasterCreated}, payload)

	assert.Equal(t, int32(1), attempts.Load())
	failed, err := client.LRange(context.Background(), failedQueueKey, 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{payload}, failed)
}

func TestWebhookWorker_ExhaustedRetriesGoToDeadLetter(t *testing.T) {
	client := newTestRedis(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 2,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := NewWebhookWorker(client, newQuietLogger(), cfg)

	worker.processWebhookEvent(context.Background(), WebhookEvent{Event: EventDisasterCreated}, `{}`)

	n, err := client.LLen(context.Background(), failedQueueKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestWebhookWorker_SkipsWithoutURL(t *testing.T) {
	worker := NewWebhookWorker(nil, newQuietLogger(), &config.Config{WebhookTimeout: time.Second})

	assert.NotPanics(t, func() {
		worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)
	})
}

func TestGenerateHMACSHA256(t *testing.T) {
	a := generateHMACSHA256("payload", "k1")
	assert.Equal(t, a, generateHMACSHA256("payload", "k1"))
	assert.NotEqual(t, a, generateHMACSHA256("payload", "k2"))
	assert.Len(t, a, 64)
}
