package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

type recordingStore struct {
	mu   sync.Mutex
	logs []models.AuditLog
	err  error
}

func (s *recordingStore) SaveAuditLog(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, *log)
	return nil
}

func (s *recordingStore) snapshot() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.logs...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func TestDispatcher_WritesEventsOnClose(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	d := NewDispatcher(New(store), discardLogger())

	d.Dispatch(Event{
		UserID:   ptr("u1"),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ptr("a1"),
		Metadata: map[string]any{"pet": "p1"},
	})
	d.Dispatch(Event{Action: "appointment_cancelled", Entity: "appointment"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	logs := store.snapshot()
	require.Len(t, logs, 2)
	assert.Equal(t, "appointment_created", logs[0].Action)
	assert.Equal(t, `{"pet":"p1"}`, logs[0].Metadata)
	assert.Equal(t, "a1", *logs[0].EntityID)
	assert.Empty(t, logs[1].Metadata)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	d := NewDispatcher(New(store), discardLogger())

	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "appointment_created"})
	})
	assert.Empty(t, store.snapshot())
}

func TestDispatcher_StoreErrorDoesNotStopWorker(t *testing.T) {
	t.Parallel()

	store := &recordingStore{err: errors.New("db down")}
	d := NewDispatcher(New(store), discardLogger())

	d.Dispatch(Event{Action: "appointment_created"})
	d.Dispatch(Event{Action: "appointment_updated"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Close(ctx))
}
