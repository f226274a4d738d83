package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vocilia/pkg/domain"
	"vocilia/pkg/requestcontext"
)

func testEvent(eventType Type) Event {
	return Event{
		Type:       eventType,
		SessionID:  id.NewSessionID(),
		BusinessID: id.NewBusinessID(),
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEvent_Validate(t *testing.T) {
	valid := testEvent(TypeSessionStarted)
	assert.NoError(t, valid.Validate())

	unknown := valid
	unknown.Type = "session_exploded"
	assert.Error(t, unknown.Validate())

	noSession := valid
	noSession.SessionID = id.SessionID{}
	assert.Error(t, noSession.Validate())

	noBusiness := valid
	noBusiness.BusinessID = id.BusinessID{}
	assert.Error(t, noBusiness.Validate())
}

func TestEvent_JSONShape(t *testing.T) {
	e := testEvent(TypeRewardDecided)
	e.OccurredAt = time.Date(2025, 6, 12, 13, 0, 0, 0, time.UTC)
	e.Attrs = map[string]any{"final_reward": 2500}

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"reward_decided"`)
	assert.Contains(t, string(raw), e.SessionID.String())
	assert.Contains(t, string(raw), `"final_reward":2500`)
}

func TestStorePublisher(t *testing.T) {
	store := NewInMemoryStore()
	publisher, err := NewStorePublisher(store)
	require.NoError(t, err)

	now := time.Date(2025, 6, 12, 13, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	e := testEvent(TypeSessionStarted)
	require.NoError(t, publisher.Emit(ctx, e))

	stored, err := store.ListBySession(ctx, e.SessionID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, now, stored[0].OccurredAt, "missing timestamp is filled in")

	// An explicit timestamp survives.
	e2 := testEvent(TypeStateChanged)
	e2.OccurredAt = now.Add(-time.Minute)
	require.NoError(t, publisher.Emit(ctx, e2))
	stored, err = store.ListBySession(ctx, e2.SessionID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, now.Add(-time.Minute), stored[0].OccurredAt)

	assert.Error(t, publisher.Emit(ctx, Event{Type: "nope"}))
}

func TestChannelPublisher_DropsOnFullBuffer(t *testing.T) {
	publisher := NewChannelPublisher(1, WithChannelLogger(quietLogger()))

	first := testEvent(TypeSessionStarted)
	second := testEvent(TypeSessionCompleted)

	require.NoError(t, publisher.Emit(context.Background(), first))
	// The second emit must return immediately instead of blocking.
	require.NoError(t, publisher.Emit(context.Background(), second))

	select {
	case got := <-publisher.Inbox():
		assert.Equal(t, first.SessionID, got.SessionID)
	default:
		t.Fatal("expected the first event in the inbox")
	}

	select {
	case got := <-publisher.Inbox():
		t.Fatalf("expected the second event dropped, got %v", got.Type)
	default:
	}
}

func TestChannelPublisher_RejectsInvalidEvents(t *testing.T) {
	publisher := NewChannelPublisher(1)
	assert.Error(t, publisher.Emit(context.Background(), Event{}))
}

// countingSink fails the first delivery and records the rest.
type countingSink struct {
	attempts  int
	delivered []Event
	failFirst bool
}

func (s *countingSink) Emit(_ context.Context, e Event) error {
	s.attempts++
	if s.failFirst && s.attempts == 1 {
		return errors.New("sink down")
	}
	s.delivered = append(s.delivered, e)
	return nil
}

func TestWorker_DrainsInboxToSink(t *testing.T) {
	publisher := NewChannelPublisher(8, WithChannelLogger(quietLogger()))
	store := NewInMemoryStore()
	sink, err := NewStorePublisher(store)
	require.NoError(t, err)

	worker, err := NewWorker(sink, publisher.Inbox(), WithWorkerLogger(quietLogger()))
	require.NoError(t, err)

	sessions := make([]Event, 3)
	for i := range sessions {
		sessions[i] = testEvent(TypeStateChanged)
		require.NoError(t, publisher.Emit(context.Background(), sessions[i]))
	}

	// A cancelled context still drains what sessions already emitted.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = worker.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Len(t, store.All(), 3)
}

func TestWorker_SinkFailureDoesNotStopTheFeed(t *testing.T) {
	publisher := NewChannelPublisher(8, WithChannelLogger(quietLogger()))
	sink := &countingSink{failFirst: true}

	worker, err := NewWorker(sink, publisher.Inbox(), WithWorkerLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, publisher.Emit(context.Background(), testEvent(TypeFraudAssessed)))
	require.NoError(t, publisher.Emit(context.Background(), testEvent(TypeRewardDecided)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = worker.Run(ctx)

	assert.Equal(t, 2, sink.attempts, "delivery continues past a failure")
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, TypeRewardDecided, sink.delivered[0].Type)
}

func TestWorker_LiveDelivery(t *testing.T) {
	publisher := NewChannelPublisher(8, WithChannelLogger(quietLogger()))
	delivered := make(chan Event, 1)
	sink := sinkFunc(func(_ context.Context, e Event) error {
		delivered <- e
		return nil
	})

	worker, err := NewWorker(sink, publisher.Inbox(), WithWorkerLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	want := testEvent(TypeSilenceWarning)
	require.NoError(t, publisher.Emit(context.Background(), want))

	select {
	case got := <-delivered:
		assert.Equal(t, want.SessionID, got.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not deliver the event")
	}

	cancel()
	<-done
}

type sinkFunc func(ctx context.Context, e Event) error

func (f sinkFunc) Emit(ctx context.Context, e Event) error { return f(ctx, e) }
