package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Handle(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func TestBusDeliversToAllSinks(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{err: errors.New("down")}
	bus := NewBus(zap.NewNop(), nil, 4, a, b)
	bus.Start(context.Background())

	require.True(t, bus.Publish(Event{Type: TypeNovedadCreated, EntityID: "c1"}))
	require.True(t, bus.Publish(Event{Type: TypeContractApproved, EntityID: "c2"}))
	bus.Close()

	require.Len(t, a.events, 2)
	assert.Len(t, b.events, 2, "a failing sink does not stop delivery")
	assert.False(t, a.events[0].OccurredAt.IsZero())
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(zap.NewNop(), nil, 1)
	assert.True(t, bus.Publish(Event{Type: TypeNovedadCreated}))
	assert.False(t, bus.Publish(Event{Type: TypeNovedadCreated}))
	bus.Start(context.Background())
	bus.Close()
}

func TestBusPublishAfterCloseDrops(t *testing.T) {
	sink := &recordingSink{}
	bus := NewBus(zap.NewNop(), nil, 8, sink)
	bus.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(Event{Type: TypeContractExpiring, EntityID: "c1"})
			}
		}()
	}
	bus.Close()
	wg.Wait()

	assert.False(t, bus.Publish(Event{Type: TypeContractExpiring, EntityID: "c2"}))
	for _, e := range sink.events {
		assert.Equal(t, "c1", e.EntityID)
	}
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSinkKeysByEntity(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSink(w, "hr.contracts.events")
	require.NoError(t, sink.Handle(context.Background(), Event{Type: TypeContractExtended, EntityID: "c9"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "hr.contracts.events", w.msgs[0].Topic)
	assert.Equal(t, []byte("c9"), w.msgs[0].Key)
	assert.Equal(t, "event-type", w.msgs[0].Headers[0].Key)
}

type fakeMailer struct {
	subjects []string
}

func (m *fakeMailer) Send(_ context.Context, _, subject, _ string) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func TestEmailSinkOnlyMailsNotableEvents(t *testing.T) {
	m := &fakeMailer{}
	sink := NewEmailSink(m, "rrhh@example.com")
	ctx := context.Background()
	require.NoError(t, sink.Handle(ctx, Event{Type: TypeNovedadCreated}))
	require.NoError(t, sink.Handle(ctx, Event{Type: TypeContractTerminated}))
	require.NoError(t, sink.Handle(ctx, Event{Type: TypeContractExpiring}))
	assert.Equal(t, []string{"Terminación de contrato registrada", "Contrato próximo a vencer"}, m.subjects)
}
