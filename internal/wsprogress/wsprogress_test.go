package wsprogress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	hub := NewHub(1024, 1024)
	jobID := uuid.New()

	ch, unsubscribe := hub.subscribe(jobID)
	defer unsubscribe()

	hub.Publish(jobID, LayerEvent{Type: EventLayer, JobID: jobID.String(), Slot: 2, Survivors: 9})

	evt := <-ch
	assert.Equal(t, EventLayer, evt.Type)
	assert.Equal(t, 2, evt.Slot)
	assert.Equal(t, 9, evt.Survivors)
}

func TestPublishWithNoSubscribersDoesNotPanic(t *testing.T) {
	hub := NewHub(1024, 1024)
	assert.NotPanics(t, func() {
		hub.Publish(uuid.New(), LayerEvent{Type: EventDone})
	})
}

func TestPublishDoesNotBlockOnFullSubscriberChannel(t *testing.T) {
	hub := NewHub(1024, 1024)
	jobID := uuid.New()
	ch, unsubscribe := hub.subscribe(jobID)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(jobID, LayerEvent{Type: EventLayer, Slot: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ch:
	}
}

func TestUnsubscribeRemovesChannelAndStopsDelivery(t *testing.T) {
	hub := NewHub(1024, 1024)
	jobID := uuid.New()
	ch, unsubscribe := hub.subscribe(jobID)

	unsubscribe()

	_, stillOpen := <-ch
	require.False(t, stillOpen, "channel must be closed after unsubscribe")

	_, ok := hub.subs[jobID]
	assert.False(t, ok, "job must have no subscriber entry left")
}

func TestMultipleSubscribersEachReceiveEvent(t *testing.T) {
	hub := NewHub(1024, 1024)
	jobID := uuid.New()

	chA, unsubA := hub.subscribe(jobID)
	defer unsubA()
	chB, unsubB := hub.subscribe(jobID)
	defer unsubB()

	hub.Publish(jobID, LayerEvent{Type: EventDone, JobID: jobID.String()})

	assert.Equal(t, EventDone, (<-chA).Type)
	assert.Equal(t, EventDone, (<-chB).Type)
}
