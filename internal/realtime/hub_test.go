package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := ProjectChannel(uuid.New())

	clientA := hub.NewSSEClient()
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventGenerationStarted})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventGenerationProgress, Data: map[string]any{"step": "haloscan"}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventGenerationStarted {
		t.Fatalf("first event: got=%s", got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventGenerationProgress {
		t.Fatalf("second event: got=%s", got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if hub.Subscribers(channel) != 0 {
		t.Fatalf("closed client still subscribed")
	}

	clientB := hub.NewSSEClient()
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventGenerationDone})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventGenerationDone {
		t.Fatalf("reconnect event: got=%s", got.Event)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	a, b := ProjectChannel(uuid.New()), ProjectChannel(uuid.New())

	client := hub.NewSSEClient()
	hub.AddChannel(client, a)
	hub.Broadcast(SSEMessage{Channel: b, Event: SSEEventProjectUpdated})
	hub.Broadcast(SSEMessage{Channel: a, Event: SSEEventTopicalMapUpdated})

	if got := recvMessage(t, client.Outbound, time.Second); got.Event != SSEEventTopicalMapUpdated {
		t.Fatalf("got event from another project: %s", got.Event)
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := "project:x"
	client := hub.NewSSEClient()
	hub.AddChannel(client, channel)

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventGenerationProgress})
	}
	if len(client.Outbound) != outboundBuffer {
		t.Fatalf("buffered = %d, want %d", len(client.Outbound), outboundBuffer)
	}
}
