package bus

import (
	"context"
	"testing"

	"github.com/Berguit/topical-map-app/internal/realtime"
)

func TestLocalBusForwards(t *testing.T) {
	b := NewLocalBus()
	var got []realtime.SSEMessage
	if err := b.StartForwarder(context.Background(), func(m realtime.SSEMessage) { got = append(got, m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	_ = b.Publish(context.Background(), realtime.SSEMessage{Channel: "project:1", Event: realtime.SSEEventProjectUpdated})
	if len(got) != 1 || got[0].Channel != "project:1" {
		t.Fatalf("forwarded = %+v", got)
	}
}

func TestNewRedisBusRequiresClient(t *testing.T) {
	if _, err := NewRedisBus(nil, "", nil); err == nil {
		t.Fatalf("expected error without logger")
	}
}
