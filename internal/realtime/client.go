package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type SSEClient struct {
	ID        uuid.UUID
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	closeOnce sync.Once
	Logger    *logger.Logger
}

func (c *SSEClient) Done() <-chan struct{} { return c.done }
