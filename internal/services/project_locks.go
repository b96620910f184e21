package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

const lockKeyPrefix = "topicalmap:lock:"

// releaseScript deletes the lease only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ProjectLocks serialises generations per project. The in-process set covers
// a single instance; when redis is configured a lease extends the guarantee
// across instances until it expires.
type ProjectLocks struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}

	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewProjectLocks(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) *ProjectLocks {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &ProjectLocks{
		held: map[uuid.UUID]struct{}{},
		rdb:  rdb,
		ttl:  ttl,
		log:  baseLog.With("service", "ProjectLocks"),
	}
}

// Acquire returns ErrGenerationInProgress when the project is already held.
// The returned release func is safe to call more than once.
func (l *ProjectLocks) Acquire(ctx context.Context, projectID uuid.UUID) (func(), error) {
	l.mu.Lock()
	if _, ok := l.held[projectID]; ok {
		l.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	l.held[projectID] = struct{}{}
	l.mu.Unlock()

	releaseLocal := func() {
		l.mu.Lock()
		delete(l.held, projectID)
		l.mu.Unlock()
	}

	if l.rdb == nil {
		var once sync.Once
		return func() { once.Do(releaseLocal) }, nil
	}

	key := lockKeyPrefix + projectID.String()
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		releaseLocal()
		return nil, fmt.Errorf("acquire project lock: %w", err)
	}
	if !ok {
		releaseLocal()
		return nil, ErrGenerationInProgress
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be done.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
				l.log.Warn("release project lock failed", "project_id", projectID.String(), "error", err)
			}
			releaseLocal()
		})
	}, nil
}

// Held reports whether this instance currently holds the project.
func (l *ProjectLocks) Held(projectID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[projectID]
	return ok
}
