package steps

import (
	"sync"
	"time"
)

type Stage string

const (
	StageHaloscan        Stage = "haloscan"
	StageKnowledgeDomain Stage = "knowledge_domain"
	StageContextVector   Stage = "context_vector"
	StageEAVModel        Stage = "eav_model"
	StageTopicalMap      Stage = "topical_map"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{StageHaloscan, StageKnowledgeDomain, StageContextVector, StageEAVModel, StageTopicalMap}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

type ProgressEvent struct {
	Stage   Stage     `json:"step"`
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

type progressKey struct {
	stage  Stage
	status Status
}

// ProgressStream fans pipeline events out to subscribers. Delivery is
// synchronous and in emission order; each (stage, status) pair is forwarded
// at most once. A nil stream discards everything.
type ProgressStream struct {
	mu   sync.Mutex
	subs []func(ProgressEvent)
	seen map[progressKey]bool
	now  func() time.Time
}

func NewProgressStream(subs ...func(ProgressEvent)) *ProgressStream {
	s := &ProgressStream{seen: map[progressKey]bool{}, now: time.Now}
	for _, fn := range subs {
		s.Subscribe(fn)
	}
	return s
}

func (s *ProgressStream) Subscribe(fn func(ProgressEvent)) {
	if s == nil || fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Emit reports whether the event was forwarded.
func (s *ProgressStream) Emit(ev ProgressEvent) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	k := progressKey{ev.Stage, ev.Status}
	if s.seen[k] {
		s.mu.Unlock()
		return false
	}
	s.seen[k] = true
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	subs := append([]func(ProgressEvent){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
	return true
}

func (s *ProgressStream) emit(stage Stage, status Status, msg string, data any) {
	s.Emit(ProgressEvent{Stage: stage, Status: status, Message: msg, Data: data})
}

// fail emits the stage error event and hands err back for returning.
func (s *ProgressStream) fail(stage Stage, err error) error {
	if err != nil {
		s.emit(stage, StatusError, err.Error(), nil)
	}
	return err
}
