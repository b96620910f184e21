package steps

import (
	"fmt"
	"strings"
)

// PreconditionError means a stage was asked to run before the stages it
// depends on produced their output. It is returned before any provider call.
type PreconditionError struct {
	Stage   Stage
	Missing []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: missing prerequisite %s", e.Stage, strings.Join(e.Missing, ", "))
}

// ValidationError means the model returned parseable JSON that does not have
// the shape the stage needs.
type ValidationError struct {
	Stage  Stage
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: invalid model output: %s required", e.Stage, e.Field)
	}
	return fmt.Sprintf("%s: invalid model output: %s: %s", e.Stage, e.Field, e.Reason)
}

// CheckPreconditions reports which prior-stage documents stage needs but in
// does not carry.
func CheckPreconditions(stage Stage, in Input) error {
	var missing []string
	needKD := stage == StageContextVector || stage == StageEAVModel || stage == StageTopicalMap
	needCV := stage == StageEAVModel || stage == StageTopicalMap
	needEAV := stage == StageTopicalMap
	if needKD && in.KnowledgeDomain == nil {
		missing = append(missing, "knowledgeDomain")
	}
	if needCV && in.ContextVector == nil {
		missing = append(missing, "contextVector")
	}
	if needEAV && in.EAVModel == nil {
		missing = append(missing, "eavModel")
	}
	if len(missing) > 0 {
		return &PreconditionError{Stage: stage, Missing: missing}
	}
	return nil
}
