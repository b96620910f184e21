package prompts

import (
	"fmt"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[PromptName]Template{}
	registerMu sync.Once
)

func Register(t Template) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name] = t
}

// Build renders the named stage prompt. The stage prompts are registered on
// first use.
func Build(name PromptName, in Input) (Prompt, error) {
	registerMu.Do(RegisterAll)

	registryMu.RLock()
	t, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}

	system, err := t.System(in)
	if err != nil {
		return Prompt{}, err
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Name:    string(t.Name),
		Version: t.Version,
		System:  system,
		User:    user,
	}, nil
}

func KnowledgeDomain(in Input) (Prompt, error) { return Build(PromptKnowledgeDomain, in) }

func ContextVector(in Input) (Prompt, error) { return Build(PromptContextVector, in) }

func EAVModel(in Input) (Prompt, error) { return Build(PromptEAVModel, in) }

func TopicalMap(in Input) (Prompt, error) { return Build(PromptTopicalMap, in) }
