package prompts

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Registry stores prompts by id and version.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string][]*Prompt // sorted by version
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry holding the built-in prompts.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

func NewRegistry() *Registry {
	return &Registry{prompts: make(map[string][]*Prompt)}
}

// Register adds p, replacing any prompt with the same id and version.
func (r *Registry) Register(p *Prompt) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	versions := slices.DeleteFunc(r.prompts[p.ID], func(existing *Prompt) bool {
		return existing.Version == p.Version
	})
	versions = append(versions, p)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version < versions[j].Version })
	r.prompts[p.ID] = versions
}

// Get returns one exact version of a prompt.
func (r *Registry) Get(id string, version PromptVersion) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.prompts[id] {
		if p.Version == version {
			return p, nil
		}
	}
	if len(r.prompts[id]) == 0 {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	return nil, fmt.Errorf("prompt %s version %s not found", id, version)
}

// Latest returns the newest non-deprecated version of a prompt, falling
// back to the newest deprecated one.
func (r *Registry) Latest(id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.prompts[id]
	if len(versions) == 0 {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	for i := len(versions) - 1; i >= 0; i-- {
		if !versions[i].Deprecated {
			return versions[i], nil
		}
	}
	return versions[len(versions)-1], nil
}

// IDs returns the registered prompt ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
