package field

import (
	"fmt"
	"sort"
	"strings"
)

type classEntry struct {
	name  string
	class Class
}

// registry maps case-insensitive class names to classes.
// Not synchronized: guarded by Engine.mu.
type registry struct {
	classes map[string]classEntry
}

func newRegistry() *registry {
	return &registry{classes: make(map[string]classEntry, 4)}
}

func classKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *registry) add(name string, c Class) error {
	key := classKey(name)
	if key == "" || c == nil {
		return fmt.Errorf("register class %q: %w", name, ErrInvalidClass)
	}
	if _, ok := r.classes[key]; ok {
		return fmt.Errorf("register class %q: %w", name, ErrClassExists)
	}
	r.classes[key] = classEntry{name: name, class: c}
	return nil
}

func (r *registry) remove(name string) (classEntry, error) {
	key := classKey(name)
	e, ok := r.classes[key]
	if !ok {
		return classEntry{}, fmt.Errorf("unregister class %q: %w", name, ErrClassNotFound)
	}
	delete(r.classes, key)
	return e, nil
}

func (r *registry) get(name string) (Class, bool) {
	e, ok := r.classes[classKey(name)]
	return e.class, ok
}

func (r *registry) names() []string {
	out := make([]string, 0, len(r.classes))
	for _, e := range r.classes {
		out = append(out, e.name)
	}
	sort.Strings(out)
	return out
}
