package marts

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Mart)
	mu       sync.RWMutex
)

// Register adds a mart to the registry.
func Register(m Mart) {
	mu.Lock()
	defer mu.Unlock()
	registry[m.Name()] = m
}

// Get retrieves a mart by name.
func Get(name string) (Mart, error) {
	mu.RLock()
	defer mu.RUnlock()

	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown mart: %s", name)
	}
	return m, nil
}

// List returns all registered mart names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
