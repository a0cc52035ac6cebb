package problem

import (
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownProblem is returned by Lookup for a name never registered.
var ErrUnknownProblem = fmt.Errorf("%w: unknown problem", ErrConfig)

var registry = struct {
	sync.Mutex
	byName map[string]*Problem
}{byName: make(map[string]*Problem)}

// Register makes a problem addressable by name. Registering the same name
// twice is an authoring mistake and panics, the same way a duplicate flag
// registration would.
func Register(p *Problem) {
	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.byName[p.Name()]; ok {
		panic(fmt.Sprintf("problem: duplicate registration of %q", p.Name()))
	}
	registry.byName[p.Name()] = p
}

// Lookup returns the registered problem with the given name.
func Lookup(name string) (*Problem, error) {
	registry.Lock()
	defer registry.Unlock()
	p, ok := registry.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProblem, name)
	}
	return p, nil
}

// Names lists every registered problem, sorted.
func Names() []string {
	registry.Lock()
	defer registry.Unlock()
	names := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
