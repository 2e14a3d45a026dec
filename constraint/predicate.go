package constraint

import (
	"sync"

	"github.com/arcs-solver/arcs/logger"
)

// BinaryPredicate decides whether a pair of values is legal for the two
// variables of a binary constraint. Predicates must be pure functions; they
// are shared between cloned states and may be evaluated many times with the
// same arguments.
type BinaryPredicate func(a, b string) bool

func init() {
	RegisterPredicate("eq", func(a, b string) bool { return a == b })
	RegisterPredicate("neq", func(a, b string) bool { return a != b })
}

var (
	registry  = make(map[string]BinaryPredicate)
	registryM sync.RWMutex
)

// RegisterPredicate registers a named predicate in the global registry.
// Binary constraints reference predicates by name so that a serialized
// system can be re-linked on load. "eq" and "neq" are pre-registered.
func RegisterPredicate(name string, p BinaryPredicate) {
	registryM.Lock()
	defer registryM.Unlock()
	if _, ok := registry[name]; ok {
		log := logger.Logger()
		log.Debug().Str("name", name).Msg("predicate registered multiple times")
		return
	}
	registry[name] = p
}

// GetRegisteredPredicate returns the predicate registered under name, or nil.
func GetRegisteredPredicate(name string) BinaryPredicate {
	registryM.RLock()
	defer registryM.RUnlock()
	return registry[name]
}
