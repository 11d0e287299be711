package core

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered or a field
// spec names a column the table does not have.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}

	// Editable flags follow FieldSpecs
	def.Columns = slices.Clone(def.Columns)
	columns := make(map[string]int, len(def.Columns))
	for i := range def.Columns {
		def.Columns[i].Editable = false
		columns[def.Columns[i].ID] = i
	}
	for _, spec := range def.FieldSpecs {
		i, ok := columns[spec.Name]
		if !ok {
			panic(fmt.Sprintf("table %s: field spec for unknown column %q", def.Info.Key, spec.Name))
		}
		def.Columns[i].Editable = true
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered table definitions.
// Sorted by group, then order within the group, then key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return lessInGroup(result[i], result[j])
	})

	return result
}

// ByGroup returns all table definitions for a specific group.
// Sorted by order, then key.
func ByGroup(group string) []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []TableDefinition
	for _, def := range registry {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return lessInGroup(result[i], result[j])
	})

	return result
}

func lessInGroup(a, b TableDefinition) bool {
	if a.Info.Order != b.Info.Order {
		return a.Info.Order < b.Info.Order
	}
	return a.Info.Key < b.Info.Key
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableDefinition)
}
