package core

import (
	"fmt"
	"sort"
	"sync"
)

// ImportReport is the full outcome of running the pipeline over one
// uploaded file: parse bookkeeping, sanitization warnings, and (for
// shapes that define field rules) batch validation.
type ImportReport struct {
	BatchID        string                 `json:"batchId"`
	ShapeKey       string                 `json:"shapeKey"`
	Mode           Mode                   `json:"mode"`
	TotalRows      int                    `json:"totalRows"`
	SuccessfulRows int                    `json:"successfulRows"`
	ParseErrors    []ParseError           `json:"parseErrors"`
	Warnings       []string               `json:"warnings"`
	Validation     *BatchValidationResult `json:"validation,omitempty"`
	DurationMs     int64                  `json:"durationMs"`
}

// RunFunc executes the full pipeline for one shape: parse, sanitize,
// validate. Structural parse failures are returned as *ParseError.
type RunFunc func(content string, mode Mode) (*ImportReport, error)

// Definition contains everything needed to import one shape.
type Definition struct {
	Key     string   // Unique identifier: "customer", "sentiment"
	Label   string   // Display name for listings
	Headers []string // Required header contract, canonical order
	Run     RunFunc
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a shape definition to the registry.
// Panics if a definition with the same key is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("shape already registered: %s", def.Key))
	}

	registry[def.Key] = def
}

// Get returns a shape definition by key.
// Returns false if not found.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered definitions, sorted by key for consistent
// ordering.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ShapeCount returns the number of registered shapes.
func ShapeCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
