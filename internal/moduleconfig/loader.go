package moduleconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/brightpath/carecoord/internal/flags"
)

// KnownFlags is the subset of the Flag Registry the loader validates
// against. Keeping it as an interface (rather than importing
// *flags.Registry directly everywhere) lets tests swap in a stub registry.
type KnownFlags interface {
	Known(name string) bool
}

func (l *Loader) checkFlag(file, flagName string) error {
	if !l.registry.Known(flagName) {
		return newLoadError(KindUnknownFlag, file, "flag %q is not registered", flagName)
	}
	return nil
}

// Loader reads and validates module JSON, caching the result by file path.
// Loading a path again replaces that path's cache entry under the write
// lock; callers already holding the previous *Module keep that snapshot
// (§4.1, §9 "hot config reload"). There is no method that reloads every
// cached path at once.
type Loader struct {
	registry KnownFlags

	mu    sync.RWMutex
	cache map[string]*Module
}

// NewLoader builds a Loader validating flags against registry.
func NewLoader(registry KnownFlags) *Loader {
	if registry == nil {
		registry = flags.DefaultRegistry()
	}
	return &Loader{registry: registry, cache: make(map[string]*Module)}
}

// LoadFile reads, validates, and caches a module from a JSON file.
func (l *Loader) LoadFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newLoadError(KindSchemaError, path, "read file: %v", err)
	}
	return l.LoadBytes(path, data)
}

// LoadBytes validates and caches a module from raw JSON, keyed by name for
// cache/reload purposes (typically the source file path).
func (l *Loader) LoadBytes(name string, data []byte) (*Module, error) {
	var m Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, newLoadError(KindSchemaError, name, "invalid JSON: %v", err)
	}
	if err := l.validate(name, &m); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[name] = &m
	l.mu.Unlock()
	return &m, nil
}

// Get returns a previously loaded module by name, if cached.
func (l *Loader) Get(name string) (*Module, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.cache[name]
	return m, ok
}

// validate runs all four validation classes (§4.1), returning the first
// failure encountered.
func (l *Loader) validate(name string, m *Module) error {
	if m.ID == "" {
		return newLoadError(KindSchemaError, name, "module id is required")
	}
	if len(m.Questions) == 0 {
		return newLoadError(KindSchemaError, name, "module %q has no questions", m.ID)
	}

	ids := make(map[string]bool, len(m.Questions))
	for _, q := range m.Questions {
		if q.ID == "" {
			return newLoadError(KindSchemaError, name, "question missing id")
		}
		if ids[q.ID] {
			return newLoadError(KindSchemaError, name, "duplicate question id %q", q.ID)
		}
		ids[q.ID] = true

		switch q.Type {
		case TypeSingleSelect, TypeMultiSelect, TypeNumeric, TypeCurrency, TypeText, TypeDerived:
		default:
			return newLoadError(KindSchemaError, name, "question %q has unknown type %q", q.ID, q.Type)
		}

		seenValues := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seenValues[opt.Value] {
				return newLoadError(KindDuplicateOption, name, "question %q has duplicate option value %q", q.ID, opt.Value)
			}
			seenValues[opt.Value] = true

			for _, flagName := range opt.Flags {
				if err := l.checkFlag(name, flagName); err != nil {
					return newLoadError(KindUnknownFlag, name, "question %q option %q: %v", q.ID, opt.Value, err)
				}
			}
		}
	}

	for _, q := range m.Questions {
		if q.VisibleIf == nil {
			continue
		}
		for _, field := range q.VisibleIf.ReferencedFields() {
			if !ids[field] && !isDerivedField(m, field) {
				return newLoadError(KindDanglingVisibleIf, name, "question %q visible_if references undeclared field %q", q.ID, field)
			}
		}
		for _, flagName := range q.VisibleIf.ReferencedFlags() {
			if err := l.checkFlag(name, flagName); err != nil {
				return newLoadError(KindUnknownFlag, name, "question %q visible_if: %v", q.ID, err)
			}
		}
	}

	for flagName := range m.Scoring.FlagContributions {
		if err := l.checkFlag(name, flagName); err != nil {
			return newLoadError(KindUnknownFlag, name, "scoring.flag_contributions: %v", err)
		}
	}
	for _, flagName := range m.FlagsEmitted {
		if err := l.checkFlag(name, flagName); err != nil {
			return newLoadError(KindUnknownFlag, name, "flags_emitted: %v", err)
		}
	}
	for _, gate := range m.Scoring.BehaviorGates {
		for _, flagName := range gate.When.ReferencedFlags() {
			if err := l.checkFlag(name, flagName); err != nil {
				return newLoadError(KindUnknownFlag, name, "behavior_gate %q: %v", gate.ID, err)
			}
		}
		for _, field := range gate.When.ReferencedFields() {
			if !ids[field] && !isDerivedField(m, field) {
				return newLoadError(KindDanglingVisibleIf, name, "behavior_gate %q references undeclared field %q", gate.ID, field)
			}
		}
	}

	if err := checkDerivedCycles(m); err != nil {
		return newLoadError(KindSchemaError, name, "%v", err)
	}

	return nil
}

func isDerivedField(m *Module, id string) bool {
	for _, df := range m.DerivedFields {
		if df.ID == id {
			return true
		}
	}
	return false
}

// checkDerivedCycles forbids derived fields whose inputs form a cycle
// (§4.2 "Cycles are forbidden at load time").
func checkDerivedCycles(m *Module) error {
	byID := make(map[string]DerivedField, len(m.DerivedFields))
	for _, df := range m.DerivedFields {
		byID[df.ID] = df
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(m.DerivedFields))

	var visit func(id string) error
	visit = func(id string) error {
		df, ok := byID[id]
		if !ok {
			return nil // not a derived field, so it's a leaf answer/const
		}
		switch color[id] {
		case gray:
			return fmt.Errorf("derived field cycle detected at %q", id)
		case black:
			return nil
		}
		color[id] = gray
		for _, input := range df.Inputs {
			if err := visit(input); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for _, df := range m.DerivedFields {
		if err := visit(df.ID); err != nil {
			return err
		}
	}
	return nil
}
