package scanner

import (
	"fmt"
	"strings"
	"sync"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
)

// Factory builds a Scanner from its raw config arguments. Scanners take
// their own concrete argument types - Factory is a closure-producing
// constructor, not a reflective unmarshaller.
type Factory func(args map[string]string) (Scanner, error)

// Registry is a case-insensitive name -> factory map with alias
// fallback, replacing the dynamic class loading the original used
// (spec §9: "Dynamic plugin loading becomes a static registry of named
// factories ... resolution is a case-insensitive map lookup with alias
// fallback"). Grounded on the teacher's ExtractorRegistry
// (symbollinker/extractor.go), generalized with an alias table.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	aliases   map[string]string
}

// NewRegistry returns an empty registry pre-populated with the
// built-in scanner names.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}, aliases: map[string]string{}}
	r.registerBuiltins()
	return r
}

func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = factory
}

// Alias makes lookups of alias resolve to canonical.
func (r *Registry) Alias(alias, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[strings.ToLower(alias)] = strings.ToLower(canonical)
}

// Build resolves name to a factory and invokes it, failing with
// ConfigError for an unknown name (spec §4.2: "fails with ConfigError
// for unresolvable scanner names").
func (r *Registry) Build(name string, args map[string]string) (Scanner, error) {
	r.mu.RLock()
	key := strings.ToLower(name)
	factory, ok := r.factories[key]
	if !ok {
		if canonical, aliased := r.aliases[key]; aliased {
			factory, ok = r.factories[canonical]
		}
	}
	r.mu.RUnlock()
	if !ok {
		return nil, gcerrors.NewConfigError(name, fmt.Errorf("no scanner registered under name %q", name))
	}
	return factory(args)
}

func (r *Registry) registerBuiltins() {
	r.Register("NullScanner", func(map[string]string) (Scanner, error) {
		return NullScanner{}, nil
	})
	r.Register("FilesFromLS", func(args map[string]string) (Scanner, error) {
		return FilesFromLS{Directory: args["directory"]}, nil
	})
	r.Register("FilesFromJobInfo", func(map[string]string) (Scanner, error) {
		return FilesFromJobInfo{}, nil
	})
	r.Register("MatchOnFilename", func(args map[string]string) (Scanner, error) {
		patterns := strings.Fields(args["patterns"])
		if len(patterns) == 0 {
			patterns = []string{"*.root"}
		}
		return MatchOnFilename{Patterns: patterns}, nil
	})
	r.Register("AddFilePrefix", func(args map[string]string) (Scanner, error) {
		return AddFilePrefix{Prefix: args["prefix"]}, nil
	})
	r.Alias("ls", "FilesFromLS")
	r.Alias("jobinfo", "FilesFromJobInfo")
}
