package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// OnChange is invoked when a tracked key's serialised value changes,
// with the tag set of the change that triggered it (spec §6).
type OnChange func(tags []string)

// registration pairs a registered callback with the tag set of the
// view that registered it (the callback's own "scope").
type registration struct {
	tags []string
	fn   OnChange
}

// Store is the backing store for a Config View hierarchy: raw string
// key/value pairs grouped by section, each section carrying tags, plus
// any registered change callbacks. Grounded on the teacher's
// "typed struct + defaults, load from project root" shape
// (internal/config/kdl_config.go), generalized to a keyed get/set
// interface per spec §6 rather than a fixed struct.
type Store struct {
	mu            sync.RWMutex
	sections      map[string]map[string]string // section -> key -> raw value
	sectionTags   map[string][]string          // section -> tags
	registrations map[string][]registration    // "section\x00key" -> registrations
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		sections:      map[string]map[string]string{},
		sectionTags:   map[string][]string{},
		registrations: map[string][]registration{},
	}
}

// LoadTOML reads a TOML config file into a new store. Each top-level
// table is a section; string values are stored as-is, non-strings are
// converted to strings by toStringValue.
func LoadTOML(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return nil, err
	}
	var raw map[string]map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	store := NewStore()
	for section, kv := range raw {
		for key, val := range kv {
			store.setRaw(section, key, toStringValue(val))
		}
	}
	return store, nil
}

// toStringValue renders a decoded TOML value (bool, int64, float64,
// string, or a list of those) as the plain string form the typed
// accessors expect to parse.
func toStringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, toStringValue(item))
		}
		return joinNewline(parts)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func joinNewline(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}

// setRaw stores a value without tag bookkeeping (used by the TOML
// loader, which has no notion of change tracking yet).
func (s *Store) setRaw(section, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sections[section] == nil {
		s.sections[section] = map[string]string{}
	}
	s.sections[section][key] = value
}

// SetTag associates tags with a section, e.g. {"datasets","parameters"}.
func (s *Store) SetTag(section string, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectionTags[section] = append(s.sectionTags[section], tags...)
}

// Get returns the raw string stored for (section, key) and whether it
// was present.
func (s *Store) Get(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kv, ok := s.sections[section]
	if !ok {
		return "", false
	}
	v, ok := kv[key]
	return v, ok
}

// Set stores a new serialised value for (section, key) and fires every
// registered callback whose tag set intersects changeTags, but only if
// the new value differs from the previously stored one (spec §6: "a
// Resync(tags) callback fires iff the new serialised value differs
// from the stored one and the callback's tag set intersects the
// change's tag set").
func (s *Store) Set(section, key, value string, changeTags []string) {
	s.mu.Lock()
	old, existed := s.sections[section][key]
	if s.sections[section] == nil {
		s.sections[section] = map[string]string{}
	}
	s.sections[section][key] = value
	toFire := []registration{}
	if !existed || old != value {
		toFire = append(toFire, s.registrations[regKey(section, key)]...)
	}
	s.mu.Unlock()

	for _, reg := range toFire {
		if tagsIntersect(reg.tags, changeTags) {
			reg.fn(changeTags)
		}
	}
}

// register records a change callback for (section, key), scoped to
// the given tags (the registering view's tag set).
func (s *Store) register(section, key string, tags []string, fn OnChange) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := regKey(section, key)
	s.registrations[k] = append(s.registrations[k], registration{tags: tags, fn: fn})
}

func regKey(section, key string) string {
	return section + "\x00" + key
}

func tagsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// Sections returns the known section names, sorted, for diagnostics.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sections))
	for name := range s.sections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

