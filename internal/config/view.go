// Package config is the Config View collaborator (spec §4.1/§6): a
// hierarchical keyed lookup with typed accessors, section tagging, and
// change-tracking that emits a Resync event scoped to a set of tags.
//
// Grounded on standardbeagle-lci's internal/config (typed struct +
// defaults + project/base merge), generalized from a fixed struct to a
// keyed get/set interface per spec.md's "interface level" note, and on
// original_source/packages/grid_control/config/cinterface_typed.go for
// the exact accessor surface (getInt/getBool/getTime/getList/getPath/
// getPaths/getDict/getChoice/getEnum/getPlugin) and the isInteractive
// prompt-gating behaviour.
package config

import (
	"sort"
	"strings"
)

// View is a narrowed, ordered view over a Store: a section fallback
// chain tried in order, plus a tag set used to scope change
// notifications registered through this view (spec: "changeView
// (setSections=[...], addNames=[...], setTags=[...])").
type View struct {
	store    *Store
	sections []string
	tags     []string
	prompts  PromptSink
}

// NewView returns a view over store rooted at a single section with no
// tags and the default (non-interactive) prompt sink.
func NewView(store *Store, section string) *View {
	return &View{store: store, sections: []string{section}, prompts: DefaultPromptSink{}}
}

// ChangeView returns a narrowed view: setSections replaces the section
// fallback chain, addNames appends section name suffixes (grid-control's
// per-dataset-expression tagged sections), setTags replaces the tag set
// used to scope onChange registrations made through the new view.
func (v *View) ChangeView(setSections, addNames, setTags []string) *View {
	out := &View{store: v.store, sections: append([]string{}, v.sections...), tags: v.tags, prompts: v.prompts}
	if setSections != nil {
		out.sections = append([]string{}, setSections...)
	}
	for _, name := range addNames {
		for i, s := range out.sections {
			out.sections[i] = s + "." + name
		}
	}
	if setTags != nil {
		out.tags = append([]string{}, setTags...)
	}
	return out
}

// WithPrompts returns a copy of the view using the given PromptSink for
// interactive queries.
func (v *View) WithPrompts(sink PromptSink) *View {
	out := *v
	out.prompts = sink
	return &out
}

// Tags returns the view's change-notification scope.
func (v *View) Tags() []string {
	return append([]string{}, v.tags...)
}

// raw looks up key across the section fallback chain in order, per
// "Sections are tried in order" (spec §9, interface composition for
// config sections).
func (v *View) raw(key string) (string, bool) {
	for _, section := range v.sections {
		if val, ok := v.store.Get(section, key); ok {
			return val, true
		}
	}
	return "", false
}

func (v *View) primarySection() string {
	if len(v.sections) == 0 {
		return ""
	}
	return v.sections[0]
}

// Set stores value under key in the view's primary section and fires
// any onChange callbacks registered for that key whose tags intersect
// this view's tag set.
func (v *View) Set(key, value string) {
	v.store.Set(v.primarySection(), key, value, v.tags)
}

// onChange registers fn against key in the primary section, scoped to
// this view's tags.
func (v *View) onChange(key string, fn OnChange) {
	v.store.register(v.primarySection(), key, v.tags, fn)
}

// Get returns the string value for key, or def if unset. If onChange is
// non-nil it is registered to fire on future changes to key.
func (v *View) Get(key, def string, onChange OnChange) string {
	v.onChange(key, onChange)
	if val, ok := v.raw(key); ok {
		return val
	}
	return def
}

// GetInt parses key as a strict integer.
func (v *View) GetInt(key string, def int, onChange OnChange) (int, error) {
	v.onChange(key, onChange)
	val, ok := v.raw(key)
	if !ok {
		return def, nil
	}
	n, err := parseInt(val)
	if err != nil {
		return 0, NewParseErrorf("int", key, val, err)
	}
	return n, nil
}

// GetBool parses key with grid-control's broader boolean vocabulary
// ("true"/"yes"/"1"/"on" and their negations), not just Go's strconv
// rules.
func (v *View) GetBool(key string, def bool, onChange OnChange) (bool, error) {
	v.onChange(key, onChange)
	val, ok := v.raw(key)
	if !ok {
		return def, nil
	}
	b, ok2 := parseBool(val)
	if !ok2 {
		return false, NewParseErrorf("bool", key, val, nil)
	}
	return b, nil
}

// GetTime parses "hh[:mm[:ss]]" into seconds; empty/negative maps to -1.
func (v *View) GetTime(key string, def int64, onChange OnChange) (int64, error) {
	v.onChange(key, onChange)
	val, ok := v.raw(key)
	if !ok {
		return def, nil
	}
	seconds, err := ParseTime(val)
	if err != nil {
		return 0, NewParseErrorf("time", key, val, err)
	}
	return seconds, nil
}

// GetList splits key on whitespace/newlines into a list, per "Get
// whitespace separated list (space, tab, newline)".
func (v *View) GetList(key string, def []string, onChange OnChange) []string {
	v.onChange(key, onChange)
	val, ok := v.raw(key)
	if !ok {
		return def
	}
	return strings.Fields(strings.ReplaceAll(val, "\n", " "))
}

// GetPath resolves key to a filesystem path; resolution itself (search
// paths, existence checks) is the caller's job outside this core - the
// Config View only returns the configured string.
func (v *View) GetPath(key, def string, onChange OnChange) string {
	return v.Get(key, def, onChange)
}

// GetPaths resolves key's whitespace-separated list as multiple paths.
func (v *View) GetPaths(key string, def []string, onChange OnChange) []string {
	return v.GetList(key, def, onChange)
}

// GetDict parses a "key = value" per-line dictionary and returns it
// along with the key order of first appearance, per "Returns a tuple
// with (<dictionary>, <keys>) - the keys sorted by order of appearance".
func (v *View) GetDict(key string, def map[string]string, onChange OnChange) (map[string]string, []string) {
	v.onChange(key, onChange)
	val, ok := v.raw(key)
	if !ok {
		return def, sortedKeys(def)
	}
	return parseDict(val)
}

// GetChoice validates value against an explicit set of choices.
func (v *View) GetChoice(key string, choices []string, def string, onChange OnChange) (string, error) {
	v.onChange(key, onChange)
	val, ok := v.raw(key)
	if !ok {
		val = def
	}
	for _, c := range choices {
		if c == val {
			return val, nil
		}
	}
	return "", NewParseErrorf("choice", key, val, nil)
}

// GetEnum is GetChoice restricted to a fixed enumeration; kept distinct
// for call-site clarity even though the implementation is identical.
func (v *View) GetEnum(key string, choices []string, def string, onChange OnChange) (string, error) {
	return v.GetChoice(key, choices, def, onChange)
}

// GetPlugin returns the configured plugin name for key, for the caller
// to resolve through its own static registry (spec §9: "no runtime
// path-based import" - resolution is a case-insensitive map lookup
// owned by each plugin kind's registry, not by Config View itself).
func (v *View) GetPlugin(key, def string, onChange OnChange) string {
	return v.Get(key, def, onChange)
}

// IsInteractive reports whether option should prompt the user,
// honouring a global "interactive" switch the way
// SimpleConfigInterface.isInteractive does.
func (v *View) IsInteractive(option string, def bool) bool {
	iv := v.ChangeView([]string{"interactive"}, nil, nil)
	enabled, _ := iv.GetBool("default", true, nil)
	if !enabled {
		return false
	}
	return def
}

// Prompt returns the view's interactive prompt collaborator.
func (v *View) Prompt() PromptSink {
	return v.prompts
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
