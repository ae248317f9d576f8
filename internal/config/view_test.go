package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewFallbackChainTriesSectionsInOrder(t *testing.T) {
	store := NewStore()
	store.setRaw("dataset.mc", "files", "mc.root")
	store.setRaw("dataset", "files", "default.root")
	store.setRaw("dataset", "jobs", "10")

	v := &View{store: store, sections: []string{"dataset.mc", "dataset"}, prompts: DefaultPromptSink{}}

	assert.Equal(t, "mc.root", v.Get("files", "", nil), "earlier section in the chain wins")
	assert.Equal(t, "10", v.Get("jobs", "", nil), "falls through to a later section when the key is absent in the first")
	assert.Equal(t, "fallback", v.Get("missing", "fallback", nil))
}

func TestChangeViewNarrowsSectionsAddsNamesAndTags(t *testing.T) {
	store := NewStore()
	v := NewView(store, "dataset")

	narrowed := v.ChangeView([]string{"dataset"}, []string{"mc"}, []string{"datasets"})
	assert.Equal(t, []string{"dataset.mc"}, narrowed.sections)
	assert.Equal(t, []string{"datasets"}, narrowed.Tags())

	// Original view is untouched.
	assert.Equal(t, []string{"dataset"}, v.sections)
	assert.Empty(t, v.Tags())
}

func TestChangeViewNilArgumentsKeepParentSectionsAndTags(t *testing.T) {
	store := NewStore()
	v := NewView(store, "dataset").ChangeView(nil, nil, []string{"datasets"})
	narrowed := v.ChangeView(nil, nil, nil)
	assert.Equal(t, v.sections, narrowed.sections)
	assert.Equal(t, v.tags, narrowed.tags)
}

func TestViewSetWritesToPrimarySectionAndNotifiesScopedTag(t *testing.T) {
	store := NewStore()
	v := NewView(store, "dataset").ChangeView(nil, nil, []string{"datasets"})

	fired := false
	v.onChange("files", func(tags []string) {
		fired = true
		assert.Equal(t, []string{"datasets"}, tags)
	})

	v.Set("files", "a.root")
	assert.True(t, fired)

	got, ok := store.Get("dataset", "files")
	require.True(t, ok)
	assert.Equal(t, "a.root", got)
}

func TestViewGetIntParsesOrWrapsParseError(t *testing.T) {
	store := NewStore()
	store.setRaw("s", "jobs", "5")
	store.setRaw("s", "bad", "five")
	v := NewView(store, "s")

	n, err := v.GetInt("jobs", -1, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = v.GetInt("missing", 7, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = v.GetInt("bad", 0, nil)
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "int", pe.Kind)
}

func TestViewGetBoolAcceptsWiderVocabulary(t *testing.T) {
	store := NewStore()
	store.setRaw("s", "a", "yes")
	store.setRaw("s", "b", "Off")
	store.setRaw("s", "c", "maybe")
	v := NewView(store, "s")

	got, err := v.GetBool("a", false, nil)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = v.GetBool("b", true, nil)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = v.GetBool("c", false, nil)
	assert.Error(t, err)
}

func TestViewGetTimeDelegatesToParseTime(t *testing.T) {
	store := NewStore()
	store.setRaw("s", "walltime", "1:30")
	v := NewView(store, "s")

	seconds, err := v.GetTime("walltime", -1, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 5400, seconds)
}

func TestViewGetListSplitsOnWhitespaceAndNewlines(t *testing.T) {
	store := NewStore()
	store.setRaw("s", "files", "a.root b.root\nc.root")
	v := NewView(store, "s")

	assert.Equal(t, []string{"a.root", "b.root", "c.root"}, v.GetList("files", nil, nil))
	assert.Equal(t, []string{"def"}, v.GetList("missing", []string{"def"}, nil))
}

func TestViewGetDictParsesKeyValueLinesAndOrder(t *testing.T) {
	store := NewStore()
	store.setRaw("s", "se-redirector", "T2_DE=srm://de\nT2_US=srm://us")
	v := NewView(store, "s")

	dict, order := v.GetDict("se-redirector", nil, nil)
	assert.Equal(t, map[string]string{"T2_DE": "srm://de", "T2_US": "srm://us"}, dict)
	assert.Equal(t, []string{"T2_DE", "T2_US"}, order)
}

func TestViewGetChoiceRejectsValueOutsideSet(t *testing.T) {
	store := NewStore()
	store.setRaw("s", "strategy", "bogus")
	v := NewView(store, "s")

	_, err := v.GetChoice("strategy", []string{"events", "jobs"}, "events", nil)
	assert.Error(t, err)

	store.setRaw("s", "strategy", "jobs")
	got, err := v.GetChoice("strategy", []string{"events", "jobs"}, "events", nil)
	require.NoError(t, err)
	assert.Equal(t, "jobs", got)
}

func TestViewIsInteractiveHonoursGlobalSwitch(t *testing.T) {
	store := NewStore()
	v := NewView(store, "s")
	assert.True(t, v.IsInteractive("opt", true), "global interactive switch defaults on")

	store.setRaw("interactive", "default", "false")
	assert.False(t, v.IsInteractive("opt", true), "global switch off overrides a true default")
}
