package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntTrimsWhitespace(t *testing.T) {
	n, err := parseInt("  42  ")
	assert.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = parseInt("not a number")
	assert.Error(t, err)
}

func TestParseBoolAcceptsGridControlVocabulary(t *testing.T) {
	cases := []struct {
		in   string
		want bool
		ok   bool
	}{
		{"true", true, true},
		{"Yes", true, true},
		{"ON", true, true},
		{"1", true, true},
		{"false", false, true},
		{"no", false, true},
		{"off", false, true},
		{"0", false, true},
		{"maybe", false, false},
	}
	for _, c := range cases {
		got, ok := parseBool(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestParseDictPreservesFirstAppearanceOrderAndLastValueWins(t *testing.T) {
	dict, order := parseDict("a = 1\nb=2\n\na = 3\nbare")
	assert.Equal(t, map[string]string{"a": "3", "b": "2", "bare": ""}, dict)
	assert.Equal(t, []string{"a", "b", "bare"}, order)
}

func TestParseDictEmptyInput(t *testing.T) {
	dict, order := parseDict("")
	assert.Empty(t, dict)
	assert.Empty(t, order)
}

func TestParseErrorMessageIncludesUnderlying(t *testing.T) {
	underlying := errors.New("invalid syntax")
	err := NewParseErrorf("int", "jobs", "five", underlying)
	assert.Contains(t, err.Error(), "jobs")
	assert.Contains(t, err.Error(), "five")
	assert.Contains(t, err.Error(), "invalid syntax")
	assert.ErrorIs(t, err, underlying)
}

func TestParseErrorMessageWithoutUnderlying(t *testing.T) {
	err := NewParseErrorf("choice", "strategy", "bogus", nil)
	assert.Contains(t, err.Error(), "choice")
	assert.Contains(t, err.Error(), "bogus")
	assert.NoError(t, errors.Unwrap(err))
}
