package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/split"
)

// testContext builds a *cli.Context with --jobs/--events already
// registered, letting each case set only the flags it cares about.
func testContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("jobs", 0, "")
	set.Int64("events", 0, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestPickSplitterDefaultsToFileBoundary(t *testing.T) {
	c := testContext(t)
	s := pickSplitter(c)
	assert.Equal(t, split.FileBoundarySplitter{}, s)
}

func TestPickSplitterJobsSelectsFixedFileCount(t *testing.T) {
	c := testContext(t, "--jobs", "5")
	s := pickSplitter(c)
	assert.Equal(t, split.FixedFileCount{Count: 5}, s)
}

func TestPickSplitterEventsTakesPrecedenceOverJobs(t *testing.T) {
	c := testContext(t, "--jobs", "5", "--events", "100")
	s := pickSplitter(c)
	assert.Equal(t, split.FixedEventCount{Count: 100}, s)
}

func TestEntriesLabel(t *testing.T) {
	assert.Equal(t, "unknown entries", entriesLabel(-1))
	assert.Equal(t, "0 entries", entriesLabel(0))
	assert.Equal(t, "42 entries", entriesLabel(42))
}
