package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxfischer2781/gridctl/internal/model"
)

func block(files ...model.FileRecord) model.Block {
	b := model.Block{
		Dataset:   "/a/b/c",
		BlockName: "block0",
		Files:     files,
	}
	b.RecomputeEntries()
	return b
}

func file(url string, entries int64) model.FileRecord {
	return model.FileRecord{URL: url, Entries: entries}
}

// assertSkipEntriesLaw checks the invariant every partition must obey:
// Skip + Entries <= sum of entries of its listed files (or either side
// is unknown, -1, in which case the law doesn't apply numerically).
func assertSkipEntriesLaw(t *testing.T, b model.Block, parts []model.Partition) {
	t.Helper()
	for i, p := range parts {
		if p.Entries < 0 {
			continue
		}
		var available int64
		for _, url := range p.URLs {
			f, ok := b.FileByURL(url)
			require.Truef(t, ok, "partition %d references unknown url %s", i, url)
			if f.Entries < 0 {
				available = -1
				break
			}
			available += f.Entries
		}
		if available < 0 {
			continue
		}
		assert.LessOrEqualf(t, p.Skip+p.Entries, available, "partition %d violates skip+entries<=available", i)
	}
}

func TestFileBoundarySplitterOnePartitionPerFile(t *testing.T) {
	b := block(file("a", 10), file("b", 20), file("c", 5))

	parts, err := FileBoundarySplitter{}.Split(b)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, []string{want}, parts[i].URLs)
	}
	assert.Equal(t, int64(10), parts[0].Entries)
	assert.Equal(t, int64(20), parts[1].Entries)
	assert.Equal(t, int64(5), parts[2].Entries)
	assertSkipEntriesLaw(t, b, parts)
}

func TestFileBoundarySplitterPreservesUnknownEntries(t *testing.T) {
	b := block(file("a", -1))
	parts, err := FileBoundarySplitter{}.Split(b)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, int64(-1), parts[0].Entries)
}

func TestFixedFileCountGroupsAndRemainder(t *testing.T) {
	b := block(file("a", 1), file("b", 2), file("c", 3), file("d", 4), file("e", 5))

	s := FixedFileCount{Count: 2}
	parts, err := s.Split(b)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, []string{"a", "b"}, parts[0].URLs)
	assert.Equal(t, []string{"c", "d"}, parts[1].URLs)
	assert.Equal(t, []string{"e"}, parts[2].URLs, "last partition takes the remainder")
	assertSkipEntriesLaw(t, b, parts)
}

func TestFixedFileCountZeroCountDefaultsToOne(t *testing.T) {
	b := block(file("a", 1), file("b", 1))
	parts, err := FixedFileCount{Count: 0}.Split(b)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestFixedEventCountCrossesFileBoundaries(t *testing.T) {
	b := block(file("a", 3), file("b", 3), file("c", 3))

	s := FixedEventCount{Count: 5}
	parts, err := s.Split(b)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, []string{"a", "b"}, parts[0].URLs)
	assert.Equal(t, int64(0), parts[0].Skip)
	assert.Equal(t, int64(5), parts[0].Entries)

	// second partition continues mid-file "b" (skip=2 of its 3 entries
	// already consumed), then takes all of "c"
	assert.Equal(t, []string{"b", "c"}, parts[1].URLs)
	assert.Equal(t, int64(2), parts[1].Skip)
	assert.Equal(t, int64(4), parts[1].Entries)

	assertSkipEntriesLaw(t, b, parts)
}

func TestFixedEventCountUnknownEntriesEmittedWhole(t *testing.T) {
	b := block(file("a", 2), file("b", -1), file("c", 2))

	s := FixedEventCount{Count: 10}
	parts, err := s.Split(b)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	assert.Equal(t, []string{"a"}, parts[0].URLs)
	assert.Equal(t, []string{"b"}, parts[1].URLs)
	assert.Equal(t, int64(-1), parts[1].Entries, "a file with unknown entries can't be split mid-file")
	assert.Equal(t, []string{"c"}, parts[2].URLs)
}

func TestFixedEventCountZeroCountDefaultsToOne(t *testing.T) {
	b := block(file("a", 2))
	parts, err := FixedEventCount{Count: 0}.Split(b)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
	for _, p := range parts {
		assert.Equal(t, int64(1), p.Entries)
	}
}

func TestSplitAllConcatenatesAcrossBlocks(t *testing.T) {
	b1 := model.Block{Dataset: "/a", BlockName: "b0", Files: []model.FileRecord{file("x", 1)}}
	b1.RecomputeEntries()
	b2 := model.Block{Dataset: "/a", BlockName: "b1", Files: []model.FileRecord{file("y", 1), file("z", 1)}}
	b2.RecomputeEntries()

	parts, err := SplitAll(FileBoundarySplitter{}, []model.Block{b1, b2})
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, "b0", parts[0].BlockName)
	assert.Equal(t, "b1", parts[1].BlockName)
	assert.Equal(t, "b1", parts[2].BlockName)
}

func TestClassNameAndParameters(t *testing.T) {
	assert.Equal(t, "FileBoundarySplitter", FileBoundarySplitter{}.ClassName())
	assert.Empty(t, FileBoundarySplitter{}.Parameters())

	ffc := FixedFileCount{Count: 3}
	assert.Equal(t, "FixedFileCount", ffc.ClassName())
	assert.Equal(t, map[string]string{"FilesPerJob": "3"}, ffc.Parameters())

	fec := FixedEventCount{Count: 7}
	assert.Equal(t, "FixedEventCount", fec.ClassName())
	assert.Equal(t, map[string]string{"EventsPerJob": "7"}, fec.Parameters())
}
