package resync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/split"
)

// fixedPromptSink always answers the same way, standing in for a
// terminal in scripted scenarios.
type fixedPromptSink struct{ answer bool }

func (s fixedPromptSink) Confirm(_ string, _ bool) bool { return s.answer }

func TestEngineExpandDeclinedLeavesPartitionCountUnchanged(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10))
	next := mkBlock("/x", "b0", mkFile("x.root", 15))

	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root"}, Entries: 10})

	engine := NewEngine(split.FileBoundarySplitter{}, fixedPromptSink{answer: false})
	out, report, err := engine.Run(pmap, []model.Block{old}, []model.Block{next})
	require.NoError(t, err)

	assert.Len(t, out.Partitions, 1, "declining both expand options leaves partition count unchanged")
	assert.Equal(t, int64(10), out.Partitions[0].Entries, "declined expand doesn't rewrite the stale entry count")
	assert.Equal(t, 0, report.Expanded)
}

func TestEngineExpandAcceptedAppendsNewPartition(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10))
	next := mkBlock("/x", "b0", mkFile("x.root", 15))

	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root"}, Entries: 10})

	engine := NewEngine(split.FileBoundarySplitter{}, fixedPromptSink{answer: true})
	out, report, err := engine.Run(pmap, []model.Block{old}, []model.Block{next})
	require.NoError(t, err)

	require.Len(t, out.Partitions, 2)
	appended := out.Partitions[1]
	assert.Equal(t, []string{"x.root"}, appended.URLs)
	assert.Equal(t, int64(5), appended.Entries)
	assert.Equal(t, int64(10), appended.Skip)
	assert.Equal(t, 1, report.Expanded)

	// original partition's own entry count is left exactly as it was -
	// the new window is a separate partition, not a rewrite in place.
	assert.Equal(t, int64(10), out.Partitions[0].Entries)
}

func TestEngineMissingFileDeclinedLeavesPartitionInPlace(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10), mkFile("y.root", 20))
	next := mkBlock("/x", "b0", mkFile("x.root", 10))

	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root", "y.root"}, Entries: 30})

	engine := NewEngine(nil, fixedPromptSink{answer: false})
	out, _, err := engine.Run(pmap, []model.Block{old}, []model.Block{next})
	require.NoError(t, err)

	require.Len(t, out.Partitions, 1)
	assert.Equal(t, []string{"x.root", "y.root"}, out.Partitions[0].URLs)
	assert.False(t, out.Partitions[0].Retired)
}

func TestEngineMissingFileConfirmedShrinksPartition(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10), mkFile("y.root", 20))
	next := mkBlock("/x", "b0", mkFile("x.root", 10))

	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root", "y.root"}, Entries: 30})

	engine := NewEngine(nil, fixedPromptSink{answer: true})
	out, report, err := engine.Run(pmap, []model.Block{old}, []model.Block{next})
	require.NoError(t, err)

	require.Len(t, out.Partitions, 1)
	p := out.Partitions[0]
	assert.Equal(t, []string{"x.root"}, p.URLs)
	assert.Equal(t, int64(10), p.Entries)
	assert.Equal(t, int64(0), p.Skip)
	assert.False(t, p.Retired)
	assert.Equal(t, 0, report.Retired)
}

func TestEngineAllFilesMissingRetiresPartition(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10))
	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root"}, Entries: 10})

	// block vanishes entirely: it can't appear in newBlocks at all, so
	// it surfaces as Missing rather than Changed.
	engine := NewEngine(nil, fixedPromptSink{answer: true})
	out, report, err := engine.Run(pmap, []model.Block{old}, nil)
	require.NoError(t, err)

	require.Len(t, out.Partitions, 1)
	p := out.Partitions[0]
	assert.True(t, p.Retired)
	assert.Empty(t, p.URLs)
	assert.Equal(t, 1, report.Retired)
}

func TestEngineMissingBlockDeclinedLeavesPartitionLive(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10))
	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root"}, Entries: 10})

	engine := NewEngine(nil, fixedPromptSink{answer: false})
	out, report, err := engine.Run(pmap, []model.Block{old}, nil)
	require.NoError(t, err)

	require.Len(t, out.Partitions, 1)
	assert.False(t, out.Partitions[0].Retired)
	assert.Equal(t, 0, report.Retired)
}

func TestEngineAddedBlockSplitAndAppended(t *testing.T) {
	added := mkBlock("/x", "b1", mkFile("a", 1), mkFile("b", 1))

	engine := NewEngine(split.FileBoundarySplitter{}, fixedPromptSink{answer: false})
	out, report, err := engine.Run(model.PartitionMap{}, nil, []model.Block{added})
	require.NoError(t, err)

	assert.Len(t, out.Partitions, 2)
	assert.Equal(t, 2, report.PartitionsAdded)
	assert.Equal(t, 1, report.BlocksAdded)
}

func TestEngineAddedFileWithinExistingBlockSplitAndAppended(t *testing.T) {
	old := mkBlock("/x", "b0", mkFile("x.root", 10))
	next := mkBlock("/x", "b0", mkFile("x.root", 10), mkFile("new.root", 5))

	pmap := model.PartitionMap{}
	pmap.Append(model.Partition{Dataset: "/x", BlockName: "b0", URLs: []string{"x.root"}, Entries: 10})

	engine := NewEngine(split.FileBoundarySplitter{}, fixedPromptSink{answer: false})
	out, report, err := engine.Run(pmap, []model.Block{old}, []model.Block{next})
	require.NoError(t, err)

	require.Len(t, out.Partitions, 2)
	assert.Equal(t, []string{"new.root"}, out.Partitions[1].URLs)
	assert.Equal(t, int64(5), out.Partitions[1].Entries)
	assert.Equal(t, 1, report.PartitionsAdded)
}

func TestEngineNoSplitterSkipsAddedWithWarning(t *testing.T) {
	added := mkBlock("/x", "b1", mkFile("a", 1))
	engine := NewEngine(nil, fixedPromptSink{answer: false})
	out, report, err := engine.Run(model.PartitionMap{}, nil, []model.Block{added})
	require.NoError(t, err)
	assert.Empty(t, out.Partitions)
	assert.Equal(t, 0, report.PartitionsAdded)
}
