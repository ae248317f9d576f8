// Package split implements the Splitter (spec §4.4): it turns an
// ordered list of Blocks into an ordered list of Partitions, each a
// slice of one block's files assigned to a single execution unit.
//
// Grounded on original_source/python/grid_control/datasets/
// splitter_base.py's DataSplitter, generalized from its single
// `splitDatasetInternal` abstract hook into three concrete, composable
// variants per spec §4.4.
package split

import "github.com/maxfischer2781/gridctl/internal/model"

// Splitter turns blocks into partitions. Partition numbers are
// assigned densely in emission order by the caller (via
// model.PartitionMap.Append) - a Splitter only decides grouping and
// ordering, not numbering.
type Splitter interface {
	// Split returns one block's files split into partitions, in
	// emission order (spec: "Tie-break: files are taken in block
	// order").
	Split(block model.Block) ([]model.Partition, error)

	// ClassName is persisted as the partition map's Metadata.ClassName,
	// grounded on saveState's `self.__class__.__name__`.
	ClassName() string

	// Parameters is persisted as the partition map's
	// Metadata.Parameters, grounded on saveState folding
	// `self.__dict__` (minus `_jobFiles`) into the Metadata entry.
	Parameters() map[string]string
}

// SplitAll applies s to every block in order, concatenating results -
// the whole-run entry point a provider pass calls once blocks are
// built.
func SplitAll(s Splitter, blocks []model.Block) ([]model.Partition, error) {
	var out []model.Partition
	for _, block := range blocks {
		parts, err := s.Split(block)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

func partitionBase(block model.Block) model.Partition {
	return model.Partition{
		Dataset:   block.Dataset,
		BlockName: block.BlockName,
		Locations: block.Locations,
	}
}
