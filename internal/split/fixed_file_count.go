package split

import (
	"strconv"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// FixedFileCount groups Count files from a block into each partition,
// the last partition taking whatever remainder is left (spec:
// "FixedFileCount(k)").
type FixedFileCount struct {
	Count int
}

func (FixedFileCount) ClassName() string { return "FixedFileCount" }

func (s FixedFileCount) Parameters() map[string]string {
	return map[string]string{"FilesPerJob": strconv.Itoa(s.Count)}
}

func (s FixedFileCount) Split(block model.Block) ([]model.Partition, error) {
	if s.Count <= 0 {
		s.Count = 1
	}
	var out []model.Partition
	for i := 0; i < len(block.Files); i += s.Count {
		end := i + s.Count
		if end > len(block.Files) {
			end = len(block.Files)
		}
		chunk := block.Files[i:end]

		p := partitionBase(block)
		p.URLs = make([]string, len(chunk))
		var entries int64
		for j, f := range chunk {
			p.URLs[j] = f.URL
			if entries >= 0 && f.Entries >= 0 {
				entries += f.Entries
			} else {
				entries = -1
			}
		}
		p.Entries = entries
		out = append(out, p)
	}
	return out, nil
}
