package split

import "github.com/maxfischer2781/gridctl/internal/model"

// FileBoundarySplitter emits one partition per file (spec:
// "FileBoundarySplitter (one partition per file)").
type FileBoundarySplitter struct{}

func (FileBoundarySplitter) ClassName() string             { return "FileBoundarySplitter" }
func (FileBoundarySplitter) Parameters() map[string]string { return map[string]string{} }

func (FileBoundarySplitter) Split(block model.Block) ([]model.Partition, error) {
	out := make([]model.Partition, 0, len(block.Files))
	for _, f := range block.Files {
		p := partitionBase(block)
		p.URLs = []string{f.URL}
		p.Entries = f.Entries
		out = append(out, p)
	}
	return out, nil
}
