package scanner

import (
	"context"
	"iter"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// ExternalCatalog is the seam through which FilesFromDataProvider
// queries a remote dataset catalog (original_source's `.dbs`-suffixed
// dataset expressions). The actual remote protocol is out of scope
// (spec §1: "no cache of remote listings") - this interface lets
// ScanProvider wire in whatever catalog client a deployment needs
// without the scanner chain depending on it directly.
type ExternalCatalog interface {
	// ListFiles returns the files registered for expression, each with
	// whatever metadata/entry count the catalog already knows.
	ListFiles(ctx context.Context, expression string) ([]model.FileRecord, error)
}

// FilesFromDataProvider emits one tuple per file the catalog reports
// for a dataset expression, named in original_source's ScanProvider
// default scanner list for catalog-backed sources.
type FilesFromDataProvider struct {
	BaseGuardKeys
	Catalog    ExternalCatalog
	Expression string
}

func (s FilesFromDataProvider) Iter(ctx context.Context, _ int, seed model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		if s.Catalog == nil {
			return
		}
		records, err := s.Catalog.ListFiles(ctx, s.Expression)
		if err != nil {
			yield(model.FileRecord{}, err)
			return
		}
		for _, rec := range records {
			merged := seed.Clone()
			merged.URL = rec.URL
			merged.Entries = rec.Entries
			for k, v := range rec.Metadata {
				merged.Metadata[k] = v
			}
			if !yield(merged, nil) {
				return
			}
		}
	}
}
