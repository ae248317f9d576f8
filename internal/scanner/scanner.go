// Package scanner implements the ingestion pipeline's Scanner chain
// (spec §4.1): an ordered sequence of transformers over a 5-field file
// record, fanning out lazily from a single seed record.
//
// Grounded on standardbeagle-lci's internal/indexing file-walking
// helpers (pipeline_scanner.go's FileScanner methods) for the directory
// traversal idiom, generalized from a single recursive walk to a
// composable chain of named stages using Go 1.23 range-over-func
// iterators instead of the original Python generator pipeline.
package scanner

import (
	"context"
	"iter"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// Scanner is a single stage of the ingestion chain. Iter consumes one
// upstream record and lazily produces zero or more downstream records,
// or an error for a record it could not process (spec: "Failure of a
// single record does not abort the run; the pipeline must surface an
// error object for that record and continue").
//
// level is the scanner's position in the chain, passed through so a
// stage can tell e.g. "am I first" (seed handling) or "am I last"
// (NullScanner always appended to terminate the chain).
type Scanner interface {
	Iter(ctx context.Context, level int, rec model.FileRecord) iter.Seq2[model.FileRecord, error]

	// GuardKeys names the metadata keys this scanner promises to
	// populate that must participate in the Hash Grouper's dataset and
	// block hash decisions respectively.
	GuardKeys() (datasetGuardKeys, blockGuardKeys []string)
}

// BaseGuardKeys is embedded by scanners with no guard keys of their
// own, avoiding repeating the empty-slice boilerplate.
type BaseGuardKeys struct{}

func (BaseGuardKeys) GuardKeys() (dataset, block []string) { return nil, nil }

// Seed returns the pipeline's starting tuple: an empty record with no
// URL, metadata, entry count, locations, or objects (spec: "a seed
// tuple (null, {}, null, null, {})").
func Seed() model.FileRecord {
	return model.NewSeedRecord()
}
