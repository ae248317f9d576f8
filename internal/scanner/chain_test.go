package scanner

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// fanOutScanner emits len(urls) copies of rec, one per url, ignoring
// whatever URL rec already carries - a minimal stand-in for a
// directory listing or catalog expansion stage.
type fanOutScanner struct {
	BaseGuardKeys
	urls []string
}

func (s fanOutScanner) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		for _, u := range s.urls {
			next := rec.Clone()
			next.URL = u
			if !yield(next, nil) {
				return
			}
		}
	}
}

// failScanner always emits a single per-record error instead of a
// record.
type failScanner struct {
	BaseGuardKeys
	err error
}

func (s failScanner) Iter(_ context.Context, _ int, _ model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		yield(model.FileRecord{}, s.err)
	}
}

func TestChainFansOutAcrossStages(t *testing.T) {
	chain := NewChain(
		fanOutScanner{urls: []string{"a", "b"}},
		fanOutScanner{urls: []string{"1", "2", "3"}},
	)
	records, errs := chain.Collect(context.Background())
	assert.Empty(t, errs)
	require.Len(t, records, 6, "each of 2 first-stage records fans out to 3 second-stage records")

	seen := map[string]bool{}
	for _, r := range records {
		seen[r.URL] = true
	}
	assert.Len(t, seen, 3, "second stage overwrites the URL, so only its own 3 values survive")
}

func TestChainAppendsNullScannerAutomatically(t *testing.T) {
	chain := NewChain(fanOutScanner{urls: []string{"a"}})
	records, errs := chain.Collect(context.Background())
	assert.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].URL)
}

func TestChainCollectsPerRecordErrorsWithoutAborting(t *testing.T) {
	chain := NewChain(
		fanOutScanner{urls: []string{"a", "b"}},
		failScanner{err: errors.New("bad record")},
	)
	records, errs := chain.Collect(context.Background())
	assert.Empty(t, records, "every record hit the failing stage")
	assert.Len(t, errs, 2, "one error per upstream record, not a single aborting error")
}

func TestChainStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(fanOutScanner{urls: []string{"a", "b", "c"}})
	_, errs := chain.Collect(ctx)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestChainGuardKeysUnionsAcrossStages(t *testing.T) {
	chain := NewChain(namedGuardScanner{ds: []string{"DS1"}, blk: []string{"BLK1"}}, namedGuardScanner{ds: []string{"DS1", "DS2"}})
	ds, blk := chain.GuardKeys()
	assert.Equal(t, []string{"DS1", "DS2"}, ds)
	assert.Equal(t, []string{"BLK1"}, blk)
}

type namedGuardScanner struct {
	ds, blk []string
}

func (namedGuardScanner) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) { yield(rec, nil) }
}

func (s namedGuardScanner) GuardKeys() (dataset, block []string) { return s.ds, s.blk }
