package scanner

import (
	"context"
	"iter"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// Chain is an ordered scanner pipeline S1...Sn, always terminated by a
// NullScanner (spec: "NullScanner: terminal identity; always
// appended").
type Chain struct {
	stages []Scanner
}

// NewChain builds a chain from the given stages, appending a
// NullScanner if the caller didn't already include one.
func NewChain(stages ...Scanner) *Chain {
	if len(stages) == 0 || !isNullScanner(stages[len(stages)-1]) {
		stages = append(append([]Scanner{}, stages...), NullScanner{})
	}
	return &Chain{stages: stages}
}

func isNullScanner(s Scanner) bool {
	_, ok := s.(NullScanner)
	return ok
}

// GuardKeys unions the guard key sets declared across every stage in
// the chain.
func (c *Chain) GuardKeys() (dataset, block []string) {
	dsSeen := map[string]struct{}{}
	blkSeen := map[string]struct{}{}
	for _, s := range c.stages {
		ds, blk := s.GuardKeys()
		for _, k := range ds {
			if _, ok := dsSeen[k]; !ok {
				dsSeen[k] = struct{}{}
				dataset = append(dataset, k)
			}
		}
		for _, k := range blk {
			if _, ok := blkSeen[k]; !ok {
				blkSeen[k] = struct{}{}
				block = append(block, k)
			}
		}
	}
	return dataset, block
}

// Run executes the chain starting from the seed tuple, recursively
// fanning out output_k = flatMap(output_{k-1}, Sk.iter) (spec §4.1).
// A cooperative cancellation check runs before every emitted tuple so
// a long chain can be interrupted between records.
func (c *Chain) Run(ctx context.Context) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		var recurse func(level int, rec model.FileRecord) bool
		recurse = func(level int, rec model.FileRecord) bool {
			if level == len(c.stages) {
				return yield(rec, nil)
			}
			stage := c.stages[level]
			keepGoing := true
			stage.Iter(ctx, level, rec)(func(next model.FileRecord, err error) bool {
				if ctx.Err() != nil {
					keepGoing = yield(model.FileRecord{}, ctx.Err())
					return false
				}
				if err != nil {
					if !yield(model.FileRecord{}, err) {
						keepGoing = false
						return false
					}
					return true
				}
				if !recurse(level+1, next) {
					keepGoing = false
					return false
				}
				return true
			})
			return keepGoing
		}
		recurse(0, Seed())
	}
}

// Collect drains the chain, splitting successful records from
// per-record errors rather than aborting on the first one (spec §7
// propagation policy: per-record ScannerErrors are collected, not
// fatal).
func (c *Chain) Collect(ctx context.Context) ([]model.FileRecord, []error) {
	var records []model.FileRecord
	var errs []error
	for rec, err := range c.Run(ctx) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}
