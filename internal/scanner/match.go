package scanner

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// MatchOnFilename drops tuples whose basename doesn't match any of the
// configured glob patterns (spec: "MatchOnFilename(patterns): drops
// tuples whose basename doesn't match any pattern"). Matching uses
// doublestar so "**"-style patterns behave the same way they do for
// the rest of the toolchain's path matching.
type MatchOnFilename struct {
	BaseGuardKeys
	Patterns []string
}

func (s MatchOnFilename) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		base := filepath.Base(rec.URL)
		for _, pattern := range s.Patterns {
			matched, err := doublestar.Match(pattern, base)
			if err != nil {
				if !yield(model.FileRecord{}, gcerrors.NewScannerError("MatchOnFilename", rec.URL, err)) {
					return
				}
				continue
			}
			if matched {
				yield(rec, nil)
				return
			}
		}
	}
}

// MatchDelimiter asserts the basename has an exact delimiter count and
// extracts DELIMITER_DS / DELIMITER_B metadata from the delimited
// segments it's configured to capture (spec: "MatchDelimiter(sep,
// dsRange, blockRange): asserts the basename has an exact delimiter
// count; extracts DELIMITER_DS / DELIMITER_B metadata").
//
// dsRange and blockRange are "start:end" slice expressions over the
// delimiter-split basename, grounded on original_source's
// MatchDelimeter.splitParse/getVar.
type MatchDelimiter struct {
	Separator  string
	Count      int // required occurrence count of Separator in the basename; 0 disables the check
	DSRange    string
	BlockRange string
}

func (s MatchDelimiter) GuardKeys() (dataset, block []string) {
	var ds, blk []string
	if s.DSRange != "" {
		ds = []string{"DELIMITER_DS"}
	}
	if s.BlockRange != "" {
		blk = []string{"DELIMITER_B"}
	}
	return ds, blk
}

func (s MatchDelimiter) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		base := filepath.Base(rec.URL)
		if s.Count > 0 && strings.Count(base, s.Separator) != s.Count {
			return
		}
		parts := strings.Split(base, s.Separator)

		next := rec.Clone()
		if s.DSRange != "" {
			val, err := sliceJoin(parts, s.Separator, s.DSRange)
			if err != nil {
				yield(model.FileRecord{}, gcerrors.NewScannerError("MatchDelimiter", rec.URL, err))
				return
			}
			next.Metadata["DELIMITER_DS"] = val
		}
		if s.BlockRange != "" {
			val, err := sliceJoin(parts, s.Separator, s.BlockRange)
			if err != nil {
				yield(model.FileRecord{}, gcerrors.NewScannerError("MatchDelimiter", rec.URL, err))
				return
			}
			next.Metadata["DELIMITER_B"] = val
		}
		yield(next, nil)
	}
}

// sliceJoin parses a "start:end" range expression and re-joins the
// selected delimiter-split segments with sep.
func sliceJoin(parts []string, sep, rangeExpr string) (string, error) {
	startStr, endStr, _ := strings.Cut(rangeExpr, ":")
	start, end := 0, len(parts)
	var err error
	if startStr != "" {
		if start, err = strconv.Atoi(startStr); err != nil {
			return "", fmt.Errorf("invalid range %q: %w", rangeExpr, err)
		}
	}
	if endStr != "" {
		if end, err = strconv.Atoi(endStr); err != nil {
			return "", fmt.Errorf("invalid range %q: %w", rangeExpr, err)
		}
	}
	if start < 0 {
		start += len(parts)
	}
	if end < 0 {
		end += len(parts)
	}
	if start < 0 || end > len(parts) || start > end {
		return "", fmt.Errorf("range %q out of bounds for %d segments", rangeExpr, len(parts))
	}
	return strings.Join(parts[start:end], sep), nil
}
