package scanner

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// FilesFromLS emits one tuple per regular file found by walking
// directory (spec: "FilesFromLS(directory): emits one tuple per listed
// file"). Grounded on the teacher's filepath.Walk traversal in
// pipeline.go, simplified to a flat listing since our domain has no
// gitignore/binary-detection concerns.
type FilesFromLS struct {
	BaseGuardKeys
	Directory string
}

func (s FilesFromLS) Iter(ctx context.Context, _ int, seed model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		walkErr := filepath.Walk(s.Directory, func(path string, info os.FileInfo, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				if !yield(model.FileRecord{}, gcerrors.NewScannerError("FilesFromLS", path, err)) {
					return filepath.SkipAll
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}
			rec := seed.Clone()
			rec.URL = path
			if !yield(rec, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil && walkErr != filepath.SkipAll {
			yield(model.FileRecord{}, gcerrors.NewScannerError("FilesFromLS", s.Directory, walkErr))
		}
	}
}
