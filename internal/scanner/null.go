package scanner

import (
	"context"
	"iter"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// NullScanner is the terminal identity stage always appended to a
// chain (spec: "NullScanner: terminal identity; always appended").
type NullScanner struct {
	BaseGuardKeys
}

func (NullScanner) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		yield(rec, nil)
	}
}
