package scanner

import (
	"context"
	"iter"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// AddFilePrefix rewrites url with a configured prefix (spec:
// "AddFilePrefix: rewrites url with a configured prefix").
type AddFilePrefix struct {
	BaseGuardKeys
	Prefix string
}

func (s AddFilePrefix) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		next := rec.Clone()
		next.URL = s.Prefix + next.URL
		yield(next, nil)
	}
}
