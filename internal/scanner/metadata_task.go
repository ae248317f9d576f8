package scanner

import (
	"context"
	"iter"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// TaskDescription is the seam through which MetadataFromTask reaches
// an external task/module description (original_source's GC_MODULE
// object store entry) - kept abstract since the task description
// format itself is out of scope.
type TaskDescription interface {
	// Variables returns the task's configuration variables, optionally
	// specialised for jobNum (GC_JOBNUM metadata, when present).
	Variables(jobNum string) map[string]string
}

// defaultIgnoredTaskVars mirrors original_source's
// MetadataFromModule.ignoreDef: internal bookkeeping variables that
// never belong in a dataset's metadata schema.
var defaultIgnoredTaskVars = map[string]struct{}{
	"FILE_NAMES": {}, "SB_INPUT_FILES": {}, "SE_INPUT_FILES": {},
	"SE_INPUT_PATH": {}, "SE_INPUT_PATTERN": {}, "SB_OUTPUT_FILES": {},
	"SE_OUTPUT_FILES": {}, "SE_OUTPUT_PATH": {}, "SE_OUTPUT_PATTERN": {},
	"SE_MINFILESIZE": {}, "DOBREAK": {}, "MY_RUNTIME": {}, "MY_JOBID": {},
	"GC_VERSION": {}, "GC_DEPFILES": {}, "SUBST_FILES": {}, "SEEDS": {},
	"SCRATCH_LL": {}, "SCRATCH_UL": {}, "LANDINGZONE_LL": {}, "LANDINGZONE_UL": {},
}

// MetadataFromTask injects variables from the external task
// description into a record's metadata, minus a denylist (spec:
// "MetadataFromTask: injects variables from the external task
// description, minus a denylist").
type MetadataFromTask struct {
	BaseGuardKeys
	Task       TaskDescription
	IgnoreVars []string
}

func (s MetadataFromTask) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		if s.Task == nil {
			yield(rec, nil)
			return
		}
		ignored := map[string]struct{}{}
		for k := range defaultIgnoredTaskVars {
			ignored[k] = struct{}{}
		}
		for _, k := range s.IgnoreVars {
			ignored[k] = struct{}{}
		}

		next := rec.Clone()
		for key, value := range s.Task.Variables(rec.Metadata["GC_JOBNUM"]) {
			if _, skip := ignored[key]; skip {
				continue
			}
			next.Metadata[key] = value
		}
		yield(next, nil)
	}
}
