package scanner

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// OutputDirsFromWork walks a sibling run's workdir emitting one tuple
// per "job_<n>" output directory, sorted by job number (spec:
// "OutputDirsFromConfig / OutputDirsFromWork: walks a sibling run's
// workdir emitting one tuple per successful job output directory").
// Grounded on original_source's OutputDirsFromWork.getEntries.
type OutputDirsFromWork struct {
	BaseGuardKeys
	WorkDir string
}

func (s OutputDirsFromWork) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		outputDir := filepath.Join(s.WorkDir, "output")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			yield(model.FileRecord{}, gcerrors.NewScannerError("OutputDirsFromWork", outputDir, err))
			return
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), "job_") {
				names = append(names, e.Name())
			}
		}
		sort.SliceStable(names, func(i, j int) bool {
			ni, _ := strconv.Atoi(strings.TrimPrefix(names[i], "job_"))
			nj, _ := strconv.Atoi(strings.TrimPrefix(names[j], "job_"))
			return ni < nj
		})
		for _, name := range names {
			jobNum := strings.TrimPrefix(name, "job_")
			if _, err := strconv.Atoi(jobNum); err != nil {
				continue
			}
			next := rec.Clone()
			next.URL = filepath.Join(outputDir, name)
			next.Metadata["GC_JOBNUM"] = jobNum
			next.Metadata["GC_WORKDIR"] = s.WorkDir
			if !yield(next, nil) {
				return
			}
		}
	}
}

// JobSelection is the seam through which OutputDirsFromConfig reaches
// an external run's completed-job list, standing in for
// original_source's JobDB + JobSelector combination (full job
// submission/monitoring state is outside this pipeline's scope).
type JobSelection interface {
	WorkDir() string
	SelectedJobs() []int
}

// OutputDirsFromConfig resolves a sibling run's completed jobs through
// a JobSelection collaborator and emits one tuple per job's output
// directory, sorted by job number.
type OutputDirsFromConfig struct {
	BaseGuardKeys
	Source JobSelection
}

func (s OutputDirsFromConfig) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		if s.Source == nil {
			return
		}
		jobs := append([]int{}, s.Source.SelectedJobs()...)
		sort.Ints(jobs)
		workDir := s.Source.WorkDir()
		for _, jobNum := range jobs {
			next := rec.Clone()
			next.URL = filepath.Join(workDir, "output", "job_"+strconv.Itoa(jobNum))
			next.Metadata["GC_JOBNUM"] = strconv.Itoa(jobNum)
			next.Metadata["GC_WORKDIR"] = workDir
			if !yield(next, nil) {
				return
			}
		}
	}
}
