package resync

import (
	"github.com/maxfischer2781/gridctl/internal/config"
	"github.com/maxfischer2781/gridctl/internal/gclog"
	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/split"
)

// Report summarises one resync pass's effect on the partition map, for
// logging and for tests asserting on scenario outcomes (spec §8).
type Report struct {
	BlocksAdded     int
	BlocksMissing   int
	BlocksChanged   int
	PartitionsAdded int
	Retired         int
	Expanded        int
}

// Engine reconciles a persisted partition map against a fresh set of
// blocks, per spec §4.5's three-way diff and per-class update rules.
type Engine struct {
	Splitter split.Splitter
	Prompts  config.PromptSink
}

// NewEngine returns an Engine using the given splitter and prompt
// sink (config.DefaultPromptSink{} for a non-interactive, always-no-op
// run).
func NewEngine(splitter split.Splitter, prompts config.PromptSink) *Engine {
	if prompts == nil {
		prompts = config.DefaultPromptSink{}
	}
	return &Engine{Splitter: splitter, Prompts: prompts}
}

// Run applies one resync pass: diff oldBlocks against newBlocks, then
// mutate a copy of partitionMap according to the four update classes.
// partitionMap is not mutated in place - the caller decides whether to
// persist the result (spec §7: "IntegrityError during resync stops the
// pass and leaves the prior map intact").
func (e *Engine) Run(partitionMap model.PartitionMap, oldBlocks, newBlocks []model.Block) (model.PartitionMap, Report, error) {
	delta := Diff(oldBlocks, newBlocks)
	out := partitionMap
	out.Partitions = append([]model.Partition{}, partitionMap.Partitions...)

	report := Report{
		BlocksAdded:   len(delta.Added),
		BlocksMissing: len(delta.Missing),
		BlocksChanged: len(delta.Changed),
	}

	for _, changed := range delta.Changed {
		e.applyChangedBlock(&out, changed, &report)
	}

	for _, missing := range delta.Missing {
		e.retireMissingBlock(&out, missing, &report)
	}

	if len(delta.Added) > 0 {
		if e.Splitter == nil {
			gclog.Warn("resync: %d added blocks but no splitter configured, skipping", len(delta.Added))
		} else {
			for _, block := range delta.Added {
				parts, err := e.Splitter.Split(block)
				if err != nil {
					return partitionMap, report, err
				}
				for _, p := range parts {
					out.Append(p)
					report.PartitionsAdded++
				}
			}
		}
	}

	return out, report, nil
}

func (e *Engine) applyChangedBlock(out *model.PartitionMap, changed model.ChangedBlock, report *Report) {
	// Files added to an existing block are treated as part of Added
	// (spec: "file added -> part of Added"): split and append just the
	// new-only tail, same as a freshly discovered block.
	if len(changed.AddedFiles) > 0 {
		if e.Splitter == nil {
			gclog.Warn("resync: %d added files in block %s/%s but no splitter configured, skipping",
				len(changed.AddedFiles), changed.New.Dataset, changed.New.BlockName)
		} else {
			tail := changed.New
			tail.Files = changed.AddedFiles
			tail.RecomputeEntries()
			parts, err := e.Splitter.Split(tail)
			if err == nil {
				for _, p := range parts {
					out.Append(p)
					report.PartitionsAdded++
				}
			} else {
				gclog.Warn("resync: failed to split %d added files in block %s/%s: %v",
					len(changed.AddedFiles), changed.New.Dataset, changed.New.BlockName, err)
			}
		}
	}

	missingURLs := map[string]struct{}{}
	for _, f := range changed.MissingFiles {
		missingURLs[f.URL] = struct{}{}
	}

	// Shrunk files: operator may opt to treat them as missing; declined
	// (or non-interactive) leaves the partition referencing the stale
	// entry count untouched (spec: "defaults to no-op (conservative)").
	if len(changed.Shrunk) > 0 {
		treatAsMissing := e.Prompts.Confirm("treat shrunken files as missing?", false)
		if treatAsMissing {
			for _, fd := range changed.Shrunk {
				missingURLs[fd.URL] = struct{}{}
			}
		}
	}

	if len(missingURLs) > 0 {
		confirmed := e.Prompts.Confirm("exclude missing files from their partitions?", false)
		if confirmed {
			e.removeMissingFiles(out, changed.Old, missingURLs, report)
		} else {
			gclog.Warn("resync: %d missing files in block %s/%s left in place (declined)",
				len(missingURLs), changed.Old.Dataset, changed.Old.BlockName)
		}
	}

	if len(changed.Expanded) > 0 {
		submit := e.Prompts.Confirm("submit expanded files as new partitions?", false)
		if submit {
			for _, fd := range changed.Expanded {
				p := model.Partition{
					Dataset:   changed.New.Dataset,
					BlockName: changed.New.BlockName,
					Locations: changed.New.Locations,
					URLs:      []string{fd.URL},
					Entries:   fd.DeltaEntries(),
					Skip:      fd.OldEntries,
				}
				out.Append(p)
				report.Expanded++
			}
		} else {
			gclog.Warn("resync: %d expanded files in block %s/%s not resubmitted (declined)",
				len(changed.Expanded), changed.New.Dataset, changed.New.BlockName)
		}
	}
}

// retireMissingBlock handles a block entirely absent from newBlocks: if
// any of its partitions aren't already retired, prompt once and, if
// confirmed, retire them all - the "if x.root also disappears ->
// partition retired" half of spec's missing-file rule, generalised to
// a whole block going missing in one pass rather than file by file.
func (e *Engine) retireMissingBlock(out *model.PartitionMap, missingBlock model.Block, report *Report) {
	allURLs := map[string]struct{}{}
	live := false
	for _, p := range out.Partitions {
		if p.Dataset != missingBlock.Dataset || p.BlockName != missingBlock.BlockName {
			continue
		}
		if p.Retired {
			continue
		}
		live = true
		for _, u := range p.URLs {
			allURLs[u] = struct{}{}
		}
	}
	if !live {
		return
	}

	confirmed := e.Prompts.Confirm("retire partitions of missing block "+missingBlock.Dataset+"#"+missingBlock.BlockName+"?", false)
	if !confirmed {
		gclog.Warn("resync: block %s/%s entirely missing, partitions left in place (declined)",
			missingBlock.Dataset, missingBlock.BlockName)
		return
	}
	e.removeMissingFiles(out, missingBlock, allURLs, report)
}

// removeMissingFiles drops the given URLs from every partition of
// oldBlock, recomputing entries/skip per spec: "if the first file
// goes, absorb its former skip into entries; if the last file goes,
// drop its tail events". Partitions whose file list becomes empty are
// retired rather than removed, preserving their slot number.
func (e *Engine) removeMissingFiles(out *model.PartitionMap, oldBlock model.Block, missing map[string]struct{}, report *Report) {
	for i, p := range out.Partitions {
		if p.Dataset != oldBlock.Dataset || p.BlockName != oldBlock.BlockName {
			continue
		}
		if !referencesAny(p.URLs, missing) {
			continue
		}

		firstRemoved := len(p.URLs) > 0 && isMissing(p.URLs[0], missing)
		var remaining []string
		for _, u := range p.URLs {
			if !isMissing(u, missing) {
				remaining = append(remaining, u)
			}
		}

		if len(remaining) == 0 {
			p.URLs = nil
			p.Entries = 0
			p.Skip = 0
			p.Retired = true
			out.Partitions[i] = p
			report.Retired++
			continue
		}

		var total int64
		allKnown := true
		for _, u := range remaining {
			f, ok := oldBlock.FileByURL(u)
			if !ok || f.Entries < 0 {
				allKnown = false
				continue
			}
			total += f.Entries
		}
		p.URLs = remaining
		if firstRemoved {
			p.Skip = 0
		}
		if allKnown {
			if !firstRemoved {
				total -= p.Skip
			}
			p.Entries = total
		} else {
			p.Entries = -1
		}
		out.Partitions[i] = p
	}
}

func referencesAny(urls []string, set map[string]struct{}) bool {
	for _, u := range urls {
		if _, ok := set[u]; ok {
			return true
		}
	}
	return false
}

func isMissing(url string, set map[string]struct{}) bool {
	_, ok := set[url]
	return ok
}
