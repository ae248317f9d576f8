package provider

import (
	"context"
	"os"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/config"
	"github.com/maxfischer2781/gridctl/internal/hashgroup"
	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/scanner"
)

// GCProvider reads a sibling pipeline run's completed job output
// directories, either directly from a workdir or through a
// JobSelection collaborator pointed at an external run's config.
//
// Grounded on provider_scan.py's GCProvider: same directory-vs-config
// source split selecting OutputDirsFromWork vs
// OutputDirsFromConfig+MetadataFromTask. JobInfoFromOutputDir is
// folded away: FilesFromJobInfo here already reads "job.info" relative
// to the record's own URL (the job output directory
// OutputDirsFromWork/Config just emitted), so the original's separate
// directory-opening stage has no work left to do.
type GCProvider struct {
	chain  *scanner.Chain
	cfg    hashgroup.GroupConfig
	prompt config.PromptSink
}

func NewGCProvider(cfg *config.View, registry *scanner.Registry, dataSourceOrWorkDir, nickOverride string, deps Collaborators) (*GCProvider, error) {
	var scannerNames []string
	if isDir(dataSourceOrWorkDir) {
		scannerNames = []string{"OutputDirsFromWork", "FilesFromJobInfo", "MatchOnFilename", "MatchDelimiter", "DetermineEvents", "AddFilePrefix"}
		cfg.Set("source directory", dataSourceOrWorkDir)
	} else {
		expr, selector, _ := cutPercent(dataSourceOrWorkDir)
		scannerNames = []string{"OutputDirsFromConfig", "MetadataFromTask", "FilesFromJobInfo", "MatchOnFilename", "MatchDelimiter", "DetermineEvents", "AddFilePrefix"}
		cfg.Set("source config", expr)
		cfg.Set("source job selector", selector)
	}
	scannerNames = cfg.GetList("scanner", scannerNames, nil)

	chain, err := buildChain(scannerNames, cfg, registry, deps)
	if err != nil {
		return nil, err
	}

	return &GCProvider{
		chain:  chain,
		cfg:    buildGroupConfig(cfg, chain, dataSourceOrWorkDir, nickOverride),
		prompt: cfg.Prompt(),
	}, nil
}

func (p *GCProvider) GetBlocks(ctx context.Context) ([]model.Block, error) {
	return runProvider(ctx, p.chain, p.cfg, p.prompt)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func cutPercent(expr string) (string, string, bool) {
	before, after, found := strings.Cut(expr, "%")
	return before, after, found
}
