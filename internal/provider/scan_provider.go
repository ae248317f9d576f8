package provider

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/config"
	"github.com/maxfischer2781/gridctl/internal/hashgroup"
	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/scanner"
)

// ScanProvider walks a storage location (a plain directory, a glob, or
// a `.dbs`-suffixed catalog expression) through a configurable scanner
// chain and groups the result into blocks.
//
// Grounded on provider_scan.py's ScanProvider: same three source forms
// (glob, plain directory, catalog expression) selecting the same
// default scanner-chain head (FilesFromLS / FilesFromDataProvider)
// before the shared MatchOnFilename -> MatchDelimiter -> DetermineEvents
// -> AddFilePrefix tail.
type ScanProvider struct {
	chain  *scanner.Chain
	cfg    hashgroup.GroupConfig
	prompt config.PromptSink
}

// NewScanProvider builds a ScanProvider for datasetExpr, reading
// scanner/hash/naming overrides from cfg and resolving collaborator
// seams from deps.
func NewScanProvider(cfg *config.View, registry *scanner.Registry, datasetExpr, nickOverride string, deps Collaborators) (*ScanProvider, error) {
	basename := filepath.Base(datasetExpr)
	scannerFirst := "FilesFromLS"
	switch {
	case strings.Contains(basename, "*"):
		cfg.Set("source directory", strings.TrimSuffix(datasetExpr, basename))
		cfg.Set("filename filter", basename)
	case !strings.HasSuffix(datasetExpr, ".dbs"):
		cfg.Set("source directory", datasetExpr)
	default:
		cfg.Set("source dataset path", datasetExpr)
		cfg.Set("filename filter", "")
		scannerFirst = "FilesFromDataProvider"
	}

	defaultScanners := []string{scannerFirst, "MatchOnFilename", "MatchDelimiter", "DetermineEvents", "AddFilePrefix"}
	scannerNames := cfg.GetList("scanner", defaultScanners, nil)

	chain, err := buildChain(scannerNames, cfg, registry, deps)
	if err != nil {
		return nil, err
	}

	return &ScanProvider{
		chain:  chain,
		cfg:    buildGroupConfig(cfg, chain, datasetExpr, nickOverride),
		prompt: cfg.Prompt(),
	}, nil
}

func (p *ScanProvider) GetBlocks(ctx context.Context) ([]model.Block, error) {
	return runProvider(ctx, p.chain, p.cfg, p.prompt)
}
