package provider

import (
	"context"

	"github.com/maxfischer2781/gridctl/internal/config"
	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/gclog"
	"github.com/maxfischer2781/gridctl/internal/hashgroup"
	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/scanner"
)

// buildGroupConfig reads the hash-key / naming-pattern / selection
// configuration shared by every provider flavour, merging each hash
// key set with the guard keys the chain's own stages declare (spec:
// "guard keys ... are always part of the active hash key set"),
// grounded on provider_scan.py's _get_active_hash_input.
func buildGroupConfig(cfg *config.View, chain *scanner.Chain, datasetExpr, nickOverride string) hashgroup.GroupConfig {
	dsGuard, blockGuard := chain.GuardKeys()

	dsKeys := cfg.GetList("dataset hash keys", nil, nil)
	dsKeys = append(append([]string{}, dsKeys...), cfg.GetList("dataset guard override", dsGuard, nil)...)

	blockKeys := cfg.GetList("block hash keys", nil, nil)
	blockKeys = append(append([]string{}, blockKeys...), cfg.GetList("block guard override", blockGuard, nil)...)

	return hashgroup.GroupConfig{
		DatasetExpr:           datasetExpr,
		DatasetNickOverride:   nickOverride,
		DatasetHashKeys:       dsKeys,
		BlockHashKeys:         blockKeys,
		DatasetPattern:        cfg.Get("dataset name pattern", "", nil),
		BlockPattern:          cfg.Get("block name pattern", "", nil),
		SelectedDatasetHashes: cfg.GetList("dataset key select", nil, nil),
		SelectedBlockHashes:   cfg.GetList("block key select", nil, nil),
	}
}

// runProvider drains chain, groups the result, and resolves any name
// collision through prompt, per provider_scan.py's
// _iter_blocks_raw/_check_map_name2key sequence.
func runProvider(ctx context.Context, chain *scanner.Chain, cfg hashgroup.GroupConfig, prompt config.PromptSink) ([]model.Block, error) {
	records, errs := chain.Collect(ctx)
	if len(records) == 0 && len(errs) > 0 {
		return nil, gcerrors.NewConfigError("scanner", gcerrors.NewMultiError(errs))
	}
	if len(errs) > 0 {
		gclog.Warn("provider: %d scanner errors ignored, %d files scanned ok", len(errs), len(records))
	}

	blocks, collisions, err := hashgroup.Group(records, cfg)
	if err != nil {
		return nil, err
	}
	for _, c := range collisions {
		gclog.Warn("%s name %q is shared by hashes %v", c.Kind, c.Name, c.Hashes)
	}
	if len(collisions) > 0 {
		if prompt == nil {
			prompt = config.DefaultPromptSink{}
		}
		if !prompt.Confirm("continue despite dataset/block name collisions?", true) {
			return nil, gcerrors.NewAbortError("name collision declined")
		}
	}
	return blocks, nil
}
