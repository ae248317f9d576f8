// Package provider assembles a scanner chain and a hash grouper into
// the Data Provider collaborator (spec §4.2): something that turns a
// dataset expression into a list of named Blocks.
//
// Grounded on original_source/packages/grid_control/datasets/
// provider_scan.py's ScanProviderBase, split per its own internal
// structure: _assign_dataset_block/_build_blocks become
// internal/hashgroup.Group, _iter_file_infos becomes
// internal/scanner.Chain.Run, and ScanProviderBase itself becomes the
// Provider interface with two concrete constructors (ScanProvider,
// GCProvider) mirroring the original's two DataProvider subclasses.
package provider

import (
	"context"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// Provider turns a configured dataset expression into blocks.
type Provider interface {
	GetBlocks(ctx context.Context) ([]model.Block, error)
}
