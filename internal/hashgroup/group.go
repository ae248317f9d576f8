package hashgroup

import (
	"sort"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// GroupConfig parameterizes a grouping pass: the keys that feed each
// hash level, naming patterns, and an optional selection filter
// (spec §4.3 configuration surface, grounded on ScanProviderBase's
// constructor options).
type GroupConfig struct {
	DatasetExpr         string
	DatasetNickOverride string
	DatasetHashKeys     []string
	BlockHashKeys       []string
	DatasetPattern      string
	BlockPattern        string
	// SelectedDatasetHashes / SelectedBlockHashes restrict output to a
	// specific hash allow-list when non-empty (dataset "key select").
	SelectedDatasetHashes []string
	SelectedBlockHashes   []string
}

// NameCollision reports two or more distinct hash keys that resolved
// to the same dataset or block name, per _check_map_name2key.
type NameCollision struct {
	Kind  string // "dataset" or "block"
	Name  string
	Hashes []string
}

type blockKey struct {
	dataset model.Hash128
	block   model.Hash128
}

// Group folds records into Blocks keyed by (datasetHash, blockHash),
// intersecting metadata across every file sharing a key and assigning
// names via the configured patterns. A block's MetadataKeys is the
// sorted union of its files' metadata keys; first-appearance order is
// not tracked, since FileRecord.Metadata is a plain map.
func Group(records []model.FileRecord, cfg GroupConfig) ([]model.Block, []NameCollision, error) {
	type groupState struct {
		files    []model.FileRecord
		metadata map[string]string // intersection across member files
		dsHash   model.Hash128
		blkHash  model.Hash128
	}

	groups := map[blockKey]*groupState{}
	dsMetadata := map[model.Hash128]map[string]string{}
	order := []blockKey{}

	allowedDS := toSet(cfg.SelectedDatasetHashes)
	allowedBlock := toSet(cfg.SelectedBlockHashes)

	for _, rec := range records {
		locations := rec.LocationList()
		dsHash := datasetHash(cfg.DatasetExpr, cfg.DatasetNickOverride, rec.Metadata, cfg.DatasetHashKeys)
		blkHash := blockHash(dsHash, locations, rec.Metadata, cfg.BlockHashKeys)

		if len(allowedDS) > 0 {
			if _, ok := allowedDS[dsHash.String()]; !ok {
				continue
			}
		}
		if len(allowedBlock) > 0 {
			if _, ok := allowedBlock[blkHash.String()]; !ok {
				continue
			}
		}

		// Assign DS_KEY/BLOCK_KEY onto the record's own metadata before
		// grouping, mirroring provider_scan.py's
		// metadata_dict.update({'DS_KEY': ..., 'BLOCK_KEY': ...}) ahead
		// of the bucket append/intersection fold below, so both the
		// file's metadata and the bucket's intersection dict carry the
		// hashes (spec §4.3 step 4).
		rec = rec.Clone()
		rec.Metadata["DS_KEY"] = dsHash.String()
		rec.Metadata["BLOCK_KEY"] = blkHash.String()

		key := blockKey{dataset: dsHash, block: blkHash}
		g, ok := groups[key]
		if !ok {
			g = &groupState{
				metadata: cloneMap(rec.Metadata),
				dsHash:   dsHash,
				blkHash:  blkHash,
			}
			groups[key] = g
			order = append(order, key)
		} else {
			intersectInPlace(g.metadata, rec.Metadata)
		}
		g.files = append(g.files, rec)

		dsMeta, ok := dsMetadata[dsHash]
		if !ok {
			dsMeta = cloneMap(rec.Metadata)
			dsMetadata[dsHash] = dsMeta
		} else {
			intersectInPlace(dsMeta, rec.Metadata)
		}
	}

	// Name resolution, performed once all groups are known so that
	// collision detection sees the full picture (_check_map_name2key).
	dsNames := map[model.Hash128]string{}
	for dsHash, meta := range dsMetadata {
		dsNames[dsHash] = datasetName(cfg.DatasetPattern, meta, dsHash)
	}
	blockNames := map[blockKey]string{}
	for _, key := range order {
		g := groups[key]
		blockNames[key] = blockName(cfg.BlockPattern, g.metadata, g.blkHash)
	}

	collisions := detectCollisions(dsNames, blockNames)

	sort.Slice(order, func(i, j int) bool {
		ni, nj := dsNames[order[i].dataset], dsNames[order[j].dataset]
		if ni != nj {
			return ni < nj
		}
		return blockNames[order[i]] < blockNames[order[j]]
	})

	blocks := make([]model.Block, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.Slice(g.files, func(i, j int) bool { return g.files[i].URL < g.files[j].URL })

		block := model.Block{
			Dataset:      dsNames[key.dataset],
			BlockName:    blockNames[key],
			Files:        g.files,
			MetadataKeys: unionMetadataKeys(g.files),
			DatasetHash:  key.dataset,
			BlockHash:    key.block,
		}
		block.Locations, block.LocationOrder = unionLocations(g.files)
		block.RecomputeEntries()
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return nil, collisions, gcerrors.NewNoDataError(cfg.DatasetExpr)
	}
	return blocks, collisions, nil
}

func toSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// unionMetadataKeys returns the sorted union of metadata keys across
// every file in the block (spec: "Metadata schema of a block is the
// union of file metadata keys").
func unionMetadataKeys(files []model.FileRecord) []string {
	seen := map[string]struct{}{}
	for _, f := range files {
		for k := range f.Metadata {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// intersectInPlace prunes dst down to the keys whose value also
// matches src, mirroring original_source's intersect_first_dict
// ("prune metadata dict down to infos common for all hashes").
func intersectInPlace(dst, src map[string]string) {
	for k, v := range dst {
		if sv, ok := src[k]; !ok || sv != v {
			delete(dst, k)
		}
	}
}

func unionLocations(files []model.FileRecord) (map[string]struct{}, []string) {
	seen := map[string]struct{}{}
	var order []string
	anyConstrained := false
	for _, f := range files {
		if f.Locations == nil {
			continue
		}
		anyConstrained = true
		for _, loc := range f.LocationList() {
			if _, ok := seen[loc]; !ok {
				seen[loc] = struct{}{}
				order = append(order, loc)
			}
		}
	}
	if !anyConstrained {
		return nil, nil
	}
	return seen, order
}

func detectCollisions(dsNames map[model.Hash128]string, blockNames map[blockKey]string) []NameCollision {
	dsByName := map[string][]string{}
	for hash, name := range dsNames {
		dsByName[name] = append(dsByName[name], hash.String())
	}
	blockByName := map[string][]string{}
	for key, name := range blockNames {
		blockByName[name] = append(blockByName[name], key.block.String())
	}

	var out []NameCollision
	for name, hashes := range dsByName {
		if len(hashes) > 1 {
			sort.Strings(hashes)
			out = append(out, NameCollision{Kind: "dataset", Name: name, Hashes: hashes})
		}
	}
	for name, hashes := range blockByName {
		if len(hashes) > 1 {
			sort.Strings(hashes)
			out = append(out, NameCollision{Kind: "block", Name: name, Hashes: hashes})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
