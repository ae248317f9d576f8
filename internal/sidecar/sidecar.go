// Package sidecar reads and writes the "sidecar block catalog"
// (dataset.list): a plain text snapshot of a block universe, used by
// the resync engine to reconstruct oldBlocks when no richer source is
// available (spec §6: "Sidecar block catalog (read by resync to
// reconstruct oldBlocks): dataset.list text with per-block header
// lines [dataset#block] followed by one file per line
// `url = entries metadataJSON`. Locations appear as
// `se list = s1,s2,...` before files.").
//
// Grounded directly on that spec text: the corpus's original_source
// slice carries datasetInfo.py's call site (DataProvider.saveToFile)
// but not the method body, so the wire format here follows the spec's
// description rather than a read implementation. encoding/json is used
// only for each file's per-metadata-value encoding, matching the
// `metadataJSON` fragment named in the format itself - no example repo
// carries a library for this bespoke line format as a whole.
package sidecar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// Save writes blocks to path in dataset.list format, one header
// section per block in the given order.
func Save(blocks []model.Block, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return gcerrors.NewIOError("save", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := writeAll(w, blocks); err != nil {
		return gcerrors.NewIOError("save", path, err)
	}
	if err := w.Flush(); err != nil {
		return gcerrors.NewIOError("save", path, err)
	}
	return nil
}

func writeAll(w io.Writer, blocks []model.Block) error {
	for _, b := range blocks {
		if _, err := fmt.Fprintf(w, "[%s#%s]\n", b.Dataset, b.BlockName); err != nil {
			return err
		}
		if len(b.LocationOrder) > 0 {
			if _, err := fmt.Fprintf(w, "se list = %s\n", strings.Join(b.LocationOrder, ",")); err != nil {
				return err
			}
		}
		for _, f := range b.Files {
			meta, err := json.Marshal(f.Metadata)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s = %d %s\n", f.URL, f.Entries, meta); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load parses path's dataset.list content back into blocks, recomputing
// each block's Entries/MetadataKeys from its files the same way
// internal/hashgroup does for a freshly scanned block. Locations are
// read from the block's "se list" line.
func Load(path string) ([]model.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gcerrors.NewIOError("load", path, err)
	}
	defer f.Close()

	var blocks []model.Block
	var cur *model.Block

	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := scan.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if cur != nil {
				finalize(cur)
				blocks = append(blocks, *cur)
			}
			dataset, blockName, _ := strings.Cut(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"), "#")
			cur = &model.Block{Dataset: dataset, BlockName: blockName}
			continue
		}
		if cur == nil {
			return nil, gcerrors.NewIOError("load", path, fmt.Errorf("file entry before any [dataset#block] header"))
		}
		if rest, ok := strings.CutPrefix(line, "se list = "); ok {
			cur.LocationOrder = strings.Split(rest, ",")
			cur.Locations = map[string]struct{}{}
			for _, loc := range cur.LocationOrder {
				cur.Locations[loc] = struct{}{}
			}
			continue
		}
		url, rest, found := strings.Cut(line, " = ")
		if !found {
			return nil, gcerrors.NewIOError("load", path, fmt.Errorf("malformed file line %q", line))
		}
		entriesStr, metaJSON, _ := strings.Cut(rest, " ")
		entries, err := strconv.ParseInt(entriesStr, 10, 64)
		if err != nil {
			return nil, gcerrors.NewIOError("load", path, fmt.Errorf("malformed entry count in %q: %w", line, err))
		}
		metadata := map[string]string{}
		if metaJSON != "" {
			if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
				return nil, gcerrors.NewIOError("load", path, fmt.Errorf("malformed metadata in %q: %w", line, err))
			}
		}
		cur.Files = append(cur.Files, model.FileRecord{URL: url, Entries: entries, Metadata: metadata})
	}
	if err := scan.Err(); err != nil {
		return nil, gcerrors.NewIOError("load", path, err)
	}
	if cur != nil {
		finalize(cur)
		blocks = append(blocks, *cur)
	}
	return blocks, nil
}

// finalize derives Entries and MetadataKeys from a block's Files, the
// same invariants internal/hashgroup.Group maintains for freshly built
// blocks (spec §3: "Entries = sum of file entries when all known, else
// -1"; "MetadataKeys is the sorted union of metadata keys").
func finalize(b *model.Block) {
	b.RecomputeEntries()
	seen := map[string]struct{}{}
	for _, f := range b.Files {
		for k := range f.Metadata {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.MetadataKeys = keys
}
