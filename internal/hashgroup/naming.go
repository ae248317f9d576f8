package hashgroup

import (
	"strings"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// substitute replaces every "@KEY@" placeholder in pattern with
// metadata[KEY], mirroring original_source's replace_with_dict helper
// used by _get_dataset_name / _get_block_name.
func substitute(pattern string, metadata map[string]string) string {
	if !strings.Contains(pattern, "@") {
		return pattern
	}
	var b strings.Builder
	rest := pattern
	for {
		start := strings.IndexByte(rest, '@')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+1:], '@')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + 1
		key := rest[start+1 : end]
		b.WriteString(rest[:start])
		if val, ok := metadata[key]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	return b.String()
}

// datasetName resolves a dataset's name from its pattern (or a default
// derived from the hash / SE_OUTPUT_BASE metadata), per
// _get_dataset_name.
func datasetName(pattern string, metadata map[string]string, hash model.Hash128) string {
	if pattern != "" {
		return substitute(pattern, metadata)
	}
	if base, ok := metadata["SE_OUTPUT_BASE"]; ok {
		return "/PRIVATE/" + base
	}
	return "/PRIVATE/Dataset_" + hash.String()
}

// blockName resolves a block's name from its pattern (or the hash's
// short form), per _get_block_name.
func blockName(pattern string, metadata map[string]string, hash model.Hash128) string {
	if pattern != "" {
		return substitute(pattern, metadata)
	}
	return hash.Short()
}
