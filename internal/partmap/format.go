package partmap

import (
	"sort"
	"strconv"
	"strings"
)

// encodeDict renders a flat key/value map as "key = value" lines,
// sorted by key for determinism, mirroring original_source's
// utils.DictFormat used for the Metadata and per-partition info
// entries in datamap.tar.
func encodeDict(kv map[string]string) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(kv[k])
		b.WriteByte('\n')
	}
	return b.String()
}

// decodeDict parses "key = value" lines back into a map.
func decodeDict(data string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return out
}

func encodeBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func decodeBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}

func encodeInt(n int) string      { return strconv.Itoa(n) }
func encodeInt64(n int64) string  { return strconv.FormatInt(n, 10) }
func decodeInt(s string) int      { n, _ := strconv.Atoi(s); return n }
func decodeInt64(s string) int64  { n, _ := strconv.ParseInt(s, 10, 64); return n }
