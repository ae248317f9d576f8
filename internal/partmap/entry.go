package partmap

import (
	"sort"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// encodePartition renders a partition's info/list pair, stripping a
// common directory prefix from the url list when it exceeds 6 bytes
// (spec: "When the common directory prefix of the url list exceeds 6
// bytes, it is stored once as commonPrefix and stripped from each
// line"), grounded on saveJobMapping's commonprefix computation.
func encodePartition(p model.Partition) (info string, list string) {
	kv := map[string]string{
		"Dataset":   p.Dataset,
		"BlockName": p.BlockName,
		"Nickname":  p.Nickname,
		"DatasetID": encodeInt(p.DatasetID),
		"Entries":   encodeInt64(p.Entries),
		"Skip":      encodeInt64(p.Skip),
		"Retired":   encodeBool(p.Retired),
	}
	if locs := sortedLocations(p.Locations); locs != nil {
		kv["SEList"] = strings.Join(locs, ",")
	}

	urls := p.URLs
	prefix := commonDirPrefix(urls)
	if len(prefix) > 6 {
		kv["CommonPrefix"] = prefix
		stripped := make([]string, len(urls))
		for i, u := range urls {
			stripped[i] = strings.TrimPrefix(u, prefix+"/")
		}
		urls = stripped
	}
	return encodeDict(kv), strings.Join(urls, "\n")
}

// decodePartition is encodePartition's inverse.
func decodePartition(info, list string) model.Partition {
	kv := decodeDict(info)
	p := model.Partition{
		Dataset:   kv["Dataset"],
		BlockName: kv["BlockName"],
		Nickname:  kv["Nickname"],
		DatasetID: decodeInt(kv["DatasetID"]),
		Entries:   decodeInt64(kv["Entries"]),
		Skip:      decodeInt64(kv["Skip"]),
		Retired:   decodeBool(kv["Retired"]),
	}
	if locStr, ok := kv["SEList"]; ok {
		p.Locations = map[string]struct{}{}
		if locStr != "" {
			for _, l := range strings.Split(locStr, ",") {
				p.Locations[l] = struct{}{}
			}
		}
	}

	var urls []string
	if list != "" {
		urls = strings.Split(list, "\n")
	}
	if prefix, ok := kv["CommonPrefix"]; ok {
		p.CommonPrefix = prefix
		for i, u := range urls {
			urls[i] = prefix + "/" + u
		}
	}
	p.URLs = urls
	return p
}

func sortedLocations(m map[string]struct{}) []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// commonDirPrefix returns the longest common directory prefix (ending
// just before a '/') shared by every url, or "" if there's none. A
// single url yields its own directory.
func commonDirPrefix(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	prefix := urls[0]
	for _, u := range urls[1:] {
		prefix = commonString(prefix, u)
		if prefix == "" {
			break
		}
	}
	if idx := strings.LastIndexByte(prefix, '/'); idx >= 0 {
		return prefix[:idx]
	}
	return ""
}

func commonString(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
