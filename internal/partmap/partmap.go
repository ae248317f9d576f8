// Package partmap persists a Splitter's output as a partition map
// archive (spec §4.4 persistence paragraph): a top-level tar holding a
// flat Metadata entry and one gzipped sub-archive per 100 partitions,
// each sub-archive holding a per-partition info/list pair.
//
// Grounded on original_source/python/grid_control/datasets/
// splitter_base.py's DataSplitter.saveState/loadState, which defines
// this exact on-disk shape (datamap.tar, NNNXX.tgz buckets of 100,
// commonPrefix stripping). archive/tar and compress/gzip are used
// directly: the wire format here is dictated by the spec itself, not
// by ecosystem convention, and no example repo in the corpus carries a
// tar library to reuse.
package partmap

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// bucketSize is the number of partitions grouped into one NNNXX.tgz
// sub-archive.
const bucketSize = 100

// Save stages the full map to a temp file and renames it into place on
// success, so path is never left partially written (spec §7: "writers
// stage to a temp name and rename on success").
func Save(m *model.PartitionMap, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return gcerrors.NewIOError("save", path, err)
	}

	if err := writeArchive(f, m); err != nil {
		f.Close()
		os.Remove(tmp)
		return gcerrors.NewIOError("save", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return gcerrors.NewIOError("save", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return gcerrors.NewIOError("save", path, err)
	}
	return nil
}

func writeArchive(w io.Writer, m *model.PartitionMap) error {
	tw := tar.NewWriter(w)

	metaKV := map[string]string{
		"ClassName": m.ClassName,
		"MaxJobs":   encodeInt(len(m.Partitions)),
	}
	for k, v := range m.Parameters {
		metaKV[k] = v
	}
	if err := addTarFile(tw, "Metadata", []byte(encodeDict(metaKV))); err != nil {
		return err
	}

	for start := 0; start < len(m.Partitions); start += bucketSize {
		end := start + bucketSize
		if end > len(m.Partitions) {
			end = len(m.Partitions)
		}
		bucketData, err := buildBucketTar(m.Partitions[start:end], start)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%03dXX.tgz", start/bucketSize)
		if err := addTarFile(tw, name, bucketData); err != nil {
			return err
		}
	}
	return tw.Close()
}

func buildBucketTar(partitions []model.Partition, startIndex int) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for i, p := range partitions {
		num := startIndex + i
		info, list := encodePartition(p)
		if err := addTarFile(tw, fmt.Sprintf("%05d/info", num), []byte(info)); err != nil {
			return nil, err
		}
		if err := addTarFile(tw, fmt.Sprintf("%05d/list", num), []byte(list)); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addTarFile(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(data))}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// Map is a random-access view over a persisted partition map: reading
// partition N decompresses only the bucket containing it, and the most
// recently read bucket is cached (spec: "random reads decompress only
// the relevant sub-archive"), grounded on loadState's JobFileTarAdaptor
// cache-by-bucket behaviour.
type Map struct {
	path       string
	className  string
	parameters map[string]string
	maxJobs    int
	buckets    map[string][]byte

	mu           sync.Mutex
	cacheBucket  int
	cacheEntries map[int]model.Partition
}

// Load opens path's archive and indexes its members without
// decompressing any partition bucket.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gcerrors.NewIOError("load", path, err)
	}
	defer f.Close()

	m := &Map{path: path, buckets: map[string][]byte{}, cacheBucket: -1}
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, gcerrors.NewIOError("load", path, err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, gcerrors.NewIOError("load", path, err)
		}
		if hdr.Name == "Metadata" {
			kv := decodeDict(string(data))
			m.maxJobs = decodeInt(kv["MaxJobs"])
			m.className = kv["ClassName"]
			delete(kv, "MaxJobs")
			delete(kv, "ClassName")
			m.parameters = kv
			continue
		}
		m.buckets[hdr.Name] = data
	}
	return m, nil
}

// Len returns the number of partition slots, including retired ones.
func (m *Map) Len() int { return m.maxJobs }

func (m *Map) ClassName() string             { return m.className }
func (m *Map) Parameters() map[string]string { return m.parameters }

// Get returns the partition at the given stable number, decompressing
// its bucket if it isn't the cached one.
func (m *Map) Get(number int) (model.Partition, error) {
	if number < 0 || number >= m.maxJobs {
		return model.Partition{}, fmt.Errorf("partition %d out of range for %d slots", number, m.maxJobs)
	}
	bucket := number / bucketSize

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cacheBucket != bucket {
		data, ok := m.buckets[fmt.Sprintf("%03dXX.tgz", bucket)]
		if !ok {
			return model.Partition{}, fmt.Errorf("missing bucket %d in %s", bucket, m.path)
		}
		entries, err := decodeBucketTar(data, bucket*bucketSize)
		if err != nil {
			return model.Partition{}, gcerrors.NewIOError("load", m.path, err)
		}
		m.cacheBucket = bucket
		m.cacheEntries = entries
	}
	p, ok := m.cacheEntries[number]
	if !ok {
		return model.Partition{}, fmt.Errorf("partition %d not found in bucket %d", number, bucket)
	}
	return p, nil
}

// All decodes every bucket and returns the complete in-memory map, for
// callers (the resync engine) that need the whole old map at once
// rather than random single-partition access.
func (m *Map) All() (*model.PartitionMap, error) {
	out := &model.PartitionMap{
		ClassName:  m.className,
		Parameters: m.parameters,
		Partitions: make([]model.Partition, m.maxJobs),
	}
	for name, data := range m.buckets {
		start, err := bucketStart(name)
		if err != nil {
			return nil, err
		}
		entries, err := decodeBucketTar(data, start)
		if err != nil {
			return nil, gcerrors.NewIOError("load", m.path, err)
		}
		for num, p := range entries {
			out.Partitions[num] = p
		}
	}
	return out, nil
}

func bucketStart(name string) (int, error) {
	base := strings.TrimSuffix(name, "XX.tgz")
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0, fmt.Errorf("malformed bucket name %q", name)
	}
	return n * bucketSize, nil
}

func decodeBucketTar(data []byte, startIndex int) (map[int]model.Partition, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	tr := tar.NewReader(gr)

	infoByNum := map[int]string{}
	listByNum := map[int]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		dir, kind, found := strings.Cut(hdr.Name, "/")
		if !found {
			continue
		}
		num, err := strconv.Atoi(dir)
		if err != nil {
			continue
		}
		buf, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "info":
			infoByNum[num] = string(buf)
		case "list":
			listByNum[num] = string(buf)
		}
	}
	_ = startIndex

	out := make(map[int]model.Partition, len(infoByNum))
	for num, info := range infoByNum {
		out[num] = decodePartition(info, listByNum[num])
	}
	return out, nil
}

// Append loads path's current map, appends newPartitions (numbering
// them densely from the current length), and rewrites the whole
// archive atomically. Functionally equivalent to the original's
// true in-place tar append, but satisfies the "never partially
// overwritten" invariant the original's append-in-place mode did not
// provide.
func Append(path string, newPartitions []model.Partition) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	full, err := m.All()
	if err != nil {
		return err
	}
	start := len(full.Partitions)
	for i := range newPartitions {
		newPartitions[i].DatasetID = start + i
	}
	full.Partitions = append(full.Partitions, newPartitions...)
	return Save(full, path)
}
