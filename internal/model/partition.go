package model

// Partition is one split entry: a slice of one block's files assigned
// to one execution unit, with a Skip/Entries event window (spec §3).
// Invariant: Skip + Entries <= sum of entries of the listed files;
// URLs is a subsequence of the owning block's file URLs in order.
type Partition struct {
	Dataset      string
	BlockName    string
	Nickname     string
	DatasetID    int
	URLs         []string
	Entries      int64
	Skip         int64
	Locations    map[string]struct{}
	CommonPrefix string

	// Retired marks a partition whose files have all disappeared
	// during resync; its slot stays in the map (numbers never shift)
	// but carries no live job.
	Retired bool
}

// Empty reports whether the partition has no files left, the
// condition under which the resync engine retires it.
func (p Partition) Empty() bool {
	return len(p.URLs) == 0
}

// PartitionMap is the stable ordered sequence of partitions, indexed by
// partition number. Partition numbers never shift on resync: retired
// partitions are tombstoned in place, new partitions append.
type PartitionMap struct {
	ClassName  string
	Parameters map[string]string
	Partitions []Partition
}

// Len returns the number of partition slots, matching the persisted
// "MaxJobs" metadata field (includes retired slots).
func (m *PartitionMap) Len() int {
	return len(m.Partitions)
}

// Append adds a new partition at the end and returns its assigned,
// never-reused partition number.
func (m *PartitionMap) Append(p Partition) int {
	p.DatasetID = len(m.Partitions)
	m.Partitions = append(m.Partitions, p)
	return p.DatasetID
}

// Get returns the partition at the given stable number.
func (m *PartitionMap) Get(number int) (Partition, bool) {
	if number < 0 || number >= len(m.Partitions) {
		return Partition{}, false
	}
	return m.Partitions[number], true
}

// Set replaces the partition at the given stable number in place,
// preserving its slot (used by the resync engine to shrink/retire a
// partition without reassigning its number).
func (m *PartitionMap) Set(number int, p Partition) bool {
	if number < 0 || number >= len(m.Partitions) {
		return false
	}
	m.Partitions[number] = p
	return true
}
