package model

// ResyncDelta classifies the relationship between an old and a new
// block universe, per (dataset, blockName) pair (spec §3/§4.5).
type ResyncDelta struct {
	Added   []Block
	Missing []Block
	Changed []ChangedBlock
}

// ChangedBlock pairs an old and new view of the same block identity
// whose file list or entry counts differ.
type ChangedBlock struct {
	Old, New Block

	// AddedFiles are URLs present in New but not Old.
	AddedFiles []FileRecord

	// MissingFiles are URLs present in Old but not New.
	MissingFiles []FileRecord

	// Expanded/Shrunk are files present in both with a changed entry
	// count; ΔEntries = new.Entries - old.Entries.
	Expanded []FileDelta
	Shrunk   []FileDelta
}

// FileDelta is one file's entry-count change between two pipeline
// passes.
type FileDelta struct {
	URL        string
	OldEntries int64
	NewEntries int64
}

// DeltaEntries returns NewEntries - OldEntries.
func (d FileDelta) DeltaEntries() int64 {
	return d.NewEntries - d.OldEntries
}
