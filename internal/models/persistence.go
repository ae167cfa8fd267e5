package models

const SnapshotVersion = 1

type SnapshotEntry struct {
	ID     RecordID `json:"id"`
	Record Record   `json:"record"`
}

// PopulationSnapshot is the on-disk envelope for the peer population.
type PopulationSnapshot struct {
	Version int             `json:"version"`
	Records []SnapshotEntry `json:"records"`
}
