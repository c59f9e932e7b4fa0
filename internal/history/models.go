package history

import "time"

const SchemaVersion = 1

// Snapshot captures the outcome of one scan for trend reporting.
type Snapshot struct {
	ScanID          string    `json:"scan_id"`
	SchemaVersion   int       `json:"schema_version"`
	Timestamp       time.Time `json:"timestamp"`
	FileCount       int       `json:"file_count"`
	IndexEntryCount int       `json:"index_entry_count"`
	ReferenceCount  int       `json:"reference_count"`
	ResolvedCount   int       `json:"resolved_count"`
	UnresolvedCount int       `json:"unresolved_count"`
	CycleCount      int       `json:"cycle_count"`
	DurationMillis  int64     `json:"duration_millis"`
}
