package ingest

import "time"

// IngestResponse reports the outcome of one upload
type IngestResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"record_id,omitempty"`
	JobID    string `json:"job_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Degraded bool   `json:"degraded"`
	Linked   int    `json:"linked"`
	Staged   int    `json:"staged"`
	Created  int    `json:"created"`
}

// JobResponse is an ingestion job snapshot
type JobResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	InputKind   string     `json:"input_kind"`
	SourceRef   *string    `json:"source_ref,omitempty"`
	Degraded    bool       `json:"degraded"`
	RecordID    *string    `json:"record_id,omitempty"`
	LastError   *string    `json:"last_error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
