package entities

import (
	"time"

	"github.com/google/uuid"
)

// IngestionJobStatus represents the status of an ingestion job
type IngestionJobStatus string

const (
	IngestionJobPending      IngestionJobStatus = "pending"      // Accepted, not started
	IngestionJobTranscribing IngestionJobStatus = "transcribing" // Waiting on speech-to-text
	IngestionJobExtracting   IngestionJobStatus = "extracting"   // Waiting on the language model
	IngestionJobResolving    IngestionJobStatus = "resolving"    // Matching people and organizations
	IngestionJobCompleted    IngestionJobStatus = "completed"    // Record persisted
	IngestionJobFailed       IngestionJobStatus = "failed"       // Stopped before a record was persisted
)

// IngestionJob tracks one upload through the pipeline
type IngestionJob struct {
	ID        uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID   string             `json:"actor_id" gorm:"type:varchar(255);index"`
	InputKind InputKind          `json:"input_kind" gorm:"type:varchar(32);not null"`
	SourceRef *string            `json:"source_ref,omitempty" gorm:"type:text"` // audio URL for audioRef uploads
	Status    IngestionJobStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Degraded  bool               `json:"degraded" gorm:"not null"`
	RecordID  *uuid.UUID         `json:"record_id,omitempty" gorm:"type:uuid"`
	LastError *string            `json:"last_error,omitempty" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (IngestionJob) TableName() string {
	return "ingestion_jobs"
}

// NewIngestionJob creates a new ingestion job
func NewIngestionJob(actorID string, kind InputKind) *IngestionJob {
	now := time.Now()
	return &IngestionJob{
		ID:        uuid.New(),
		ActorID:   actorID,
		InputKind: kind,
		Status:    IngestionJobPending,
		StartedAt: &now,
	}
}

// IsFinal checks if the job reached a terminal status
func (j *IngestionJob) IsFinal() bool {
	return j.Status == IngestionJobCompleted || j.Status == IngestionJobFailed
}

// MarkAsTranscribing marks job as waiting on speech-to-text
func (j *IngestionJob) MarkAsTranscribing(sourceRef string) {
	j.Status = IngestionJobTranscribing
	j.SourceRef = &sourceRef
}

// MarkAsExtracting marks job as waiting on the language model
func (j *IngestionJob) MarkAsExtracting() {
	j.Status = IngestionJobExtracting
}

// MarkAsResolving marks job as matching entities
func (j *IngestionJob) MarkAsResolving(degraded bool) {
	j.Status = IngestionJobResolving
	j.Degraded = degraded
}

// MarkAsCompleted marks job as completed with the persisted record
func (j *IngestionJob) MarkAsCompleted(recordID uuid.UUID) {
	j.Status = IngestionJobCompleted
	j.RecordID = &recordID
	now := time.Now()
	j.CompletedAt = &now
}

// MarkAsFailed marks job as failed with error message
func (j *IngestionJob) MarkAsFailed(errMsg string) {
	j.Status = IngestionJobFailed
	j.LastError = &errMsg
	now := time.Now()
	j.CompletedAt = &now
}
