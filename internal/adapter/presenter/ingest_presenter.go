package presenter

import (
	"github.com/google/uuid"

	ingestDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/ingest"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/ingest"
)

// ToIngestResponse converts an upload result
func ToIngestResponse(res ingest.UploadResult) *ingestDTO.IngestResponse {
	resp := &ingestDTO.IngestResponse{
		Success:  res.Success,
		Reason:   res.Reason,
		Degraded: res.Degraded,
		Linked:   res.Linked,
		Staged:   res.Staged,
		Created:  res.Created,
	}
	if res.RecordID != nil {
		resp.RecordID = res.RecordID.String()
	}
	if res.JobID != uuid.Nil {
		resp.JobID = res.JobID.String()
	}
	return resp
}

// ToJobResponse converts an ingestion job entity
func ToJobResponse(j *entities.IngestionJob) *ingestDTO.JobResponse {
	if j == nil {
		return nil
	}
	return &ingestDTO.JobResponse{
		ID:          j.ID.String(),
		Status:      string(j.Status),
		InputKind:   string(j.InputKind),
		SourceRef:   j.SourceRef,
		Degraded:    j.Degraded,
		RecordID:    idString(j.RecordID),
		LastError:   j.LastError,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}
