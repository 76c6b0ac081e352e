package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting records and their links
type MeetingRepository interface {
	// Create creates a new meeting record
	Create(ctx context.Context, meeting *entities.MeetingRecord) error

	// FindByID retrieves a meeting by ID, entities.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingRecord, error)

	// SaveActionItems stores the action items of a meeting
	SaveActionItems(ctx context.Context, items []*entities.MeetingActionItem) error

	// FindActionItems retrieves the action items of a meeting
	FindActionItems(ctx context.Context, meetingID uuid.UUID) ([]*entities.MeetingActionItem, error)

	// LinkContact records a contact's participation, ignoring an existing link
	LinkContact(ctx context.Context, meetingID, contactID uuid.UUID) error

	// LinkCompany records a company's participation, ignoring an existing link
	LinkCompany(ctx context.Context, meetingID, companyID uuid.UUID) error

	// FindContactIDs retrieves the contacts linked to a meeting
	FindContactIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error)

	// FindCompanyIDs retrieves the companies linked to a meeting
	FindCompanyIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error)

	// TransferContactLinks moves participation links between contacts, skipping duplicates
	TransferContactLinks(ctx context.Context, fromContactID, toContactID uuid.UUID) (int64, error)

	// TransferCompanyLinks moves participation links between companies, skipping duplicates
	TransferCompanyLinks(ctx context.Context, fromCompanyID, toCompanyID uuid.UUID) (int64, error)

	// ReassignActionItems moves action items from one assignee contact to another
	ReassignActionItems(ctx context.Context, fromContactID, toContactID uuid.UUID) (int64, error)
}

// IngestionJobRepository defines the interface for ingestion job tracking
type IngestionJobRepository interface {
	// Create creates a new job
	Create(ctx context.Context, job *entities.IngestionJob) error

	// Update saves the job's current state
	Update(ctx context.Context, job *entities.IngestionJob) error

	// FindByID retrieves a job by ID, entities.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*entities.IngestionJob, error)
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Append writes an entry
	Append(ctx context.Context, entry *entities.AuditEntry) error

	// FindByEntity retrieves the entries about one entity, oldest first
	FindByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AuditEntry, error)
}
