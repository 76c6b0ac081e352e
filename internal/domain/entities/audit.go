package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditAction names a recorded state change
type AuditAction string

const (
	AuditSuggestionApproved AuditAction = "suggestion.approved"
	AuditSuggestionRejected AuditAction = "suggestion.rejected"
	AuditContactMerged      AuditAction = "contact.merged"
	AuditCompanyMerged      AuditAction = "company.merged"
	AuditAliasAdded         AuditAction = "alias.added"
	AuditRecordIngested     AuditAction = "record.ingested"
)

// AuditEntry is one append-only audit log row
type AuditEntry struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Action     AuditAction       `json:"action" gorm:"type:varchar(64);not null;index"`
	Actor      string            `json:"actor" gorm:"type:varchar(255);not null"`
	EntityType string            `json:"entity_type" gorm:"type:varchar(32);not null"`
	EntityID   string            `json:"entity_id" gorm:"type:varchar(64);not null;index"`
	RelatedID  string            `json:"related_id,omitempty" gorm:"type:varchar(64)"`
	Details    datatypes.JSONMap `json:"details,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// NewAuditEntry creates an audit entry
func NewAuditEntry(action AuditAction, actor, entityType, entityID string) *AuditEntry {
	if actor == "" {
		actor = "system"
	}
	return &AuditEntry{
		ID:         uuid.New(),
		Action:     action,
		Actor:      actor,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    datatypes.JSONMap{},
	}
}
