package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SuggestionType is the kind of change a reviewer is asked to accept
type SuggestionType string

const (
	SuggestionCompanyLink       SuggestionType = "companyLink"
	SuggestionEnrichment        SuggestionType = "enrichment"
	SuggestionCompanyEnrichment SuggestionType = "companyEnrichment"
)

// IsValid checks if the suggestion type is known
func (t SuggestionType) IsValid() bool {
	switch t {
	case SuggestionCompanyLink, SuggestionEnrichment, SuggestionCompanyEnrichment:
		return true
	}
	return false
}

// SuggestionStatus is the review state of a suggestion
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// PendingSuggestion is a staged, human-reviewable change.
// SuggestedData is never modified after creation.
type PendingSuggestion struct {
	ID                 uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Type               SuggestionType    `json:"type" gorm:"type:varchar(32);not null"`
	TargetContactID    *uuid.UUID        `json:"target_contact_id,omitempty" gorm:"type:uuid;index"`
	TargetCompanyID    *uuid.UUID        `json:"target_company_id,omitempty" gorm:"type:uuid;index"`
	SuggestedCompanyID *uuid.UUID        `json:"suggested_company_id,omitempty" gorm:"type:uuid"`
	TargetKey          string            `json:"-" gorm:"type:varchar(80);not null"`
	SuggestedData      datatypes.JSONMap `json:"suggested_data" gorm:"type:jsonb"`
	Reason             string            `json:"reason" gorm:"type:text"`
	Confidence         int               `json:"confidence" gorm:"not null"`
	Status             SuggestionStatus  `json:"status" gorm:"type:varchar(20);not null;index"`
	ReviewedBy         *string           `json:"reviewed_by,omitempty" gorm:"type:varchar(255)"`
	ReviewedAt         *time.Time        `json:"reviewed_at,omitempty"`
	SourceMeetingID    *uuid.UUID        `json:"source_meeting_id,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PendingSuggestion) TableName() string {
	return "pending_suggestions"
}

// TargetKey builds the dedupe key for a suggestion target
func TargetKey(ownerType OwnerType, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", ownerType, id)
}

// Target returns the owner type and id the suggestion applies to
func (s *PendingSuggestion) Target() (OwnerType, uuid.UUID) {
	if s.TargetContactID != nil {
		return OwnerContact, *s.TargetContactID
	}
	if s.TargetCompanyID != nil {
		return OwnerCompany, *s.TargetCompanyID
	}
	return "", uuid.Nil
}

// IsPending checks if the suggestion still awaits review
func (s *PendingSuggestion) IsPending() bool {
	return s.Status == SuggestionPending
}

// SuggestedString reads a string field from SuggestedData
func (s *PendingSuggestion) SuggestedString(key string) string {
	if s.SuggestedData == nil {
		return ""
	}
	v, ok := s.SuggestedData[key].(string)
	if !ok {
		return ""
	}
	return v
}
