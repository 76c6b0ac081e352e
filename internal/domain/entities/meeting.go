package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingRecord is a persisted IntelligenceRecord with its transcript
type MeetingRecord struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string                      `json:"title" gorm:"type:varchar(500);not null"`
	MeetingDate    time.Time                   `json:"meeting_date" gorm:"type:date;not null;index"`
	PrimaryLead    string                      `json:"primary_lead" gorm:"type:varchar(255)"`
	Summary        string                      `json:"summary" gorm:"type:text;not null"`
	Participants   datatypes.JSONSlice[string] `json:"participants" gorm:"type:jsonb"`
	Organizations  datatypes.JSONSlice[string] `json:"organizations" gorm:"type:jsonb"`
	Highlights     datatypes.JSONSlice[string] `json:"highlights" gorm:"type:jsonb"`
	Opportunities  datatypes.JSONSlice[string] `json:"opportunities" gorm:"type:jsonb"`
	Risks          datatypes.JSONSlice[string] `json:"risks" gorm:"type:jsonb"`
	KeyQuotes      datatypes.JSONSlice[string] `json:"key_quotes" gorm:"type:jsonb"`
	Sectors        datatypes.JSONSlice[string] `json:"sectors" gorm:"type:jsonb"`
	Jurisdictions  datatypes.JSONSlice[string] `json:"jurisdictions" gorm:"type:jsonb"`
	Classification MeetingClassification       `json:"classification" gorm:"type:varchar(20);not null"`
	Transcript     string                      `json:"-" gorm:"type:text"`
	SourceKind     InputKind                   `json:"source_kind" gorm:"type:varchar(32);not null"`
	Degraded       bool                        `json:"degraded" gorm:"not null"`
	CreatedBy      string                      `json:"created_by" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingRecord) TableName() string {
	return "meetings"
}

// NewMeetingRecord builds a meeting row from an intelligence record
func NewMeetingRecord(rec IntelligenceRecord, transcript string, kind InputKind, degraded bool, actor string) *MeetingRecord {
	date, err := time.Parse(time.DateOnly, rec.Date)
	if err != nil {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return &MeetingRecord{
		ID:             uuid.New(),
		Title:          rec.Title,
		MeetingDate:    date,
		PrimaryLead:    rec.PrimaryLead,
		Summary:        rec.Summary,
		Participants:   datatypes.NewJSONSlice(nonNil(rec.Participants)),
		Organizations:  datatypes.NewJSONSlice(nonNil(rec.Organizations)),
		Highlights:     datatypes.NewJSONSlice(nonNil(rec.Highlights)),
		Opportunities:  datatypes.NewJSONSlice(nonNil(rec.Opportunities)),
		Risks:          datatypes.NewJSONSlice(nonNil(rec.Risks)),
		KeyQuotes:      datatypes.NewJSONSlice(nonNil(rec.KeyQuotes)),
		Sectors:        datatypes.NewJSONSlice(nonNil(rec.Sectors)),
		Jurisdictions:  datatypes.NewJSONSlice(nonNil(rec.Jurisdictions)),
		Classification: rec.Classification,
		Transcript:     transcript,
		SourceKind:     kind,
		Degraded:       degraded,
		CreatedBy:      actor,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// MeetingActionItem is a persisted action item of a meeting
type MeetingActionItem struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID         uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Title             string     `json:"title" gorm:"type:varchar(80);not null"`
	Description       string     `json:"description" gorm:"type:text"`
	Assignee          string     `json:"assignee" gorm:"type:varchar(255);not null"`
	AssigneeContactID *uuid.UUID `json:"assignee_contact_id,omitempty" gorm:"type:uuid;index"`
	Priority          Priority   `json:"priority" gorm:"type:varchar(10);not null"`
	DueDate           *time.Time `json:"due_date,omitempty" gorm:"type:date"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (MeetingActionItem) TableName() string {
	return "meeting_action_items"
}

// NewMeetingActionItem creates a persisted action item
func NewMeetingActionItem(meetingID uuid.UUID, item ActionItem) *MeetingActionItem {
	out := &MeetingActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Title:       item.Title,
		Description: item.Description,
		Assignee:    item.Assignee,
		Priority:    item.Priority,
	}
	if due, err := time.Parse(time.DateOnly, item.DueDate); err == nil {
		out.DueDate = &due
	}
	return out
}

// MeetingContact links a contact to a meeting it took part in
type MeetingContact struct {
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;primaryKey"`
	ContactID uuid.UUID `json:"contact_id" gorm:"type:uuid;primaryKey"`
}

// TableName specifies the table name for GORM
func (MeetingContact) TableName() string {
	return "meeting_contacts"
}

// MeetingCompany links a company to a meeting it took part in
type MeetingCompany struct {
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `json:"company_id" gorm:"type:uuid;primaryKey"`
}

// TableName specifies the table name for GORM
func (MeetingCompany) TableName() string {
	return "meeting_companies"
}
