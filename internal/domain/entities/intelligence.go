package entities

import "fmt"

// MeetingClassification categorizes who the meeting was with
type MeetingClassification string

const (
	ClassificationInternal MeetingClassification = "internal"
	ClassificationClient   MeetingClassification = "client"
	ClassificationInvestor MeetingClassification = "investor"
	ClassificationPartner  MeetingClassification = "partner"
	ClassificationVendor   MeetingClassification = "vendor"
	ClassificationOther    MeetingClassification = "other"
)

// MeetingClassifications lists every accepted classification value
var MeetingClassifications = []MeetingClassification{
	ClassificationInternal,
	ClassificationClient,
	ClassificationInvestor,
	ClassificationPartner,
	ClassificationVendor,
	ClassificationOther,
}

// IsValid checks if the classification is one of the known values
func (c MeetingClassification) IsValid() bool {
	for _, known := range MeetingClassifications {
		if c == known {
			return true
		}
	}
	return false
}

// Priority of an action item
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// UnassignedAssignee is used when the model could not name an owner
const UnassignedAssignee = "Unassigned"

// MaxActionItemTitle is the longest action item title kept, in runes
const MaxActionItemTitle = 80

// IntelligenceRecord is the structured result of analysing one meeting
type IntelligenceRecord struct {
	Title          string                `json:"title" validate:"max=500"`
	Date           string                `json:"date"` // YYYY-MM-DD
	PrimaryLead    string                `json:"primary_lead"`
	Participants   []string              `json:"participants"`
	Organizations  []string              `json:"organizations"`
	Summary        string                `json:"summary" validate:"required"`
	Highlights     []string              `json:"highlights"`
	Opportunities  []string              `json:"opportunities"`
	Risks          []string              `json:"risks"`
	KeyQuotes      []string              `json:"key_quotes"`
	Sectors        []string              `json:"sectors"`
	Jurisdictions  []string              `json:"jurisdictions"`
	Classification MeetingClassification `json:"classification"`
	ActionItems    []ActionItem          `json:"action_items" validate:"dive"`
}

// ActionItem is a follow-up extracted from the meeting
type ActionItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Assignee    string   `json:"assignee"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"` // YYYY-MM-DD
}

// ExtractionResult is either ExtractionSuccess or ExtractionDegraded.
// Callers switch on the concrete type.
type ExtractionResult interface {
	Intelligence() IntelligenceRecord
	Degraded() bool
	extractionResult()
}

// ExtractionSuccess carries a record produced and validated by the model
type ExtractionSuccess struct {
	Record IntelligenceRecord
}

func (s ExtractionSuccess) Intelligence() IntelligenceRecord { return s.Record }
func (s ExtractionSuccess) Degraded() bool { return false }
func (ExtractionSuccess) extractionResult() {}

// ExtractionDegraded carries the fallback record built when extraction failed
type ExtractionDegraded struct {
	Record IntelligenceRecord
	Cause  error
}

func (d ExtractionDegraded) Intelligence() IntelligenceRecord { return d.Record }
func (d ExtractionDegraded) Degraded() bool { return true }
func (ExtractionDegraded) extractionResult() {}

// Err returns the cause wrapped in ErrExtractionDegraded
func (d ExtractionDegraded) Err() error {
	if d.Cause == nil {
		return ErrExtractionDegraded
	}
	return fmt.Errorf("%w: %v", ErrExtractionDegraded, d.Cause)
}
