package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// exportDocument is the structured export layout. Summary may arrive under
// either spelling.
type exportDocument struct {
	Title                 string                         `json:"title"`
	Date                  string                         `json:"date"`
	ExecutiveSummary      string                         `json:"executive_summary"`
	ExecutiveSummaryCamel string                         `json:"executiveSummary"`
	PrimaryLead           string                         `json:"primary_lead"`
	Participants          []string                       `json:"participants"`
	Organizations         []string                       `json:"organizations"`
	Highlights            []string                       `json:"highlights"`
	Opportunities         []string                       `json:"opportunities"`
	Risks                 []string                       `json:"risks"`
	KeyQuotes             []string                       `json:"key_quotes"`
	Sectors               []string                       `json:"sectors"`
	Jurisdictions         []string                       `json:"jurisdictions"`
	Classification        entities.MeetingClassification `json:"classification"`
	ActionItems           []entities.ActionItem          `json:"action_items"`
	Transcript            string                         `json:"transcript"`
}

var errEmptySummary = errors.New("export has no summary")

// ParseStructuredExport reads an export document into a record.
// The returned transcript is the embedded transcript, or the summary when absent.
func ParseStructuredExport(content string) (entities.IntelligenceRecord, string, error) {
	var doc exportDocument
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &doc); err != nil {
		return entities.IntelligenceRecord{}, "", fmt.Errorf("failed to parse structured export: %w", err)
	}

	summary := strings.TrimSpace(doc.ExecutiveSummary)
	if summary == "" {
		summary = strings.TrimSpace(doc.ExecutiveSummaryCamel)
	}
	if summary == "" {
		return entities.IntelligenceRecord{}, "", errEmptySummary
	}

	rec := entities.IntelligenceRecord{
		Title:          strings.TrimSpace(doc.Title),
		Date:           strings.TrimSpace(doc.Date),
		PrimaryLead:    strings.TrimSpace(doc.PrimaryLead),
		Participants:   doc.Participants,
		Organizations:  doc.Organizations,
		Summary:        summary,
		Highlights:     doc.Highlights,
		Opportunities:  doc.Opportunities,
		Risks:          doc.Risks,
		KeyQuotes:      doc.KeyQuotes,
		Sectors:        doc.Sectors,
		Jurisdictions:  doc.Jurisdictions,
		Classification: doc.Classification,
		ActionItems:    doc.ActionItems,
	}

	transcript := strings.TrimSpace(doc.Transcript)
	if transcript == "" {
		transcript = summary
	}
	return rec, transcript, nil
}
