package ingest

import (
	"encoding/json"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// summaryKeys mark our own export format
var summaryKeys = []string{"executive_summary", "executiveSummary"}

// vendorMarkers identify exports of third-party note takers, which share the
// summary key but not the rest of the layout
var vendorMarkers = []string{"fireflies_id", "otter_meeting_id", "source_vendor"}

// ClassifyInput decides how textual content should be read.
// Non-JSON is Text; a JSON object carrying a summary key and no vendor marker
// is StructuredExport; any other JSON object is Unknown.
func ClassifyInput(content string) entities.InputFormat {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return entities.InputFormatText
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return entities.InputFormatText
	}

	for _, marker := range vendorMarkers {
		if _, ok := doc[marker]; ok {
			return entities.InputFormatUnknown
		}
	}
	for _, key := range summaryKeys {
		if _, ok := doc[key]; ok {
			return entities.InputFormatStructuredExport
		}
	}
	return entities.InputFormatUnknown
}
