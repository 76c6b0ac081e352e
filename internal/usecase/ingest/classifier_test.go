package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func TestClassifyInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    entities.InputFormat
	}{
		{"plain text", "Alice: let's ship the report", entities.InputFormatText},
		{"broken json", `{"executive_summary": `, entities.InputFormatText},
		{"json array", `[{"executive_summary": "x"}]`, entities.InputFormatText},
		{"snake summary", `{"executive_summary": "Quarterly sync"}`, entities.InputFormatStructuredExport},
		{"camel summary", `  {"executiveSummary": "Quarterly sync"}  `, entities.InputFormatStructuredExport},
		{"fireflies export", `{"executive_summary": "x", "fireflies_id": "ff-1"}`, entities.InputFormatUnknown},
		{"otter export", `{"executiveSummary": "x", "otter_meeting_id": 7}`, entities.InputFormatUnknown},
		{"vendor tagged", `{"executive_summary": "x", "source_vendor": "plaud"}`, entities.InputFormatUnknown},
		{"other object", `{"notes": "hello"}`, entities.InputFormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyInput(tt.content))
		})
	}
}

func TestParseStructuredExport(t *testing.T) {
	rec, transcript, err := ParseStructuredExport(`{
		"title": "Board prep",
		"date": "2026-03-02",
		"executiveSummary": "Reviewed the deck",
		"participants": ["Dana Lee"],
		"organizations": ["Initech"],
		"action_items": [{"title": "Send deck", "assignee": "Dana Lee", "priority": "high"}]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Board prep", rec.Title)
	assert.Equal(t, "Reviewed the deck", rec.Summary)
	assert.Equal(t, []string{"Initech"}, rec.Organizations)
	require.Len(t, rec.ActionItems, 1)
	assert.Equal(t, entities.PriorityHigh, rec.ActionItems[0].Priority)
	assert.Equal(t, "Reviewed the deck", transcript)

	_, transcript, err = ParseStructuredExport(`{"executive_summary": "s", "transcript": "Dana: hello everyone"}`)
	require.NoError(t, err)
	assert.Equal(t, "Dana: hello everyone", transcript)

	_, _, err = ParseStructuredExport(`{"executive_summary": "   "}`)
	assert.Error(t, err)
}
