package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

type fakeModel struct {
	content  string
	err      error
	calls    int
	messages []ai.Message
	schema   *ai.ResponseSchema
}

func (f *fakeModel) Invoke(_ context.Context, messages []ai.Message, schema *ai.ResponseSchema) (string, error) {
	f.calls++
	f.messages = messages
	f.schema = schema
	return f.content, f.err
}

var submitted = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

// modelOutput renders a record the way a schema-following model would
func modelOutput(t *testing.T, rec entities.IntelligenceRecord) string {
	t.Helper()
	for _, list := range []*[]string{
		&rec.Participants, &rec.Organizations, &rec.Highlights, &rec.Opportunities,
		&rec.Risks, &rec.KeyQuotes, &rec.Sectors, &rec.Jurisdictions,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	if rec.ActionItems == nil {
		rec.ActionItems = []entities.ActionItem{}
	}
	for i := range rec.ActionItems {
		if rec.ActionItems[i].Priority == "" {
			rec.ActionItems[i].Priority = entities.PriorityMedium
		}
	}
	if rec.Classification == "" {
		rec.Classification = entities.ClassificationInternal
	}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	return string(b)
}

func newTestExtractor(model ai.LanguageModel) *Extractor {
	e := NewExtractor(model, 0, zap.NewNop())
	e.now = func() time.Time { return submitted }
	return e
}

func TestExtract_Success(t *testing.T) {
	longTitle := strings.Repeat("x", 120)
	model := &fakeModel{content: modelOutput(t, entities.IntelligenceRecord{
		Title:         "Q3 planning",
		Summary:       "Agreed to ship the Q3 report.",
		Participants:  []string{"Alice", "Bob", "bob "},
		Organizations: []string{"Acme"},
		ActionItems: []entities.ActionItem{
			{Title: longTitle, Assignee: "", Priority: entities.PriorityHigh, DueDate: "someday"},
			{Title: "Book room", Assignee: "Alice", Priority: entities.PriorityLow, DueDate: "2026-05-10"},
		},
	})}

	result := newTestExtractor(model).Extract(context.Background(), "Alice: ship it. Bob: on it.", Hints{Date: "2026-05-01"})
	require.IsType(t, entities.ExtractionSuccess{}, result)
	assert.False(t, result.Degraded())

	rec := result.Intelligence()
	assert.Equal(t, "Q3 planning", rec.Title)
	assert.Equal(t, "2026-05-01", rec.Date)
	assert.Equal(t, []string{"Alice", "Bob"}, rec.Participants)
	require.Len(t, rec.ActionItems, 2)

	first := rec.ActionItems[0]
	assert.Len(t, []rune(first.Title), entities.MaxActionItemTitle)
	assert.Equal(t, entities.UnassignedAssignee, first.Assignee)
	assert.Equal(t, "2026-05-06", first.DueDate)
	assert.Equal(t, entities.PriorityHigh, first.Priority)

	assert.Equal(t, "2026-05-10", rec.ActionItems[1].DueDate)

	require.Equal(t, 1, model.calls)
	require.NotNil(t, model.schema)
	assert.Equal(t, false, model.schema.Schema["additionalProperties"])
	assert.Equal(t, ai.RoleSystem, model.messages[0].Role)
	assert.Contains(t, model.messages[1].Content, "Meeting date: 2026-05-01")
}

func TestExtract_AcceptsFencedJSON(t *testing.T) {
	out := modelOutput(t, entities.IntelligenceRecord{Title: "Sync", Summary: "Short sync."})
	model := &fakeModel{content: "```json\n" + out + "\n```"}
	result := newTestExtractor(model).Extract(context.Background(), "Alice: short sync today", Hints{})
	assert.False(t, result.Degraded())
}

func TestExtract_TruncatesTranscript(t *testing.T) {
	model := &fakeModel{err: errors.New("boom")}
	transcript := strings.Repeat("a", DefaultTruncateLength+5000)
	newTestExtractor(model).Extract(context.Background(), transcript, Hints{})

	parts := strings.SplitN(model.messages[1].Content, "Transcript:\n", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[1], DefaultTruncateLength)
}

func TestExtract_DegradesOnFailure(t *testing.T) {
	valid := modelOutput(t, entities.IntelligenceRecord{Title: "Sync", Summary: "Fine."})

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(valid), &doc))
	doc["sentiment"] = "positive"
	extraKey, _ := json.Marshal(doc)
	delete(doc, "sentiment")
	delete(doc, "risks")
	missingKey, _ := json.Marshal(doc)

	cases := map[string]*fakeModel{
		"model error":   {err: errors.New("503 from provider")},
		"not json":      {content: "Sure! Here is the summary."},
		"extra key":     {content: string(extraKey)},
		"missing key":   {content: string(missingKey)},
		"empty summary": {content: modelOutput(t, entities.IntelligenceRecord{Title: "Sync", Summary: "  "})},
	}
	transcript := strings.Repeat("Bob: numbers look fine. ", 20)

	for name, model := range cases {
		t.Run(name, func(t *testing.T) {
			result := newTestExtractor(model).Extract(context.Background(), transcript, Hints{
				Title:        "Weekly numbers",
				Participants: []string{"Bob"},
			})
			degraded, ok := result.(entities.ExtractionDegraded)
			require.True(t, ok)
			assert.ErrorIs(t, degraded.Err(), entities.ErrExtractionDegraded)

			rec := degraded.Intelligence()
			assert.Equal(t, "Weekly numbers", rec.Title)
			assert.Equal(t, "2026-05-04", rec.Date)
			assert.Equal(t, []string{"Bob"}, rec.Participants)
			assert.True(t, strings.HasSuffix(rec.Summary, "..."))
			assert.Len(t, []rune(rec.Summary), fallbackSummaryLength+3)
			assert.NotNil(t, rec.Risks)
			assert.Empty(t, rec.Risks)
			assert.NotNil(t, rec.Opportunities)
			assert.Empty(t, rec.Opportunities)
			assert.NotNil(t, rec.KeyQuotes)
			assert.Empty(t, rec.KeyQuotes)
			assert.Empty(t, rec.ActionItems)
		})
	}
}

func TestExtract_CoercesModelValues(t *testing.T) {
	model := &fakeModel{content: modelOutput(t, entities.IntelligenceRecord{
		Title:          "Vendor review",
		Summary:        "Picked the new vendor.",
		Risks:          []string{"Contract lock-in"},
		Classification: "Board",
		ActionItems: []entities.ActionItem{
			{Title: "Sign contract", Assignee: "Alice", Priority: "High", DueDate: "2026-05-08"},
			{Title: "", Assignee: "Bob", Priority: entities.PriorityLow},
		},
	})}

	result := newTestExtractor(model).Extract(context.Background(), "Alice: we go with the new vendor.", Hints{})
	require.IsType(t, entities.ExtractionSuccess{}, result)
	assert.False(t, result.Degraded())

	rec := result.Intelligence()
	assert.Equal(t, []string{"Contract lock-in"}, rec.Risks)
	assert.Equal(t, entities.ClassificationOther, rec.Classification)
	require.Len(t, rec.ActionItems, 1)
	assert.Equal(t, "Sign contract", rec.ActionItems[0].Title)
	assert.Equal(t, entities.PriorityHigh, rec.ActionItems[0].Priority)
}

func TestExtract_NoModel(t *testing.T) {
	result := newTestExtractor(nil).Extract(context.Background(), "Alice: short meeting notes", Hints{})
	require.True(t, result.Degraded())
	rec := result.Intelligence()
	assert.Equal(t, "Meeting 2026-05-04", rec.Title)
	assert.Equal(t, "Alice: short meeting notes", rec.Summary)
	assert.Equal(t, []string{}, rec.Participants)
}

func TestFinalize(t *testing.T) {
	rec := Finalize(entities.IntelligenceRecord{
		Summary:        "s",
		Classification: "board",
		ActionItems: []entities.ActionItem{
			{Title: "  Follow up  ", Assignee: " Dana ", Priority: "URGENT"},
			{Title: "   ", Assignee: "Dana"},
			{Title: "Call", Priority: " High "},
		},
	}, Hints{Title: "From hint", Participants: []string{"Dana"}}, submitted)

	assert.Equal(t, "From hint", rec.Title)
	assert.Equal(t, "2026-05-04", rec.Date)
	assert.Equal(t, []string{"Dana"}, rec.Participants)
	assert.Equal(t, entities.ClassificationOther, rec.Classification)
	assert.Equal(t, []string{}, rec.Organizations)

	require.Len(t, rec.ActionItems, 2)
	assert.Equal(t, "Follow up", rec.ActionItems[0].Title)
	assert.Equal(t, "Dana", rec.ActionItems[0].Assignee)
	assert.Equal(t, entities.PriorityMedium, rec.ActionItems[0].Priority)
	assert.Equal(t, entities.PriorityHigh, rec.ActionItems[1].Priority)
	assert.Equal(t, "2026-05-06", rec.ActionItems[1].DueDate)
}
