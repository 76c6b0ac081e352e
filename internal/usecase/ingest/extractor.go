package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

const (
	// DefaultTruncateLength bounds the transcript prefix sent to the model, in runes
	DefaultTruncateLength = 10000

	fallbackSummaryLength = 200
	defaultDueOffset      = 48 * time.Hour
)

const systemPrompt = `You analyse business meeting transcripts for a relationship-intelligence team.
Return one JSON object that matches the provided schema exactly.
Use full names for people as spoken. Leave a string empty when the transcript does not say.
Keep action item titles short and imperative. Do not invent participants or organizations.`

// Hints are caller-supplied facts used when the model leaves a field empty
type Hints struct {
	Title        string
	Date         string
	Participants []string
}

// Extractor turns transcripts into intelligence records
type Extractor struct {
	model     ai.LanguageModel
	validator *validator.CustomValidator
	truncate  int
	now       func() time.Time
	logger    *zap.Logger
}

// NewExtractor creates an extractor. A nil model makes every extraction degrade.
func NewExtractor(model ai.LanguageModel, truncate int, logger *zap.Logger) *Extractor {
	if truncate <= 0 {
		truncate = DefaultTruncateLength
	}
	return &Extractor{
		model:     model,
		validator: validator.New(),
		truncate:  truncate,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// Extract never fails: model, parse and validation errors produce an
// ExtractionDegraded carrying the fallback record
func (e *Extractor) Extract(ctx context.Context, transcript string, hints Hints) entities.ExtractionResult {
	now := e.now()
	rec, err := e.invoke(ctx, transcript, hints)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("⚠️ Extraction degraded, using fallback record",
				zap.Error(err),
				zap.Int("transcript_length", len([]rune(transcript))),
			)
		}
		return entities.ExtractionDegraded{Record: FallbackRecord(transcript, hints, now), Cause: err}
	}
	return entities.ExtractionSuccess{Record: Finalize(rec, hints, now)}
}

func (e *Extractor) invoke(ctx context.Context, transcript string, hints Hints) (entities.IntelligenceRecord, error) {
	if e.model == nil {
		return entities.IntelligenceRecord{}, errors.New("no language model configured")
	}

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: systemPrompt},
		{Role: ai.RoleUser, Content: userPrompt(truncateRunes(transcript, e.truncate), hints)},
	}

	if e.logger != nil {
		e.logger.Info("🤖 Extracting meeting intelligence", zap.Int("transcript_length", len([]rune(transcript))))
	}

	content, err := e.model.Invoke(ctx, messages, ResponseSchema())
	if err != nil {
		return entities.IntelligenceRecord{}, fmt.Errorf("failed to invoke language model: %w", err)
	}
	return e.parse(content)
}

// parse validates raw model output against the schema, then decodes it
func (e *Extractor) parse(content string) (entities.IntelligenceRecord, error) {
	raw := []byte(extractJSON(content))

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return entities.IntelligenceRecord{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if err := validateAgainstSchema(doc); err != nil {
		return entities.IntelligenceRecord{}, err
	}

	var rec entities.IntelligenceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entities.IntelligenceRecord{}, fmt.Errorf("failed to decode record: %w", err)
	}
	rec.Summary = strings.TrimSpace(rec.Summary)
	if err := e.validator.Validate(rec); err != nil {
		return entities.IntelligenceRecord{}, fmt.Errorf("invalid record: %w", err)
	}
	return rec, nil
}

func userPrompt(transcript string, hints Hints) string {
	var sb strings.Builder
	if hints.Title != "" {
		sb.WriteString("Meeting title: " + hints.Title + "\n")
	}
	if hints.Date != "" {
		sb.WriteString("Meeting date: " + hints.Date + "\n")
	}
	if len(hints.Participants) > 0 {
		sb.WriteString("Known participants: " + strings.Join(hints.Participants, ", ") + "\n")
	}
	sb.WriteString("\nTranscript:\n")
	sb.WriteString(transcript)
	return sb.String()
}

// Finalize applies the post-processing every record gets before persistence:
// action item cleanup, classification coercion and hint fallbacks.
func Finalize(rec entities.IntelligenceRecord, hints Hints, submitted time.Time) entities.IntelligenceRecord {
	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = hints.Title
	}
	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = "Meeting " + meetingDate(rec.Date, hints.Date, submitted)
	}
	rec.Date = meetingDate(rec.Date, hints.Date, submitted)
	if len(rec.Participants) == 0 {
		rec.Participants = hints.Participants
	}
	if !rec.Classification.IsValid() {
		rec.Classification = entities.ClassificationOther
	}

	rec.Participants = cleanList(rec.Participants)
	rec.Organizations = cleanList(rec.Organizations)
	rec.Highlights = cleanList(rec.Highlights)
	rec.Opportunities = cleanList(rec.Opportunities)
	rec.Risks = cleanList(rec.Risks)
	rec.KeyQuotes = cleanList(rec.KeyQuotes)
	rec.Sectors = cleanList(rec.Sectors)
	rec.Jurisdictions = cleanList(rec.Jurisdictions)

	items := make([]entities.ActionItem, 0, len(rec.ActionItems))
	for _, item := range rec.ActionItems {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		items = append(items, finalizeActionItem(item, submitted))
	}
	rec.ActionItems = items
	return rec
}

func finalizeActionItem(item entities.ActionItem, submitted time.Time) entities.ActionItem {
	item.Title = truncateRunes(strings.TrimSpace(item.Title), entities.MaxActionItemTitle)
	item.Assignee = strings.TrimSpace(item.Assignee)
	if item.Assignee == "" {
		item.Assignee = entities.UnassignedAssignee
	}
	switch p := entities.Priority(strings.ToLower(strings.TrimSpace(string(item.Priority)))); p {
	case entities.PriorityLow, entities.PriorityMedium, entities.PriorityHigh:
		item.Priority = p
	default:
		item.Priority = entities.PriorityMedium
	}
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(item.DueDate)); err != nil {
		item.DueDate = submitted.Add(defaultDueOffset).Format(time.DateOnly)
	} else {
		item.DueDate = strings.TrimSpace(item.DueDate)
	}
	return item
}

// FallbackRecord is the degraded record: hints, a transcript prefix as
// summary and empty lists
func FallbackRecord(transcript string, hints Hints, now time.Time) entities.IntelligenceRecord {
	date := meetingDate("", hints.Date, now)
	title := strings.TrimSpace(hints.Title)
	if title == "" {
		title = "Meeting " + date
	}

	summary := strings.TrimSpace(transcript)
	if cut := truncateRunes(summary, fallbackSummaryLength); cut != summary {
		summary = cut + "..."
	}

	participants := cleanList(hints.Participants)
	return entities.IntelligenceRecord{
		Title:          title,
		Date:           date,
		Participants:   participants,
		Organizations:  []string{},
		Summary:        summary,
		Highlights:     []string{},
		Opportunities:  []string{},
		Risks:          []string{},
		KeyQuotes:      []string{},
		Sectors:        []string{},
		Jurisdictions:  []string{},
		Classification: entities.ClassificationOther,
		ActionItems:    []entities.ActionItem{},
	}
}

// meetingDate picks the first parseable date of record, hint, then now
func meetingDate(recordDate, hintDate string, now time.Time) string {
	for _, d := range []string{recordDate, hintDate} {
		d = strings.TrimSpace(d)
		if _, err := time.Parse(time.DateOnly, d); err == nil {
			return d
		}
	}
	return now.Format(time.DateOnly)
}

// cleanList trims entries, drops blanks and case-insensitive repeats; never nil
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// extractJSON strips a markdown code fence some models wrap JSON in
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}
	return strings.TrimSpace(content)
}
