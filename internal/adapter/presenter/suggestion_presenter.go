package presenter

import (
	"github.com/google/uuid"

	reviewDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/review"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/suggestion"
)

// ToSuggestionResponse converts a PendingSuggestion entity to its DTO
func ToSuggestionResponse(s *entities.PendingSuggestion) *reviewDTO.SuggestionResponse {
	if s == nil {
		return nil
	}

	ownerType, targetID := s.Target()
	data := make(map[string]interface{}, len(s.SuggestedData))
	for k, v := range s.SuggestedData {
		data[k] = v
	}

	return &reviewDTO.SuggestionResponse{
		ID:                 s.ID.String(),
		Type:               string(s.Type),
		Status:             string(s.Status),
		TargetType:         string(ownerType),
		TargetID:           targetID.String(),
		SuggestedCompanyID: idString(s.SuggestedCompanyID),
		SuggestedData:      data,
		Reason:             s.Reason,
		Confidence:         s.Confidence,
		SourceMeetingID:    idString(s.SourceMeetingID),
		ReviewedBy:         s.ReviewedBy,
		ReviewedAt:         s.ReviewedAt,
		CreatedAt:          s.CreatedAt,
	}
}

// ToSuggestionResponses converts a list of suggestions
func ToSuggestionResponses(list []*entities.PendingSuggestion) []*reviewDTO.SuggestionResponse {
	out := make([]*reviewDTO.SuggestionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSuggestionResponse(s))
	}
	return out
}

// ToDecisionResponse converts a review decision
func ToDecisionResponse(d *suggestion.Decision) *reviewDTO.DecisionResponse {
	if d == nil {
		return nil
	}
	filled := d.FilledFields
	if filled == nil {
		filled = []string{}
	}
	return &reviewDTO.DecisionResponse{
		Suggestion:   ToSuggestionResponse(d.Suggestion),
		FilledFields: filled,
	}
}

// ToBulkReviewResponse converts a best-effort batch result
func ToBulkReviewResponse(r suggestion.BulkResult) *reviewDTO.BulkReviewResponse {
	resp := &reviewDTO.BulkReviewResponse{
		Count:     r.Count(),
		Succeeded: make([]string, 0, len(r.Succeeded)),
	}
	for _, id := range r.Succeeded {
		resp.Succeeded = append(resp.Succeeded, id.String())
	}
	if len(r.Failed) > 0 {
		resp.Failed = make(map[string]string, len(r.Failed))
		for id, err := range r.Failed {
			resp.Failed[id.String()] = err.Error()
		}
	}
	return resp
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
