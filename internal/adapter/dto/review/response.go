package review

import "time"

// SuggestionResponse is a staged suggestion as shown to reviewers
type SuggestionResponse struct {
	ID                 string                 `json:"id"`
	Type               string                 `json:"type"`
	Status             string                 `json:"status"`
	TargetType         string                 `json:"target_type"`
	TargetID           string                 `json:"target_id"`
	SuggestedCompanyID *string                `json:"suggested_company_id,omitempty"`
	SuggestedData      map[string]interface{} `json:"suggested_data"`
	Reason             string                 `json:"reason"`
	Confidence         int                    `json:"confidence"`
	SourceMeetingID    *string                `json:"source_meeting_id,omitempty"`
	ReviewedBy         *string                `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time             `json:"reviewed_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

// DecisionResponse is the outcome of approving or rejecting one suggestion
type DecisionResponse struct {
	Suggestion   *SuggestionResponse `json:"suggestion"`
	FilledFields []string            `json:"filled_fields"`
}

// BulkReviewResponse reports a best-effort batch
type BulkReviewResponse struct {
	Count     int               `json:"count"`
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// MatchResponse is one ranked resolver candidate
type MatchResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
	Tier       string `json:"tier"`
	OrgBonus   bool   `json:"org_bonus"`
}

// AliasResponse is a stored alias
type AliasResponse struct {
	ID        string    `json:"id"`
	OwnerType string    `json:"owner_type"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Source    string    `json:"source"`
	Created   bool      `json:"created"`
	CreatedAt time.Time `json:"created_at"`
}
