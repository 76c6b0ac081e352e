package review

// ListSuggestionsRequest holds the query of GET /suggestions
type ListSuggestionsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	Type     string `query:"type" validate:"omitempty,suggestion_type"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=200"`
}

// BulkReviewRequest lists suggestion ids to approve or reject
type BulkReviewRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,uuid"`
}

// ResolveContactRequest is the body of POST /contacts/resolve
type ResolveContactRequest struct {
	Name         string `json:"name" validate:"required_without=Email,max=255"`
	Email        string `json:"email" validate:"omitempty,email"`
	Organization string `json:"organization" validate:"omitempty,max=255"`
	Floor        int    `json:"floor" validate:"omitempty,min=0,max=100"`
}

// MergeRequest is the body of the merge endpoints
type MergeRequest struct {
	KeepID string `json:"keep_id" validate:"required,uuid"`
	LoseID string `json:"lose_id" validate:"required,uuid,nefield=KeepID"`
}

// AddAliasRequest is the body of POST /contacts/:id/aliases
type AddAliasRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
}
