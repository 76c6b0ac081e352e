package ingest

// IngestRequest is the body of POST /ingest and the signed webhook
type IngestRequest struct {
	Content          string   `json:"content"`
	InputKind        string   `json:"input_kind" validate:"omitempty,input_kind"`
	TitleHint        string   `json:"title_hint" validate:"omitempty,max=500"`
	DateHint         string   `json:"date_hint" validate:"omitempty,datetime=2006-01-02"`
	ParticipantHints []string `json:"participant_hints" validate:"omitempty,max=100,dive,required,max=255"`
}

// KindOrDefault returns the input kind, text when omitted
func (r *IngestRequest) KindOrDefault() string {
	if r.InputKind == "" {
		return "text"
	}
	return r.InputKind
}

// AudioUploadForm holds the non-file fields of POST /ingest/audio
type AudioUploadForm struct {
	TitleHint        string   `form:"title_hint" validate:"omitempty,max=500"`
	DateHint         string   `form:"date_hint" validate:"omitempty,datetime=2006-01-02"`
	ParticipantHints []string `form:"participant_hints" validate:"omitempty,max=100,dive,required,max=255"`
}
