package entities

// MinInputLength is the shortest transcript (after trimming) accepted for extraction
const MinInputLength = 20

// InputKind tells the normalizer how to read RawInput.Content
type InputKind string

const (
	InputKindText             InputKind = "text"
	InputKindStructuredExport InputKind = "structuredExport"
	InputKindAudioRef         InputKind = "audioRef" // Content is a fetchable audio URL
)

// IsValid checks if the input kind is known
func (k InputKind) IsValid() bool {
	switch k {
	case InputKindText, InputKindStructuredExport, InputKindAudioRef:
		return true
	}
	return false
}

// InputFormat is the classifier's verdict on textual content
type InputFormat string

const (
	InputFormatText             InputFormat = "text"
	InputFormatStructuredExport InputFormat = "structured_export"
	InputFormatUnknown          InputFormat = "unknown"
)

// RawInput is one uploaded meeting artifact before normalization
type RawInput struct {
	Content      string
	Kind         InputKind
	Title        string
	Date         string
	Participants []string
}
