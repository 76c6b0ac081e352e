package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

type fakeTranscriber struct {
	transcript string
	err        error
	audioRef   string
	language   string
	hints      []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioRef, languageHint string, promptHints []string) (string, error) {
	f.audioRef = audioRef
	f.language = languageHint
	f.hints = promptHints
	return f.transcript, f.err
}

const audioURL = "https://files.example.com/audio/standup.mp3"

func TestNormalize_Text(t *testing.T) {
	n := NewNormalizer(nil, "", zap.NewNop())
	out, err := n.Normalize(context.Background(), entities.RawInput{
		Content: "  Alice: we should ship the report on Friday.  ",
		Kind:    entities.InputKindText,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice: we should ship the report on Friday.", out.Transcript)
	assert.Equal(t, entities.InputFormatText, out.Format)
	assert.Nil(t, out.Record)
}

func TestNormalize_StructuredExportSniffedFromText(t *testing.T) {
	n := NewNormalizer(nil, "", nil)
	out, err := n.Normalize(context.Background(), entities.RawInput{
		Content: `{"executive_summary": "Agreed on the pilot scope", "participants": ["Dana Lee"]}`,
		Kind:    entities.InputKindText,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.InputFormatStructuredExport, out.Format)
	require.NotNil(t, out.Record)
	assert.Equal(t, "Agreed on the pilot scope", out.Record.Summary)
}

func TestNormalize_UnparseableExportFallsBackToText(t *testing.T) {
	n := NewNormalizer(nil, "", nil)
	content := `{"executive_summary": "", "title": "Weekly sync with the team"}`
	out, err := n.Normalize(context.Background(), entities.RawInput{Content: content, Kind: entities.InputKindStructuredExport})
	require.NoError(t, err)
	assert.Equal(t, entities.InputFormatText, out.Format)
	assert.Nil(t, out.Record)
	assert.Equal(t, content, out.Transcript)
}

func TestNormalize_VendorExportIsFreeText(t *testing.T) {
	n := NewNormalizer(nil, "", nil)
	content := `{"executive_summary": "Vendor notes here", "fireflies_id": "abc"}`
	out, err := n.Normalize(context.Background(), entities.RawInput{Content: content, Kind: entities.InputKindStructuredExport})
	require.NoError(t, err)
	assert.Equal(t, entities.InputFormatUnknown, out.Format)
	assert.Nil(t, out.Record)
	assert.Equal(t, content, out.Transcript)
}

func TestNormalize_Audio(t *testing.T) {
	stt := &fakeTranscriber{transcript: "Speaker A: the renewal closes next week."}
	n := NewNormalizer(stt, "vi", nil)
	out, err := n.Normalize(context.Background(), entities.RawInput{
		Content:      audioURL,
		Kind:         entities.InputKindAudioRef,
		Participants: []string{"Dana Lee"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Speaker A: the renewal closes next week.", out.Transcript)
	assert.Equal(t, audioURL, stt.audioRef)
	assert.Equal(t, "vi", stt.language)
	assert.Equal(t, []string{"Dana Lee"}, stt.hints)
}

func TestNormalize_AudioFailures(t *testing.T) {
	raw := entities.RawInput{Content: audioURL, Kind: entities.InputKindAudioRef}

	_, err := NewNormalizer(&fakeTranscriber{err: errors.New("upstream 503")}, "", nil).Normalize(context.Background(), raw)
	assert.ErrorIs(t, err, entities.ErrTranscriptionFailed)

	_, err = NewNormalizer(nil, "", nil).Normalize(context.Background(), raw)
	assert.ErrorIs(t, err, entities.ErrTranscriptionFailed)

	_, err = NewNormalizer(&fakeTranscriber{transcript: "uh"}, "", nil).Normalize(context.Background(), raw)
	assert.ErrorIs(t, err, entities.ErrInputTooShort)
}

func TestNormalize_TooShortForEveryKind(t *testing.T) {
	n := NewNormalizer(&fakeTranscriber{transcript: "long enough transcript text"}, "", nil)
	for _, kind := range []entities.InputKind{entities.InputKindText, entities.InputKindStructuredExport, entities.InputKindAudioRef} {
		_, err := n.Normalize(context.Background(), entities.RawInput{Content: "   too short   ", Kind: kind})
		assert.ErrorIs(t, err, entities.ErrInputTooShort, kind)
	}
}

func TestNormalize_ExportWithShortTranscript(t *testing.T) {
	n := NewNormalizer(nil, "", nil)
	for _, kind := range []entities.InputKind{entities.InputKindText, entities.InputKindStructuredExport} {
		_, err := n.Normalize(context.Background(), entities.RawInput{
			Content: `{"executive_summary": "ok", "title": "x"}`,
			Kind:    kind,
		})
		assert.ErrorIs(t, err, entities.ErrInputTooShort, kind)
	}
}
