package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

// NormalizedInput is one upload reduced to a canonical transcript
type NormalizedInput struct {
	Transcript string
	Kind       entities.InputKind
	Format     entities.InputFormat
	// Record is set when a structured export parsed; extraction is skipped
	Record *entities.IntelligenceRecord
}

// Normalizer turns raw uploads into transcripts
type Normalizer struct {
	transcriber  ai.Transcriber
	languageHint string
	logger       *zap.Logger
}

// NewNormalizer creates a normalizer. transcriber may be nil when audio is not supported.
func NewNormalizer(transcriber ai.Transcriber, languageHint string, logger *zap.Logger) *Normalizer {
	if languageHint == "" {
		languageHint = "en"
	}
	return &Normalizer{transcriber: transcriber, languageHint: languageHint, logger: logger}
}

// Normalize converts raw into a transcript, transcribing audio and sniffing
// structured exports on the way
func (n *Normalizer) Normalize(ctx context.Context, raw entities.RawInput) (NormalizedInput, error) {
	if !raw.Kind.IsValid() {
		return NormalizedInput{}, fmt.Errorf("%w: unknown input kind %q", entities.ErrInvalidRequest, raw.Kind)
	}
	if tooShort(raw.Content) {
		return NormalizedInput{}, entities.ErrInputTooShort
	}

	out := NormalizedInput{Kind: raw.Kind}

	if raw.Kind == entities.InputKindAudioRef {
		transcript, err := n.transcribe(ctx, strings.TrimSpace(raw.Content), raw.Participants)
		if err != nil {
			return NormalizedInput{}, err
		}
		out.Transcript = strings.TrimSpace(transcript)
		out.Format = entities.InputFormatText
		if tooShort(out.Transcript) {
			return NormalizedInput{}, entities.ErrInputTooShort
		}
		return out, nil
	}

	out.Format = ClassifyInput(raw.Content)
	if out.Format == entities.InputFormatStructuredExport {
		rec, transcript, err := ParseStructuredExport(raw.Content)
		if err == nil {
			if tooShort(transcript) {
				return NormalizedInput{}, entities.ErrInputTooShort
			}
			out.Record = &rec
			out.Transcript = transcript
			return out, nil
		}
		if n.logger != nil {
			n.logger.Warn("⚠️ Structured export did not parse, reading as text", zap.Error(err))
		}
		out.Format = entities.InputFormatText
	}

	out.Transcript = strings.TrimSpace(raw.Content)
	return out, nil
}

func (n *Normalizer) transcribe(ctx context.Context, audioRef string, hints []string) (string, error) {
	if n.transcriber == nil {
		return "", fmt.Errorf("%w: no speech-to-text provider configured", entities.ErrTranscriptionFailed)
	}
	if n.logger != nil {
		n.logger.Info("🎙️ Transcribing audio", zap.String("audio_ref", audioRef), zap.String("language", n.languageHint))
	}
	transcript, err := n.transcriber.Transcribe(ctx, audioRef, n.languageHint, hints)
	if err != nil {
		if errors.Is(err, entities.ErrTranscriptionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", entities.ErrTranscriptionFailed, err)
	}
	return transcript, nil
}

func tooShort(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) < entities.MinInputLength
}
