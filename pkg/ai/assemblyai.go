package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// maxWordBoost caps the number of hint phrases sent as word boost
const maxWordBoost = 100

var errTranscriptPending = errors.New("transcript not ready")

// AssemblyAIClient implements Transcriber with the official SDK.
// It submits one job and polls it until it completes or fails.
type AssemblyAIClient struct {
	client       *aai.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *zap.Logger
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyConfig, logger *zap.Logger) *AssemblyAIClient {
	var apiKey, baseURL string
	interval, timeout := 3*time.Second, 15*time.Minute
	if cfg != nil {
		apiKey, baseURL = cfg.APIKey, cfg.BaseURL
		if cfg.PollInterval > 0 {
			interval = cfg.PollInterval
		}
		if cfg.PollTimeout > 0 {
			timeout = cfg.PollTimeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}

	opts := []aai.ClientOption{aai.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, aai.WithBaseURL(baseURL))
	}

	return &AssemblyAIClient{
		client:       aai.NewClientWithOptions(opts...),
		pollInterval: interval,
		pollTimeout:  timeout,
		logger:       logger,
	}
}

// Transcribe submits audioRef for transcription and waits for the text
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audioRef, languageHint string, promptHints []string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if languageHint != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(languageHint)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}
	if boost := wordBoost(promptHints); len(boost) > 0 {
		params.WordBoost = boost
	}

	submitted, err := c.client.Transcripts.SubmitFromURL(ctx, audioRef, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcription: %w", err)
	}
	if submitted.ID == nil {
		return "", fmt.Errorf("assemblyai returned no transcript id")
	}
	transcriptID := *submitted.ID

	if c.logger != nil {
		c.logger.Info("🎙️ Transcription submitted",
			zap.String("transcript_id", transcriptID),
			zap.String("language", languageHint),
		)
	}

	pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	var text string
	poll := func() error {
		transcript, err := c.client.Transcripts.Get(pollCtx, transcriptID)
		if err != nil {
			return err
		}
		switch transcript.Status {
		case aai.TranscriptStatusCompleted:
			text = aai.ToString(transcript.Text)
			return nil
		case aai.TranscriptStatusError:
			msg := "unknown error"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			return backoff.Permanent(fmt.Errorf("assemblyai error: %s", msg))
		default:
			return errTranscriptPending
		}
	}
	notify := func(err error, wait time.Duration) {
		if c.logger != nil && !errors.Is(err, errTranscriptPending) {
			c.logger.Warn("⚠️ Failed to poll AssemblyAI", zap.String("transcript_id", transcriptID), zap.Error(err))
		}
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(c.pollInterval), pollCtx)
	if err := backoff.RetryNotify(poll, bo, notify); err != nil {
		return "", fmt.Errorf("transcript %s: %w", transcriptID, err)
	}

	if c.logger != nil {
		c.logger.Info("✅ Transcription completed",
			zap.String("transcript_id", transcriptID),
			zap.Int("chars", len(text)),
		)
	}
	return text, nil
}

func wordBoost(hints []string) []string {
	seen := make(map[string]struct{}, len(hints))
	out := make([]string, 0, len(hints))
	for _, h := range hints {
		h = strings.TrimSpace(h)
		key := strings.ToLower(h)
		if h == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
		if len(out) == maxWordBoost {
			break
		}
	}
	return out
}
