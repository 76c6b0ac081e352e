package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-intelligence/internal/app"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/ingest"
)

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".ogg": true, ".flac": true, ".webm": true, ".mp4": true,
}

type ingestFlags struct {
	kind         string
	title        string
	date         string
	participants []string
}

// ingestTotals counts a best-effort batch
type ingestTotals struct {
	succeeded, rejected, failed int
	linked, staged, created     int
	degraded                    int
}

func newIngestCommand(e *env) *cobra.Command {
	var flags ingestFlags
	cmd := &cobra.Command{
		Use:   "ingest <file|url>...",
		Short: "Ingest meeting transcripts, exports or recordings",
		Long: `Ingest one or more meetings. Each argument is processed on its own;
a failure is reported and the batch continues.

The input kind is detected unless --kind is given:
  - .json files are structured exports
  - audio files are uploaded to object storage and transcribed
  - http(s) URLs are transcribed as audio references
  - anything else is a plain text transcript

Examples:
  intelctl ingest ./notes/2025-03-04-standup.txt --title "Standup"
  intelctl ingest ./exports/*.json
  intelctl ingest ./recordings/board.m4a --participants "Dana Lee,Sam Ortiz"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return runIngest(cmd.Context(), e, a, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", "", "Input kind: text, structuredExport or audioRef (default: detect)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Title hint")
	cmd.Flags().StringVar(&flags.date, "date", "", "Date hint (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&flags.participants, "participants", nil, "Participant name hints")
	return cmd
}

func runIngest(ctx context.Context, e *env, a *app.App, args []string, flags ingestFlags) error {
	var (
		totals ingestTotals
		store  storage.ObjectStore
	)

	for _, arg := range args {
		req, err := buildUploadRequest(ctx, e, a, &store, arg, flags)
		if err != nil {
			totals.failed++
			e.printf("✗ %s: %v\n", arg, err)
			continue
		}

		res, err := a.Ingest.ProcessUpload(ctx, req)
		switch {
		case err != nil:
			totals.failed++
			e.printf("✗ %s: %v\n", arg, err)
		case !res.Success:
			totals.rejected++
			e.printf("✗ %s: %s\n", arg, res.Reason)
		default:
			totals.succeeded++
			totals.linked += res.Linked
			totals.staged += res.Staged
			totals.created += res.Created
			note := ""
			if res.Degraded {
				totals.degraded++
				note = " (degraded)"
			}
			e.printf("✓ %s: record %s, linked %d, staged %d, created %d%s\n",
				arg, res.RecordID, res.Linked, res.Staged, res.Created, note)
		}
	}

	e.printf("\n%d succeeded, %d rejected, %d failed (%d degraded)\n",
		totals.succeeded, totals.rejected, totals.failed, totals.degraded)
	e.printf("contacts: %d linked, %d created; %d suggestions staged\n",
		totals.linked, totals.created, totals.staged)

	if n := totals.rejected + totals.failed; n > 0 {
		return fmt.Errorf("%d of %d inputs were not ingested", n, len(args))
	}
	return nil
}

// buildUploadRequest reads arg and detects its kind. Local audio is pushed to
// object storage first; the store is connected on first use.
func buildUploadRequest(ctx context.Context, e *env, a *app.App, store *storage.ObjectStore, arg string, flags ingestFlags) (ingest.UploadRequest, error) {
	req := ingest.UploadRequest{
		InputKind:        entities.InputKind(flags.kind),
		TitleHint:        flags.title,
		DateHint:         flags.date,
		ParticipantHints: flags.participants,
		ActorID:          e.actor,
	}

	if isURL(arg) {
		if req.InputKind == "" {
			req.InputKind = entities.InputKindAudioRef
		}
		req.Content = arg
		return req, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return req, fmt.Errorf("reading file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(arg))
	if req.InputKind == "" {
		req.InputKind = detectKind(ext)
	}
	if req.InputKind != entities.InputKindAudioRef {
		req.Content = string(data)
		return req, nil
	}

	if *store == nil {
		s, err := a.ObjectStore(ctx)
		if err != nil {
			return req, fmt.Errorf("connecting object storage: %w", err)
		}
		*store = s
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	url, err := (*store).Put(ctx, storage.AudioObjectKey(e.actor, filepath.Base(arg), time.Now()), data, mimeType)
	if err != nil {
		return req, fmt.Errorf("uploading audio: %w", err)
	}
	req.Content = url
	return req, nil
}

func detectKind(ext string) entities.InputKind {
	switch {
	case ext == ".json":
		return entities.InputKindStructuredExport
	case audioExtensions[ext]:
		return entities.InputKindAudioRef
	}
	return entities.InputKindText
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
