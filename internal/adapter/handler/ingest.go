package handler

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/errors"
	ingestDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/ingest"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/ingest"
)

// Ingest handles meeting uploads
type Ingest struct {
	svc           ingest.Service
	store         storage.ObjectStore
	maxAudioBytes int64
	logger        *zap.Logger
	now           func() time.Time
}

// NewIngestHandler creates a new ingest handler. store may be nil when audio
// uploads are disabled.
func NewIngestHandler(svc ingest.Service, store storage.ObjectStore, maxAudioBytes int64, logger *zap.Logger) *Ingest {
	return &Ingest{
		svc:           svc,
		store:         store,
		maxAudioBytes: maxAudioBytes,
		logger:        logger,
		now:           time.Now,
	}
}

// Ingest handles POST /ingest
// @Summary      Ingest a meeting
// @Description  Normalizes a transcript, structured export or audio URL, extracts intelligence and links participants. Degraded extractions still succeed with a fallback record.
// @Tags         Ingest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ingest.IngestRequest  true  "Meeting content and hints"
// @Success      200      {object}  ingest.IngestResponse  "Meeting ingested"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or input too short"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      429      {object}  map[string]interface{}  "Ingestion cooldown active, see Retry-After"
// @Failure      502      {object}  map[string]interface{}  "Transcription failed"
// @Failure      500      {object}  map[string]interface{}  "Processing failed"
// @Router       /ingest [post]
func (h *Ingest) Ingest(c echo.Context) error {
	var req ingestDTO.IngestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.process(c, toUploadRequest(req, middleware.ActorID(c)))
}

// UploadAudio handles POST /ingest/audio: the file is stored in object
// storage and its URL is ingested as an audioRef
// @Summary      Upload meeting audio
// @Description  Stores the audio file in object storage, transcribes it and ingests the transcript
// @Tags         Ingest
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file               formData  file      true   "Audio recording"
// @Param        title_hint         formData  string    false  "Meeting title"
// @Param        date_hint          formData  string    false  "Meeting date, YYYY-MM-DD"
// @Param        participant_hints  formData  []string  false  "Known participant names"
// @Success      200      {object}  ingest.IngestResponse  "Meeting ingested"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or input too short"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      429      {object}  map[string]interface{}  "Ingestion cooldown active, see Retry-After"
// @Failure      502      {object}  map[string]interface{}  "Transcription failed"
// @Failure      500      {object}  map[string]interface{}  "Processing failed"
// @Router       /ingest/audio [post]
func (h *Ingest) UploadAudio(c echo.Context) error {
	if h.store == nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("put", stdErrors.New("object storage is not configured")))
	}

	var form ingestDTO.AudioUploadForm
	if err := bindAndValidate(c, &form); err != nil {
		return HandleError(h.logger, c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field \"file\" is required"))
	}
	if h.maxAudioBytes > 0 && file.Size > h.maxAudioBytes {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("audio file exceeds %d bytes", h.maxAudioBytes)))
	}

	src, err := file.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	mimeType := file.Header.Get(echo.HeaderContentType)
	if mimeType == "" {
		mimeType = http.DetectContentType(buf.Bytes())
	}

	actorID := middleware.ActorID(c)
	key := storage.AudioObjectKey(actorID, file.Filename, h.now())
	url, err := h.store.Put(c.Request().Context(), key, buf.Bytes(), mimeType)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrUploadFailed(err))
	}

	if h.logger != nil {
		h.logger.Info("📤 Audio uploaded",
			zap.String("object_key", key),
			zap.Int64("size", file.Size),
			zap.String("actor_id", actorID),
		)
	}

	return h.process(c, ingest.UploadRequest{
		Content:          url,
		InputKind:        entities.InputKindAudioRef,
		TitleHint:        form.TitleHint,
		DateHint:         form.DateHint,
		ParticipantHints: form.ParticipantHints,
		ActorID:          actorID,
	})
}

// GetJob handles GET /ingest/jobs/:id
// @Summary      Get ingestion job
// @Description  Returns the status of one ingestion job
// @Tags         Ingest
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job ID (UUID)"
// @Success      200      {object}  ingest.JobResponse  "Job status"
// @Failure      400      {object}  map[string]interface{}  "Invalid job ID"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Job not found"
// @Router       /ingest/jobs/{id} [get]
func (h *Ingest) GetJob(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	job, err := h.svc.GetJob(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToJobResponse(job))
}

func (h *Ingest) process(c echo.Context, upload ingest.UploadRequest) error {
	res, err := h.svc.ProcessUpload(c.Request().Context(), upload)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}
	if !res.Success {
		return h.rejected(c, res)
	}
	return HandleSuccess(h.logger, c, presenter.ToIngestResponse(res))
}

// rejected maps a user-correctable failure onto its HTTP error
func (h *Ingest) rejected(c echo.Context, res ingest.UploadResult) error {
	if stdErrors.Is(res.Err, entities.ErrRateLimited) {
		seconds := int(math.Ceil(res.RetryAfter.Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
		return HandleError(h.logger, c, errors.ErrRateLimited(res.RetryAfter))
	}

	cause := res.Err
	if cause == nil {
		cause = errors.ErrProcessingFailed(stdErrors.New(res.Reason))
	}
	appErr := errors.FromDomain(cause)
	if res.JobID != uuid.Nil {
		appErr = appErr.WithDetail("job_id", res.JobID.String())
	}
	return HandleError(h.logger, c, appErr)
}

func toUploadRequest(req ingestDTO.IngestRequest, actorID string) ingest.UploadRequest {
	return ingest.UploadRequest{
		Content:          req.Content,
		InputKind:        entities.InputKind(req.KindOrDefault()),
		TitleHint:        req.TitleHint,
		DateHint:         req.DateHint,
		ParticipantHints: req.ParticipantHints,
		ActorID:          actorID,
	}
}
