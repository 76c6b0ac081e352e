package handler

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/errors"
	ingestDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/ingest"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body
const SignatureHeader = "X-Signature-256"

const maxWebhookBody = 5 << 20

// WebhookHandler accepts signed ingestion requests from upstream systems
type WebhookHandler struct {
	ingest *Ingest
	secret string
	logger *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. An empty secret rejects every request.
func NewWebhookHandler(ingest *Ingest, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{ingest: ingest, secret: secret, logger: logger}
}

// HandleIngest handles POST /webhooks/ingest
// @Summary      Signed ingestion webhook
// @Description  Ingests a meeting pushed by an upstream system. The raw body must be signed with HMAC-SHA256 in X-Signature-256.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        X-Signature-256  header    string                true  "Hex HMAC-SHA256 of the body"
// @Param        request          body      ingest.IngestRequest  true  "Meeting content and hints"
// @Success      200      {object}  ingest.IngestResponse  "Meeting ingested"
// @Failure      400      {object}  map[string]interface{}  "Invalid payload or input too short"
// @Failure      401      {object}  map[string]interface{}  "Signature rejected"
// @Failure      500      {object}  map[string]interface{}  "Processing failed"
// @Router       /webhooks/ingest [post]
func (h *WebhookHandler) HandleIngest(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if !ai.VerifyHMAC(h.secret, body, c.Request().Header.Get(SignatureHeader)) {
		if h.logger != nil {
			h.logger.Warn("🚫 Webhook signature rejected",
				zap.String("request_id", getRequestID(c)),
				zap.Int("body_size", len(body)),
			)
		}
		return HandleError(h.logger, c, errors.ErrInvalidSignature())
	}

	var req ingestDTO.IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	// webhook uploads have no actor and are not subject to the cooldown
	return h.ingest.process(c, toUploadRequest(req, ""))
}
