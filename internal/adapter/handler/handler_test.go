package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/audit"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/merge"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/resolution"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/suggestion"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
	"github.com/johnquangdev/meeting-intelligence/pkg/jwt"
	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

const (
	webhookSecret = "whsec_test"
	transcript    = "[00:00] Alice: Let's ship the Q3 report. [00:05] Bob: I'll own that by Friday."
	modelJSON     = `{
		"title": "Q3 report", "date": "2026-05-04", "primary_lead": "Alice",
		"participants": ["Alice", "Bob"], "organizations": [],
		"summary": "Alice asked for the Q3 report; Bob owns it.",
		"highlights": [], "opportunities": [], "risks": [], "key_quotes": [],
		"sectors": [], "jurisdictions": [], "classification": "internal",
		"action_items": [{"title": "Ship the Q3 report", "description": "", "assignee": "Bob", "priority": "high", "due_date": "2026-05-08"}]
	}`
)

type stubModel struct {
	content string
	err     error
}

func (m *stubModel) Invoke(context.Context, []ai.Message, *ai.ResponseSchema) (string, error) {
	return m.content, m.err
}

type stubTranscriber struct {
	audioRef string
}

func (s *stubTranscriber) Transcribe(_ context.Context, audioRef, _ string, _ []string) (string, error) {
	s.audioRef = audioRef
	return transcript, nil
}

type stubStore struct {
	key      string
	mimeType string
	size     int
	err      error
}

func (s *stubStore) Put(_ context.Context, key string, data []byte, mimeType string) (string, error) {
	s.key, s.mimeType, s.size = key, mimeType, len(data)
	return "https://files.example.com/" + key, s.err
}

type server struct {
	e           *echo.Echo
	repos       *repository.Set
	suggestions suggestion.Service
	scans       *resolution.ScanJobRunner
	store       *stubStore
	stt         *stubTranscriber
	jwt         *jwt.Manager
}

type serverOptions struct {
	cooldown time.Duration
	auth     bool
	ping     func(ctx context.Context) error
}

func newServer(t *testing.T, opts serverOptions) *server {
	t.Helper()
	db, err := database.NewInMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })

	logger := zap.NewNop()
	repos := repository.NewSet(db)
	auditLogger := audit.NewLogger(repos.Audit, logger)
	suggestions := suggestion.NewService(repos.Tx, repos.Suggestions, repos.Contacts, repos.Companies,
		repos.Aliases, repos.Meetings, auditLogger, logger)
	stt := &stubTranscriber{}
	store := &stubStore{}

	ingestSvc := ingest.NewService(ingest.Deps{
		Tx:          repos.Tx,
		Contacts:    repos.Contacts,
		Companies:   repos.Companies,
		Aliases:     repos.Aliases,
		Meetings:    repos.Meetings,
		Jobs:        repos.Jobs,
		Normalizer:  ingest.NewNormalizer(stt, "en", logger),
		Extractor:   ingest.NewExtractor(&stubModel{content: modelJSON}, 0, logger),
		Suggestions: suggestions,
		Audit:       auditLogger,
		Limiter:     cache.NewCooldownLimiter(cache.NewMemoryStore(nil), opts.cooldown, logger),
		Logger:      logger,
	})
	corpus := resolution.ContactCorpus(repos.Contacts, repos.Aliases)
	scans := resolution.NewScanJobRunner(corpus, 2, time.Minute, logger)
	merger := merge.NewEngine(repos.Contacts, repos.Companies, repos.Aliases, repos.Suggestions, repos.Meetings, auditLogger, logger)

	ingestHandler := NewIngestHandler(ingestSvc, store, 1<<20, logger)
	s := &server{e: echo.New(), repos: repos, suggestions: suggestions, scans: scans, store: store, stt: stt}

	var auth echo.MiddlewareFunc
	if opts.auth {
		s.jwt = jwt.NewManager("secret", time.Hour, "")
		auth = middleware.EchoAuth(s.jwt)
	}

	s.e.Validator = validator.New()
	NewRouter(nil, auth, Handlers{
		Ingest:  ingestHandler,
		Webhook: NewWebhookHandler(ingestHandler, webhookSecret, logger),
		Review:  NewReviewHandler(suggestions, logger),
		Entity:  NewEntityHandler(corpus, merger, scans, logger),
	}, opts.ping).Setup(s.e)
	return s
}

func (s *server) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) bearer(t *testing.T, actor string) map[string]string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(actor, "", "")
	require.NoError(t, err)
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

type okBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Info    string            `json:"info"`
	Details map[string]string `json:"details"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var body okBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NoError(t, json.Unmarshal(body.Data, v))
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errBody {
	t.Helper()
	var body errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIngest_Text(t *testing.T) {
	s := newServer(t, serverOptions{})
	rec := s.do(t, http.MethodPost, "/v1/ingest", map[string]interface{}{"content": transcript}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Success  bool   `json:"success"`
		RecordID string `json:"record_id"`
		JobID    string `json:"job_id"`
		Created  int    `json:"created"`
		Staged   int    `json:"staged"`
	}
	decodeData(t, rec, &got)
	assert.True(t, got.Success)
	assert.NotEmpty(t, got.RecordID)
	assert.Equal(t, 2, got.Created)
	assert.Zero(t, got.Staged)

	rec = s.do(t, http.MethodGet, "/v1/ingest/jobs/"+got.JobID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var job struct {
		Status   string `json:"status"`
		RecordID string `json:"record_id"`
	}
	decodeData(t, rec, &job)
	assert.Equal(t, string(entities.IngestionJobCompleted), job.Status)
	assert.Equal(t, got.RecordID, job.RecordID)
}

func TestIngest_TooShort(t *testing.T) {
	s := newServer(t, serverOptions{})
	rec := s.do(t, http.MethodPost, "/v1/ingest", map[string]interface{}{"content": "hello"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INPUT_TOO_SHORT", decodeErr(t, rec).Code)
}

func TestIngest_InvalidRequest(t *testing.T) {
	s := newServer(t, serverOptions{})

	rec := s.do(t, http.MethodPost, "/v1/ingest", map[string]interface{}{"content": transcript, "input_kind": "fax"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decodeErr(t, rec).Code)

	rec = s.do(t, http.MethodPost, "/v1/ingest", []byte("{not json"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PAYLOAD", decodeErr(t, rec).Code)

	rec = s.do(t, http.MethodGet, "/v1/ingest/jobs/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/ingest/jobs/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngest_Cooldown(t *testing.T) {
	s := newServer(t, serverOptions{cooldown: time.Minute, auth: true})
	body := map[string]interface{}{"content": transcript}

	rec := s.do(t, http.MethodPost, "/v1/ingest", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	headers := s.bearer(t, "reviewer-1")
	rec = s.do(t, http.MethodPost, "/v1/ingest", body, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/ingest", body, headers)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeErr(t, rec).Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = s.do(t, http.MethodPost, "/v1/ingest", body, s.bearer(t, "reviewer-2"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIngest_Audio(t *testing.T) {
	s := newServer(t, serverOptions{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title_hint", "Weekly sync"))
	part, err := w.CreateFormFile("file", "sync.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3 fake audio bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/audio", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.True(t, strings.HasPrefix(s.store.key, "audio/anonymous/"))
	assert.True(t, strings.HasSuffix(s.store.key, ".mp3"))
	assert.Equal(t, "https://files.example.com/"+s.store.key, s.stt.audioRef)
}

func TestIngest_AudioStorageFailure(t *testing.T) {
	s := newServer(t, serverOptions{})
	s.store.err = errors.New("bucket unavailable")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "sync.wav")
	require.NoError(t, err)
	_, _ = part.Write([]byte("RIFF"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/audio", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "UPLOAD_FAILED", decodeErr(t, rec).Code)
	assert.Empty(t, s.stt.audioRef)
}

func TestWebhook_Signature(t *testing.T) {
	s := newServer(t, serverOptions{auth: true})
	payload, err := json.Marshal(map[string]interface{}{"content": transcript, "title_hint": "Standup"})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/v1/webhooks/ingest", payload, map[string]string{SignatureHeader: "sha256=deadbeef"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_BAD_SIGNATURE", decodeErr(t, rec).Code)

	rec = s.do(t, http.MethodPost, "/v1/webhooks/ingest", payload, map[string]string{SignatureHeader: "sha256=" + ai.SignHMAC(webhookSecret, payload)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSuggestions_ReviewFlow(t *testing.T) {
	s := newServer(t, serverOptions{})
	ctx := context.Background()
	contact := entities.NewContact("Robert Jones", "", "")
	require.NoError(t, s.repos.Contacts.Create(ctx, contact))

	staged, err := s.suggestions.Stage(ctx, suggestion.StageRequest{
		Type:          entities.SuggestionEnrichment,
		TargetType:    entities.OwnerContact,
		TargetID:      contact.ID,
		SuggestedData: map[string]interface{}{"name": "Bob Jones", "organization": "Acme"},
		Reason:        "mentioned in a meeting",
		Confidence:    80,
	})
	require.NoError(t, err)
	require.NotNil(t, staged)

	rec := s.do(t, http.MethodGet, "/v1/suggestions", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []struct {
			ID         string `json:"id"`
			TargetID   string `json:"target_id"`
			Confidence int    `json:"confidence"`
		} `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	decodeData(t, rec, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, contact.ID.String(), list.Data[0].TargetID)
	assert.Equal(t, int64(1), list.Pagination.TotalItems)

	rec = s.do(t, http.MethodPost, "/v1/suggestions/"+staged.ID.String()+"/approve", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decision struct {
		Suggestion struct {
			Status string `json:"status"`
		} `json:"suggestion"`
		FilledFields []string `json:"filled_fields"`
	}
	decodeData(t, rec, &decision)
	assert.Equal(t, string(entities.SuggestionApproved), decision.Suggestion.Status)
	assert.Contains(t, decision.FilledFields, "organization")

	rec = s.do(t, http.MethodPost, "/v1/suggestions/"+staged.ID.String()+"/reject", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_REVIEWED", decodeErr(t, rec).Code)

	rec = s.do(t, http.MethodGet, "/v1/suggestions?status=bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestions_BulkIsBestEffort(t *testing.T) {
	s := newServer(t, serverOptions{})
	ctx := context.Background()
	company := entities.NewCompany("Globex", "")
	require.NoError(t, s.repos.Companies.Create(ctx, company))
	staged, err := s.suggestions.Stage(ctx, suggestion.StageRequest{
		Type:          entities.SuggestionCompanyEnrichment,
		TargetType:    entities.OwnerCompany,
		TargetID:      company.ID,
		SuggestedData: map[string]interface{}{"name": "Globex Corp"},
		Confidence:    85,
	})
	require.NoError(t, err)

	missing := uuid.NewString()
	rec := s.do(t, http.MethodPost, "/v1/suggestions/bulk-reject",
		map[string]interface{}{"ids": []string{staged.ID.String(), missing}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Count  int               `json:"count"`
		Failed map[string]string `json:"failed"`
	}
	decodeData(t, rec, &got)
	assert.Equal(t, 1, got.Count)
	assert.Contains(t, got.Failed, missing)

	rec = s.do(t, http.MethodPost, "/v1/suggestions/bulk-approve", map[string]interface{}{"ids": []string{}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContacts_ResolveMergeAlias(t *testing.T) {
	s := newServer(t, serverOptions{})
	ctx := context.Background()
	keep := entities.NewContact("Robert Jones", "rjones@acme.com", "Acme")
	lose := entities.NewContact("Bob Jones", "", "")
	require.NoError(t, s.repos.Contacts.Create(ctx, keep))
	require.NoError(t, s.repos.Contacts.Create(ctx, lose))

	rec := s.do(t, http.MethodPost, "/v1/contacts/resolve", map[string]interface{}{"email": "RJones@acme.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resolved struct {
		Matches []struct {
			ID         string `json:"id"`
			Confidence int    `json:"confidence"`
		} `json:"matches"`
	}
	decodeData(t, rec, &resolved)
	require.NotEmpty(t, resolved.Matches)
	assert.Equal(t, keep.ID.String(), resolved.Matches[0].ID)
	assert.Equal(t, 95, resolved.Matches[0].Confidence)

	rec = s.do(t, http.MethodPost, "/v1/contacts/merge", map[string]interface{}{"keep_id": keep.ID.String(), "lose_id": keep.ID.String()}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/contacts/merge", map[string]interface{}{"keep_id": keep.ID.String(), "lose_id": lose.ID.String()}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/contacts/merge", map[string]interface{}{"keep_id": keep.ID.String(), "lose_id": lose.ID.String()}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/contacts/"+keep.ID.String()+"/aliases", map[string]interface{}{"name": "R. Jones"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var alias struct {
		Name    string `json:"name"`
		Created bool   `json:"created"`
	}
	decodeData(t, rec, &alias)
	assert.Equal(t, "R. Jones", alias.Name)
	assert.True(t, alias.Created)

	rec = s.do(t, http.MethodPost, "/v1/contacts/"+uuid.NewString()+"/aliases", map[string]interface{}{"name": "Ghost"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicates_Scan(t *testing.T) {
	s := newServer(t, serverOptions{})
	ctx := context.Background()
	require.NoError(t, s.repos.Contacts.Create(ctx, entities.NewContact("Robert Jones", "", "")))
	require.NoError(t, s.repos.Contacts.Create(ctx, entities.NewContact("Jones Robert", "", "")))

	rec := s.do(t, http.MethodPost, "/v1/duplicates/scan", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var started struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &started)
	s.scans.Wait()

	rec = s.do(t, http.MethodGet, "/v1/duplicates/scan/"+started.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var job struct {
		Status string `json:"status"`
		Pairs  []struct {
			Confidence int `json:"confidence"`
		} `json:"pairs"`
	}
	decodeData(t, rec, &job)
	assert.Equal(t, string(resolution.ScanCompleted), job.Status)
	require.Len(t, job.Pairs, 1)
	assert.Equal(t, 80, job.Pairs[0].Confidence)

	rec = s.do(t, http.MethodGet, "/v1/duplicates/scan/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t, serverOptions{})
	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s = newServer(t, serverOptions{ping: func(context.Context) error { return errors.New("connection refused") }})
	rec = s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_NilHandlers(t *testing.T) {
	e := echo.New()
	NewRouter(nil, nil, Handlers{}, nil).Setup(e)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
