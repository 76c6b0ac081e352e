package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Environment: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "intel.db")},
		LLM:      config.LLMConfig{Provider: "groq", Timeout: time.Second},
		Groq:     config.GroqConfig{APIKey: "gsk_test", BaseURL: "http://127.0.0.1:1"},
		Ingest: config.IngestConfig{
			TruncateLength: 10000,
			Cooldown:       time.Minute,
			ScanWorkers:    2,
		},
	}
}

func TestNewWiresPipeline(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), zap.NewNop(), Options{Migrate: true})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Ping(ctx))

	res, err := a.Ingest.ProcessUpload(ctx, ingest.UploadRequest{
		Content:   `{"title": "Board prep", "executive_summary": "Reviewed the board deck", "participants": ["Dana Lee"]}`,
		InputKind: entities.InputKindStructuredExport,
		ActorID:   "user-1",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Created)

	// same actor inside the cooldown window
	res, err = a.Ingest.ProcessUpload(ctx, ingest.UploadRequest{
		Content:   `{"title": "Board prep 2", "executive_summary": "Second pass", "participants": []}`,
		InputKind: entities.InputKindStructuredExport,
		ActorID:   "user-1",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Positive(t, res.RetryAfter)

	contacts, err := a.Repos.Contacts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Dana Lee", contacts[0].Name)

	pending, total, err := a.Suggestions.List(ctx, repositories.SuggestionFilter{Status: entities.SuggestionPending})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, pending)
}

func TestNewRefusesAutoMigrateInProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Environment = "production"
	cfg.Database.AutoMigrate = true

	_, err := New(context.Background(), cfg, zap.NewNop(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_AUTO_MIGRATE")
}
