package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// Logger appends audit entries. Writes are best-effort: a failed write is
// logged and never fails the operation being audited.
type Logger struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
}

// NewLogger creates an audit logger
func NewLogger(repo repositories.AuditRepository, logger *zap.Logger) *Logger {
	return &Logger{repo: repo, logger: logger}
}

// Record appends entry, detached from ctx cancellation
func (l *Logger) Record(ctx context.Context, entry *entities.AuditEntry) {
	if l == nil || l.repo == nil || entry == nil {
		return
	}

	if err := l.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		if l.logger != nil {
			l.logger.Warn("⚠️ failed to write audit entry",
				zap.String("action", string(entry.Action)),
				zap.String("entity_type", entry.EntityType),
				zap.String("entity_id", entry.EntityID),
				zap.Error(err),
			)
		}
		return
	}

	if l.logger != nil {
		l.logger.Debug("📝 audit entry written",
			zap.String("action", string(entry.Action)),
			zap.String("actor", entry.Actor),
			zap.String("entity_id", entry.EntityID),
		)
	}
}

// History returns the entries about an entity, oldest first
func (l *Logger) History(ctx context.Context, entityType, entityID string) ([]*entities.AuditEntry, error) {
	entries, err := l.repo.FindByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit history: %w", err)
	}
	return entries, nil
}
