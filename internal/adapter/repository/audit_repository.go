package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) repositories.AuditRepository {
	return &auditRepository{db: db}
}

// Append writes an entry
func (r *auditRepository) Append(ctx context.Context, entry *entities.AuditEntry) error {
	if entry == nil {
		return errors.New("audit entry cannot be nil")
	}
	return conn(ctx, r.db).Create(entry).Error
}

// FindByEntity retrieves entries naming the entity as subject or related id
func (r *auditRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]*entities.AuditEntry, error) {
	var entries []*entities.AuditEntry
	if err := conn(ctx, r.db).
		Where("(entity_type = ? AND entity_id = ?) OR related_id = ?", entityType, entityID, entityID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
