package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type suggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *gorm.DB) repositories.SuggestionRepository {
	return &suggestionRepository{db: db}
}

// HasPending reports whether a pending suggestion exists for type and target
func (r *suggestionRepository) HasPending(ctx context.Context, suggestionType entities.SuggestionType, targetKey string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&entities.PendingSuggestion{}).
		Where("type = ? AND target_key = ? AND status = ?", suggestionType, targetKey, entities.SuggestionPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateIfAbsent relies on the partial unique index over (type, target_key) of pending rows
func (r *suggestionRepository) CreateIfAbsent(ctx context.Context, suggestion *entities.PendingSuggestion) (bool, error) {
	if suggestion == nil {
		return false, errors.New("suggestion cannot be nil")
	}
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(suggestion)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByID retrieves a suggestion by ID
func (r *suggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.PendingSuggestion, error) {
	var suggestion entities.PendingSuggestion
	if err := conn(ctx, r.db).Where("id = ?", id).First(&suggestion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("suggestion %s: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &suggestion, nil
}

// Review transitions a pending suggestion; only one caller can win
func (r *suggestionRepository) Review(ctx context.Context, id uuid.UUID, status entities.SuggestionStatus, reviewer string, at time.Time) (bool, error) {
	res := conn(ctx, r.db).
		Model(&entities.PendingSuggestion{}).
		Where("id = ? AND status = ?", id, entities.SuggestionPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewer,
			"reviewed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// List retrieves suggestions newest first
func (r *suggestionRepository) List(ctx context.Context, filter repositories.SuggestionFilter) ([]*entities.PendingSuggestion, int64, error) {
	var (
		suggestions []*entities.PendingSuggestion
		total       int64
	)
	query := conn(ctx, r.db).Model(&entities.PendingSuggestion{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if err := query.
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&suggestions).Error; err != nil {
		return nil, 0, err
	}
	return suggestions, total, nil
}

// FindPendingByTarget retrieves pending suggestions targeting a record
func (r *suggestionRepository) FindPendingByTarget(ctx context.Context, ownerType entities.OwnerType, targetID uuid.UUID) ([]*entities.PendingSuggestion, error) {
	var suggestions []*entities.PendingSuggestion
	if err := conn(ctx, r.db).
		Where("target_key = ? AND status = ?", entities.TargetKey(ownerType, targetID), entities.SuggestionPending).
		Order("created_at ASC").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

// Retarget points a pending suggestion at another record
func (r *suggestionRepository) Retarget(ctx context.Context, id uuid.UUID, ownerType entities.OwnerType, targetID uuid.UUID) error {
	column := "target_contact_id"
	if ownerType == entities.OwnerCompany {
		column = "target_company_id"
	}
	return conn(ctx, r.db).
		Model(&entities.PendingSuggestion{}).
		Where("id = ? AND status = ?", id, entities.SuggestionPending).
		Updates(map[string]interface{}{
			column:       targetID,
			"target_key": entities.TargetKey(ownerType, targetID),
		}).Error
}

// RepointSuggestedCompany replaces suggested_company_id on pending suggestions
func (r *suggestionRepository) RepointSuggestedCompany(ctx context.Context, fromCompanyID, toCompanyID uuid.UUID) (int64, error) {
	res := conn(ctx, r.db).
		Model(&entities.PendingSuggestion{}).
		Where("suggested_company_id = ? AND status = ?", fromCompanyID, entities.SuggestionPending).
		Update("suggested_company_id", toCompanyID)
	return res.RowsAffected, res.Error
}
