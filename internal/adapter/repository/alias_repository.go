package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type aliasRepository struct {
	db *gorm.DB
}

// NewAliasRepository creates a new alias repository
func NewAliasRepository(db *gorm.DB) repositories.AliasRepository {
	return &aliasRepository{db: db}
}

// Add inserts the alias unless the same owner already has that name/email pair
func (r *aliasRepository) Add(ctx context.Context, alias *entities.Alias) (bool, error) {
	if alias == nil {
		return false, errors.New("alias cannot be nil")
	}
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(alias)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByOwner retrieves the aliases of one record
func (r *aliasRepository) FindByOwner(ctx context.Context, ownerType entities.OwnerType, ownerID uuid.UUID) ([]*entities.Alias, error) {
	var aliases []*entities.Alias
	if err := conn(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("created_at ASC").
		Find(&aliases).Error; err != nil {
		return nil, err
	}
	return aliases, nil
}

// ListByOwnerType retrieves every alias of one owner type
func (r *aliasRepository) ListByOwnerType(ctx context.Context, ownerType entities.OwnerType) ([]*entities.Alias, error) {
	var aliases []*entities.Alias
	if err := conn(ctx, r.db).
		Where("owner_type = ?", ownerType).
		Order("owner_id ASC").
		Find(&aliases).Error; err != nil {
		return nil, err
	}
	return aliases, nil
}
