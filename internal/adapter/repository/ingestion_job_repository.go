package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type ingestionJobRepository struct {
	db *gorm.DB
}

// NewIngestionJobRepository creates a new ingestion job repository
func NewIngestionJobRepository(db *gorm.DB) repositories.IngestionJobRepository {
	return &ingestionJobRepository{db: db}
}

// Create creates a new job
func (r *ingestionJobRepository) Create(ctx context.Context, job *entities.IngestionJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return conn(ctx, r.db).Create(job).Error
}

// Update saves the job's current state
func (r *ingestionJobRepository) Update(ctx context.Context, job *entities.IngestionJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return conn(ctx, r.db).Save(job).Error
}

// FindByID retrieves a job by ID
func (r *ingestionJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.IngestionJob, error) {
	var job entities.IngestionJob
	if err := conn(ctx, r.db).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingestion job %s: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &job, nil
}
