package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) repositories.CompanyRepository {
	return &companyRepository{db: db}
}

// Create creates a new company
func (r *companyRepository) Create(ctx context.Context, company *entities.Company) error {
	if company == nil {
		return errors.New("company cannot be nil")
	}
	return conn(ctx, r.db).Create(company).Error
}

// FindByID retrieves a company by ID
func (r *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Company, error) {
	var company entities.Company
	if err := conn(ctx, r.db).Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %s: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &company, nil
}

// ListAll retrieves every company
func (r *companyRepository) ListAll(ctx context.Context) ([]*entities.Company, error) {
	var companies []*entities.Company
	if err := conn(ctx, r.db).Order("id ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// FillEmpty sets column only when it is empty
func (r *companyRepository) FillEmpty(ctx context.Context, id uuid.UUID, column, value string) (bool, error) {
	if !slices.Contains(entities.CompanyFillable, column) {
		return false, fmt.Errorf("column %q is not fillable", column)
	}
	return fillEmpty(conn(ctx, r.db).Model(&entities.Company{}), id, column, value)
}

// Delete deletes a company
func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entities.Company{}).Error
}
