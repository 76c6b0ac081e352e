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

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) repositories.ContactRepository {
	return &contactRepository{db: db}
}

// Create creates a new contact
func (r *contactRepository) Create(ctx context.Context, contact *entities.Contact) error {
	if contact == nil {
		return errors.New("contact cannot be nil")
	}
	return conn(ctx, r.db).Create(contact).Error
}

// FindByID retrieves a contact by ID
func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error) {
	var contact entities.Contact
	if err := conn(ctx, r.db).Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contact %s: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &contact, nil
}

// ListAll retrieves every contact
func (r *contactRepository) ListAll(ctx context.Context) ([]*entities.Contact, error) {
	var contacts []*entities.Contact
	if err := conn(ctx, r.db).Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// FillEmpty sets column only when it is empty
func (r *contactRepository) FillEmpty(ctx context.Context, id uuid.UUID, column, value string) (bool, error) {
	if !slices.Contains(entities.ContactFillable, column) {
		return false, fmt.Errorf("column %q is not fillable", column)
	}
	return fillEmpty(conn(ctx, r.db).Model(&entities.Contact{}), id, column, value)
}

// FillCompany sets company_id only when it is NULL
func (r *contactRepository) FillCompany(ctx context.Context, id, companyID uuid.UUID) (bool, error) {
	res := conn(ctx, r.db).
		Model(&entities.Contact{}).
		Where("id = ? AND company_id IS NULL", id).
		Update("company_id", companyID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RepointCompany moves every contact of one company to another
func (r *contactRepository) RepointCompany(ctx context.Context, fromCompanyID, toCompanyID uuid.UUID) (int64, error) {
	res := conn(ctx, r.db).
		Model(&entities.Contact{}).
		Where("company_id = ?", fromCompanyID).
		Update("company_id", toCompanyID)
	return res.RowsAffected, res.Error
}

// Delete deletes a contact
func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entities.Contact{}).Error
}

// fillEmpty runs a conditional single-column update on a model-scoped query
func fillEmpty(q *gorm.DB, id uuid.UUID, column, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	res := q.
		Where("id = ?", id).
		Where(fmt.Sprintf("(%s IS NULL OR %s = '')", column, column)).
		Update(column, value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
