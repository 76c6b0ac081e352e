package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	// Create creates a new contact
	Create(ctx context.Context, contact *entities.Contact) error

	// FindByID retrieves a contact by ID, entities.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error)

	// ListAll retrieves every contact, ordered by ID
	ListAll(ctx context.Context) ([]*entities.Contact, error)

	// FillEmpty sets column to value only when the column is NULL or ''.
	// Returns true when the row was changed.
	FillEmpty(ctx context.Context, id uuid.UUID, column, value string) (bool, error)

	// FillCompany sets company_id only when it is NULL
	FillCompany(ctx context.Context, id, companyID uuid.UUID) (bool, error)

	// RepointCompany moves every contact of one company to another
	RepointCompany(ctx context.Context, fromCompanyID, toCompanyID uuid.UUID) (int64, error)

	// Delete deletes a contact
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	// Create creates a new company
	Create(ctx context.Context, company *entities.Company) error

	// FindByID retrieves a company by ID, entities.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Company, error)

	// ListAll retrieves every company, ordered by ID
	ListAll(ctx context.Context) ([]*entities.Company, error)

	// FillEmpty sets column to value only when the column is NULL or ''
	FillEmpty(ctx context.Context, id uuid.UUID, column, value string) (bool, error)

	// Delete deletes a company
	Delete(ctx context.Context, id uuid.UUID) error
}

// AliasRepository defines the interface for alias data access. Aliases are append-only.
type AliasRepository interface {
	// Add inserts the alias unless an identical one exists. Returns true when inserted.
	Add(ctx context.Context, alias *entities.Alias) (bool, error)

	// FindByOwner retrieves the aliases of one record
	FindByOwner(ctx context.Context, ownerType entities.OwnerType, ownerID uuid.UUID) ([]*entities.Alias, error)

	// ListByOwnerType retrieves every alias of contacts or companies
	ListByOwnerType(ctx context.Context, ownerType entities.OwnerType) ([]*entities.Alias, error)
}
