package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// SuggestionFilter narrows suggestion listings
type SuggestionFilter struct {
	Status entities.SuggestionStatus
	Type   entities.SuggestionType
	Limit  int
	Offset int
}

// SuggestionRepository defines the interface for staged suggestion data access
type SuggestionRepository interface {
	// HasPending reports whether a pending suggestion exists for type and target key
	HasPending(ctx context.Context, suggestionType entities.SuggestionType, targetKey string) (bool, error)

	// CreateIfAbsent inserts the suggestion unless a pending one with the same
	// type and target exists. Returns true when inserted.
	CreateIfAbsent(ctx context.Context, suggestion *entities.PendingSuggestion) (bool, error)

	// FindByID retrieves a suggestion by ID, entities.ErrNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*entities.PendingSuggestion, error)

	// Review moves a pending suggestion to status. Returns false when the
	// suggestion was not pending (or does not exist).
	Review(ctx context.Context, id uuid.UUID, status entities.SuggestionStatus, reviewer string, at time.Time) (bool, error)

	// List retrieves suggestions with total count
	List(ctx context.Context, filter SuggestionFilter) ([]*entities.PendingSuggestion, int64, error)

	// FindPendingByTarget retrieves pending suggestions targeting a record
	FindPendingByTarget(ctx context.Context, ownerType entities.OwnerType, targetID uuid.UUID) ([]*entities.PendingSuggestion, error)

	// Retarget points a pending suggestion at another record of the same type
	Retarget(ctx context.Context, id uuid.UUID, ownerType entities.OwnerType, targetID uuid.UUID) error

	// RepointSuggestedCompany replaces suggested_company_id on every pending suggestion
	RepointSuggestedCompany(ctx context.Context, fromCompanyID, toCompanyID uuid.UUID) (int64, error)
}
