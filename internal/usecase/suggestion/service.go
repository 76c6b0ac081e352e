package suggestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/audit"
)

// StageRequest describes a change to put in front of a reviewer
type StageRequest struct {
	Type               entities.SuggestionType
	TargetType         entities.OwnerType
	TargetID           uuid.UUID
	SuggestedCompanyID *uuid.UUID
	SuggestedData      map[string]interface{}
	Reason             string
	Confidence         int
	SourceMeetingID    *uuid.UUID
}

// Decision is the outcome of an approval or rejection
type Decision struct {
	Suggestion   *entities.PendingSuggestion `json:"suggestion"`
	FilledFields []string                    `json:"filled_fields"`
}

// BulkResult reports a best-effort batch
type BulkResult struct {
	Succeeded []uuid.UUID         `json:"succeeded"`
	Failed    map[uuid.UUID]error `json:"-"`
}

// Count returns the number of successful items
func (r BulkResult) Count() int {
	return len(r.Succeeded)
}

// Service stages suggestions and applies reviewer decisions
type Service interface {
	// Stage inserts a pending suggestion. Returns nil, nil when one with the
	// same type and target is already pending.
	Stage(ctx context.Context, req StageRequest) (*entities.PendingSuggestion, error)
	Approve(ctx context.Context, id uuid.UUID, reviewer string) (*Decision, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer string) (*Decision, error)
	BulkApprove(ctx context.Context, ids []uuid.UUID, reviewer string) BulkResult
	BulkReject(ctx context.Context, ids []uuid.UUID, reviewer string) BulkResult
	List(ctx context.Context, filter repositories.SuggestionFilter) ([]*entities.PendingSuggestion, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.PendingSuggestion, error)
}

type suggestionService struct {
	tx          repositories.TxManager
	suggestions repositories.SuggestionRepository
	contacts    repositories.ContactRepository
	companies   repositories.CompanyRepository
	aliases     repositories.AliasRepository
	meetings    repositories.MeetingRepository
	audit       *audit.Logger
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates the suggestion service
func NewService(
	tx repositories.TxManager,
	suggestions repositories.SuggestionRepository,
	contacts repositories.ContactRepository,
	companies repositories.CompanyRepository,
	aliases repositories.AliasRepository,
	meetings repositories.MeetingRepository,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) Service {
	return &suggestionService{
		tx:          tx,
		suggestions: suggestions,
		contacts:    contacts,
		companies:   companies,
		aliases:     aliases,
		meetings:    meetings,
		audit:       auditLogger,
		logger:      logger,
		now:         time.Now,
	}
}

// Stage implements Service. The pending check and the insert share one
// transaction; the partial unique index settles concurrent stagers.
func (s *suggestionService) Stage(ctx context.Context, req StageRequest) (*entities.PendingSuggestion, error) {
	if err := validateStage(req); err != nil {
		return nil, err
	}

	suggestion := newSuggestion(req)
	var created bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.suggestions.HasPending(ctx, suggestion.Type, suggestion.TargetKey)
		if err != nil {
			return fmt.Errorf("failed to check pending suggestions: %w", err)
		}
		if exists {
			return nil
		}
		created, err = s.suggestions.CreateIfAbsent(ctx, suggestion)
		if err != nil {
			return fmt.Errorf("failed to create suggestion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !created {
		if s.logger != nil {
			s.logger.Debug("suggestion already pending",
				zap.String("type", string(suggestion.Type)),
				zap.String("target", suggestion.TargetKey),
			)
		}
		return nil, nil
	}

	if s.logger != nil {
		s.logger.Info("📌 suggestion staged",
			zap.String("suggestion_id", suggestion.ID.String()),
			zap.String("type", string(suggestion.Type)),
			zap.String("target", suggestion.TargetKey),
			zap.Int("confidence", suggestion.Confidence),
		)
	}
	return suggestion, nil
}

func validateStage(req StageRequest) error {
	if !req.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", entities.ErrInvalidSuggestion, req.Type)
	}
	if req.TargetID == uuid.Nil {
		return fmt.Errorf("%w: target is required", entities.ErrInvalidSuggestion)
	}
	if req.Confidence < 0 || req.Confidence > 100 {
		return fmt.Errorf("%w: confidence %d out of range", entities.ErrInvalidSuggestion, req.Confidence)
	}

	switch req.Type {
	case entities.SuggestionCompanyLink:
		if req.TargetType != entities.OwnerContact || req.SuggestedCompanyID == nil {
			return fmt.Errorf("%w: companyLink needs a contact target and a suggested company", entities.ErrInvalidSuggestion)
		}
	case entities.SuggestionEnrichment:
		if req.TargetType != entities.OwnerContact {
			return fmt.Errorf("%w: enrichment targets a contact", entities.ErrInvalidSuggestion)
		}
	case entities.SuggestionCompanyEnrichment:
		if req.TargetType != entities.OwnerCompany {
			return fmt.Errorf("%w: companyEnrichment targets a company", entities.ErrInvalidSuggestion)
		}
	}
	return nil
}

func newSuggestion(req StageRequest) *entities.PendingSuggestion {
	data := datatypes.JSONMap{}
	for k, v := range req.SuggestedData {
		data[k] = v
	}

	s := &entities.PendingSuggestion{
		ID:                 uuid.New(),
		Type:               req.Type,
		SuggestedCompanyID: req.SuggestedCompanyID,
		TargetKey:          entities.TargetKey(req.TargetType, req.TargetID),
		SuggestedData:      data,
		Reason:             req.Reason,
		Confidence:         req.Confidence,
		Status:             entities.SuggestionPending,
		SourceMeetingID:    req.SourceMeetingID,
	}
	targetID := req.TargetID
	if req.TargetType == entities.OwnerCompany {
		s.TargetCompanyID = &targetID
	} else {
		s.TargetContactID = &targetID
	}
	return s
}

// Approve implements Service
func (s *suggestionService) Approve(ctx context.Context, id uuid.UUID, reviewer string) (*Decision, error) {
	decision := &Decision{FilledFields: []string{}}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		suggestion, err := s.review(ctx, id, entities.SuggestionApproved, reviewer)
		if err != nil {
			return err
		}
		decision.Suggestion = suggestion

		filled, err := s.apply(ctx, suggestion, reviewer)
		if err != nil {
			return err
		}
		decision.FilledFields = filled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordDecision(ctx, entities.AuditSuggestionApproved, reviewer, decision)
	return decision, nil
}

// Reject implements Service
func (s *suggestionService) Reject(ctx context.Context, id uuid.UUID, reviewer string) (*Decision, error) {
	decision := &Decision{FilledFields: []string{}}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		suggestion, err := s.review(ctx, id, entities.SuggestionRejected, reviewer)
		decision.Suggestion = suggestion
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recordDecision(ctx, entities.AuditSuggestionRejected, reviewer, decision)
	return decision, nil
}

// review performs the single pending -> status transition and reloads the row
func (s *suggestionService) review(ctx context.Context, id uuid.UUID, status entities.SuggestionStatus, reviewer string) (*entities.PendingSuggestion, error) {
	ok, err := s.suggestions.Review(ctx, id, status, reviewer, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to review suggestion: %w", err)
	}

	suggestion, err := s.suggestions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("suggestion %s is %s: %w", id, suggestion.Status, entities.ErrAlreadyReviewed)
	}
	return suggestion, nil
}

// apply writes the suggested data onto the target with fill-only semantics
func (s *suggestionService) apply(ctx context.Context, suggestion *entities.PendingSuggestion, reviewer string) ([]string, error) {
	ownerType, targetID := suggestion.Target()
	filled := []string{}

	switch suggestion.Type {
	case entities.SuggestionCompanyLink:
		contact, err := s.findContact(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if suggestion.SuggestedCompanyID == nil {
			return nil, fmt.Errorf("%w: no suggested company", entities.ErrInvalidSuggestion)
		}
		company, err := s.companies.FindByID(ctx, *suggestion.SuggestedCompanyID)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("%w: suggested company no longer exists", entities.ErrInvalidSuggestion)
			}
			return nil, err
		}
		ok, err := s.contacts.FillCompany(ctx, contact.ID, company.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to link company: %w", err)
		}
		if ok {
			filled = append(filled, "company_id")
		}
		org := suggestion.SuggestedString("organization")
		if org == "" {
			org = company.Name
		}
		if ok, err := s.contacts.FillEmpty(ctx, contact.ID, "organization", org); err != nil {
			return nil, fmt.Errorf("failed to fill organization: %w", err)
		} else if ok {
			filled = append(filled, "organization")
		}

	case entities.SuggestionEnrichment:
		contact, err := s.findContact(ctx, targetID)
		if err != nil {
			return nil, err
		}
		for _, column := range entities.ContactFillable {
			ok, err := s.contacts.FillEmpty(ctx, contact.ID, column, strings.TrimSpace(suggestion.SuggestedString(column)))
			if err != nil {
				return nil, fmt.Errorf("failed to fill %s: %w", column, err)
			}
			if ok {
				filled = append(filled, column)
			}
		}
		if err := s.addNameAlias(ctx, entities.OwnerContact, contact.ID, contact.Name, suggestion.SuggestedString("name"), reviewer); err != nil {
			return nil, err
		}

	case entities.SuggestionCompanyEnrichment:
		company, err := s.companies.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("%w: target company no longer exists", entities.ErrInvalidSuggestion)
			}
			return nil, err
		}
		for _, column := range entities.CompanyFillable {
			ok, err := s.companies.FillEmpty(ctx, company.ID, column, strings.TrimSpace(suggestion.SuggestedString(column)))
			if err != nil {
				return nil, fmt.Errorf("failed to fill %s: %w", column, err)
			}
			if ok {
				filled = append(filled, column)
			}
		}
		if err := s.addNameAlias(ctx, entities.OwnerCompany, company.ID, company.Name, suggestion.SuggestedString("name"), reviewer); err != nil {
			return nil, err
		}
	}

	if suggestion.SourceMeetingID != nil {
		if err := s.linkMeeting(ctx, *suggestion.SourceMeetingID, ownerType, targetID); err != nil {
			return nil, err
		}
	}
	return filled, nil
}

func (s *suggestionService) findContact(ctx context.Context, id uuid.UUID) (*entities.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: target contact no longer exists", entities.ErrInvalidSuggestion)
		}
		return nil, err
	}
	return contact, nil
}

// addNameAlias records the mentioned name when it differs from the record's own
func (s *suggestionService) addNameAlias(ctx context.Context, ownerType entities.OwnerType, ownerID uuid.UUID, current, mentioned, reviewer string) error {
	mentioned = strings.TrimSpace(mentioned)
	if mentioned == "" || strings.EqualFold(mentioned, strings.TrimSpace(current)) {
		return nil
	}
	alias := entities.NewAlias(ownerType, ownerID, mentioned, "", entities.AliasSourceManual, reviewer)
	if _, err := s.aliases.Add(ctx, alias); err != nil {
		return fmt.Errorf("failed to add alias: %w", err)
	}
	return nil
}

func (s *suggestionService) linkMeeting(ctx context.Context, meetingID uuid.UUID, ownerType entities.OwnerType, targetID uuid.UUID) error {
	var err error
	if ownerType == entities.OwnerCompany {
		err = s.meetings.LinkCompany(ctx, meetingID, targetID)
	} else {
		err = s.meetings.LinkContact(ctx, meetingID, targetID)
	}
	if err != nil {
		return fmt.Errorf("failed to link meeting: %w", err)
	}
	return nil
}

func (s *suggestionService) recordDecision(ctx context.Context, action entities.AuditAction, reviewer string, d *Decision) {
	ownerType, targetID := d.Suggestion.Target()
	entry := entities.NewAuditEntry(action, reviewer, "suggestion", d.Suggestion.ID.String())
	entry.RelatedID = targetID.String()
	entry.Details["type"] = string(d.Suggestion.Type)
	entry.Details["target_type"] = string(ownerType)
	entry.Details["confidence"] = d.Suggestion.Confidence
	entry.Details["filled_fields"] = d.FilledFields
	s.audit.Record(ctx, entry)

	if s.logger != nil {
		s.logger.Info("✅ suggestion reviewed",
			zap.String("suggestion_id", d.Suggestion.ID.String()),
			zap.String("decision", string(d.Suggestion.Status)),
			zap.String("reviewer", reviewer),
			zap.Strings("filled_fields", d.FilledFields),
		)
	}
}

// BulkApprove implements Service
func (s *suggestionService) BulkApprove(ctx context.Context, ids []uuid.UUID, reviewer string) BulkResult {
	return s.bulk(ctx, ids, "approve", func(id uuid.UUID) error {
		_, err := s.Approve(ctx, id, reviewer)
		return err
	})
}

// BulkReject implements Service
func (s *suggestionService) BulkReject(ctx context.Context, ids []uuid.UUID, reviewer string) BulkResult {
	return s.bulk(ctx, ids, "reject", func(id uuid.UUID) error {
		_, err := s.Reject(ctx, id, reviewer)
		return err
	})
}

// bulk runs op per item; one failure never stops the batch
func (s *suggestionService) bulk(ctx context.Context, ids []uuid.UUID, op string, fn func(uuid.UUID) error) BulkResult {
	result := BulkResult{Succeeded: []uuid.UUID{}, Failed: map[uuid.UUID]error{}}
	for _, id := range ids {
		if err := fn(id); err != nil {
			result.Failed[id] = err
			if s.logger != nil {
				s.logger.Warn("⚠️ bulk item failed",
					zap.String("op", op),
					zap.String("suggestion_id", id.String()),
					zap.Error(err),
				)
			}
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	if s.logger != nil {
		s.logger.Info("📊 bulk review finished",
			zap.String("op", op),
			zap.Int("succeeded", len(result.Succeeded)),
			zap.Int("failed", len(result.Failed)),
		)
	}
	return result
}

// List implements Service
func (s *suggestionService) List(ctx context.Context, filter repositories.SuggestionFilter) ([]*entities.PendingSuggestion, int64, error) {
	items, total, err := s.suggestions.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suggestions: %w", err)
	}
	return items, total, nil
}

// Get implements Service
func (s *suggestionService) Get(ctx context.Context, id uuid.UUID) (*entities.PendingSuggestion, error) {
	return s.suggestions.FindByID(ctx, id)
}
