package merge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/audit"
)

// Result describes what a merge did
type Result struct {
	KeepID            uuid.UUID `json:"keep_id"`
	LoseID            uuid.UUID `json:"lose_id"`
	FilledFields      []string  `json:"filled_fields"`
	AliasCreated      bool      `json:"alias_created"`
	LinksMoved        int64     `json:"links_moved"`
	ActionItemsMoved  int64     `json:"action_items_moved"`
	SuggestionsMoved  int       `json:"suggestions_moved"`
	ContactsRepointed int64     `json:"contacts_repointed,omitempty"`
	Warnings          []string  `json:"warnings,omitempty"`
}

// Engine merges duplicate contacts and companies into a surviving record.
// Each step tolerates the failure of earlier link transfers; re-running a
// merge whose loser is already gone returns entities.ErrNotFound.
type Engine struct {
	contacts    repositories.ContactRepository
	companies   repositories.CompanyRepository
	aliases     repositories.AliasRepository
	suggestions repositories.SuggestionRepository
	meetings    repositories.MeetingRepository
	audit       *audit.Logger
	logger      *zap.Logger
}

// NewEngine creates a merge engine
func NewEngine(
	contacts repositories.ContactRepository,
	companies repositories.CompanyRepository,
	aliases repositories.AliasRepository,
	suggestions repositories.SuggestionRepository,
	meetings repositories.MeetingRepository,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		contacts:    contacts,
		companies:   companies,
		aliases:     aliases,
		suggestions: suggestions,
		meetings:    meetings,
		audit:       auditLogger,
		logger:      logger,
	}
}

// MergeContacts folds loseID into keepID
func (e *Engine) MergeContacts(ctx context.Context, keepID, loseID uuid.UUID, actor string) (*Result, error) {
	if keepID == loseID {
		return nil, fmt.Errorf("%w: a contact cannot be merged into itself", entities.ErrInvalidMerge)
	}
	lose, err := e.contacts.FindByID(ctx, loseID)
	if err != nil {
		return nil, err
	}
	keep, err := e.contacts.FindByID(ctx, keepID)
	if err != nil {
		return nil, err
	}

	res := newResult(keepID, loseID)

	// (a) relationship links
	moved, err := e.meetings.TransferContactLinks(ctx, loseID, keepID)
	res.LinksMoved = moved
	e.warn(res, "transfer meeting links", err)

	moved, err = e.meetings.ReassignActionItems(ctx, loseID, keepID)
	res.ActionItemsMoved = moved
	e.warn(res, "reassign action items", err)

	res.SuggestionsMoved = e.moveSuggestions(ctx, res, entities.OwnerContact, loseID, keepID, actor)

	// (b) fill-only field copy
	for _, column := range entities.ContactFillable {
		ok, err := e.contacts.FillEmpty(ctx, keepID, column, lose.FieldValue(column))
		if err != nil {
			e.warn(res, "fill "+column, err)
			continue
		}
		if ok {
			res.FilledFields = append(res.FilledFields, column)
		}
	}
	if lose.CompanyID != nil {
		ok, err := e.contacts.FillCompany(ctx, keepID, *lose.CompanyID)
		e.warn(res, "fill company_id", err)
		if ok {
			res.FilledFields = append(res.FilledFields, "company_id")
		}
	}

	// (c) aliases; the loser's name must stay findable before it is deleted
	if differs(lose.Name, keep.Name) || (lose.Email != "" && differs(lose.Email, keep.Email)) {
		created, err := e.aliases.Add(ctx, entities.NewAlias(entities.OwnerContact, keepID, lose.Name, lose.Email, entities.AliasSourceMerge, actor))
		if err != nil {
			return res, fmt.Errorf("failed to record alias: %w", err)
		}
		res.AliasCreated = created
	}
	e.carryAliases(ctx, res, entities.OwnerContact, loseID, keepID, actor)

	// (d) delete
	if err := e.contacts.Delete(ctx, loseID); err != nil {
		return res, fmt.Errorf("failed to delete merged contact: %w", err)
	}

	// (e) audit
	e.record(ctx, entities.AuditContactMerged, "contact", actor, res, lose.Name)
	return res, nil
}

// MergeCompanies folds loseID into keepID and re-points its contacts
func (e *Engine) MergeCompanies(ctx context.Context, keepID, loseID uuid.UUID, actor string) (*Result, error) {
	if keepID == loseID {
		return nil, fmt.Errorf("%w: a company cannot be merged into itself", entities.ErrInvalidMerge)
	}
	lose, err := e.companies.FindByID(ctx, loseID)
	if err != nil {
		return nil, err
	}
	keep, err := e.companies.FindByID(ctx, keepID)
	if err != nil {
		return nil, err
	}

	res := newResult(keepID, loseID)

	moved, err := e.meetings.TransferCompanyLinks(ctx, loseID, keepID)
	res.LinksMoved = moved
	e.warn(res, "transfer meeting links", err)

	repointed, err := e.contacts.RepointCompany(ctx, loseID, keepID)
	res.ContactsRepointed = repointed
	e.warn(res, "re-point contacts", err)

	_, err = e.suggestions.RepointSuggestedCompany(ctx, loseID, keepID)
	e.warn(res, "re-point suggested company", err)

	res.SuggestionsMoved = e.moveSuggestions(ctx, res, entities.OwnerCompany, loseID, keepID, actor)

	for _, column := range entities.CompanyFillable {
		ok, err := e.companies.FillEmpty(ctx, keepID, column, lose.FieldValue(column))
		if err != nil {
			e.warn(res, "fill "+column, err)
			continue
		}
		if ok {
			res.FilledFields = append(res.FilledFields, column)
		}
	}

	if differs(lose.Name, keep.Name) {
		created, err := e.aliases.Add(ctx, entities.NewAlias(entities.OwnerCompany, keepID, lose.Name, "", entities.AliasSourceMerge, actor))
		if err != nil {
			return res, fmt.Errorf("failed to record alias: %w", err)
		}
		res.AliasCreated = created
	}
	e.carryAliases(ctx, res, entities.OwnerCompany, loseID, keepID, actor)

	if err := e.companies.Delete(ctx, loseID); err != nil {
		return res, fmt.Errorf("failed to delete merged company: %w", err)
	}

	e.record(ctx, entities.AuditCompanyMerged, "company", actor, res, lose.Name)
	return res, nil
}

// AddAlias records a manual alias for an existing contact or company.
// Returns the alias and whether it was new.
func (e *Engine) AddAlias(ctx context.Context, ownerType entities.OwnerType, ownerID uuid.UUID, name, email, actor string) (*entities.Alias, bool, error) {
	if !ownerType.IsValid() {
		return nil, false, fmt.Errorf("%w: unknown owner type %q", entities.ErrInvalidRequest, ownerType)
	}
	if strings.TrimSpace(name) == "" {
		return nil, false, fmt.Errorf("%w: alias name is required", entities.ErrInvalidRequest)
	}

	var err error
	if ownerType == entities.OwnerCompany {
		_, err = e.companies.FindByID(ctx, ownerID)
	} else {
		_, err = e.contacts.FindByID(ctx, ownerID)
	}
	if err != nil {
		return nil, false, err
	}

	alias := entities.NewAlias(ownerType, ownerID, name, email, entities.AliasSourceManual, actor)
	created, err := e.aliases.Add(ctx, alias)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add alias: %w", err)
	}

	if created {
		entry := entities.NewAuditEntry(entities.AuditAliasAdded, actor, string(ownerType), ownerID.String())
		entry.Details["alias_name"] = alias.AliasName
		if alias.AliasEmail != "" {
			entry.Details["alias_email"] = alias.AliasEmail
		}
		e.audit.Record(ctx, entry)
	}
	return alias, created, nil
}

// moveSuggestions retargets pending suggestions from the loser to the survivor.
// When the survivor already has one of the same type pending, the loser's is
// rejected instead so the one-pending-per-target rule holds.
func (e *Engine) moveSuggestions(ctx context.Context, res *Result, ownerType entities.OwnerType, loseID, keepID uuid.UUID, actor string) int {
	pending, err := e.suggestions.FindPendingByTarget(ctx, ownerType, loseID)
	if err != nil {
		e.warn(res, "load pending suggestions", err)
		return 0
	}

	moved := 0
	keepKey := entities.TargetKey(ownerType, keepID)
	for _, s := range pending {
		exists, err := e.suggestions.HasPending(ctx, s.Type, keepKey)
		if err != nil {
			e.warn(res, "check pending suggestion", err)
			continue
		}
		if exists {
			if _, err := e.suggestions.Review(ctx, s.ID, entities.SuggestionRejected, mergeReviewer(actor), timeNow()); err != nil {
				e.warn(res, "reject superseded suggestion", err)
			}
			continue
		}
		if err := e.suggestions.Retarget(ctx, s.ID, ownerType, keepID); err != nil {
			e.warn(res, "retarget suggestion", err)
			continue
		}
		moved++
	}
	return moved
}

// carryAliases copies the loser's aliases onto the survivor; the originals stay
func (e *Engine) carryAliases(ctx context.Context, res *Result, ownerType entities.OwnerType, loseID, keepID uuid.UUID, actor string) {
	existing, err := e.aliases.FindByOwner(ctx, ownerType, loseID)
	if err != nil {
		e.warn(res, "load aliases", err)
		return
	}
	for _, a := range existing {
		_, err := e.aliases.Add(ctx, entities.NewAlias(ownerType, keepID, a.AliasName, a.AliasEmail, entities.AliasSourceMerge, actor))
		e.warn(res, "carry alias", err)
	}
}

// warn logs a failed step and keeps going
func (e *Engine) warn(res *Result, step string, err error) {
	if err == nil {
		return
	}
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", step, err))
	if e.logger != nil {
		e.logger.Warn("⚠️ merge step failed",
			zap.String("step", step),
			zap.String("keep_id", res.KeepID.String()),
			zap.String("lose_id", res.LoseID.String()),
			zap.Error(err),
		)
	}
}

func (e *Engine) record(ctx context.Context, action entities.AuditAction, entityType, actor string, res *Result, loserName string) {
	entry := entities.NewAuditEntry(action, actor, entityType, res.KeepID.String())
	entry.RelatedID = res.LoseID.String()
	entry.Details["lose_name"] = loserName
	entry.Details["filled_fields"] = res.FilledFields
	entry.Details["links_moved"] = res.LinksMoved
	entry.Details["alias_created"] = res.AliasCreated
	if len(res.Warnings) > 0 {
		entry.Details["warnings"] = res.Warnings
	}
	e.audit.Record(ctx, entry)

	if e.logger != nil {
		e.logger.Info("🔀 records merged",
			zap.String("entity_type", entityType),
			zap.String("keep_id", res.KeepID.String()),
			zap.String("lose_id", res.LoseID.String()),
			zap.Strings("filled_fields", res.FilledFields),
			zap.Int("warnings", len(res.Warnings)),
		)
	}
}

var timeNow = func() time.Time { return time.Now().UTC() }

func newResult(keepID, loseID uuid.UUID) *Result {
	return &Result{KeepID: keepID, LoseID: loseID, FilledFields: []string{}}
}

func differs(a, b string) bool {
	return !strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func mergeReviewer(actor string) string {
	if actor == "" {
		return "merge"
	}
	return actor
}
