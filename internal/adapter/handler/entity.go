package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	reviewDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/review"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/merge"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/resolution"
)

// Entity handles contact and company lookups, merges, aliases and duplicate scans
type Entity struct {
	corpus resolution.CorpusLoader
	merger *merge.Engine
	scans  *resolution.ScanJobRunner
	logger *zap.Logger
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(corpus resolution.CorpusLoader, merger *merge.Engine, scans *resolution.ScanJobRunner, logger *zap.Logger) *Entity {
	return &Entity{corpus: corpus, merger: merger, scans: scans, logger: logger}
}

// ResolveContact handles POST /contacts/resolve
// @Summary      Resolve contact
// @Description  Ranks existing contacts against a name, email and organization
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.ResolveContactRequest  true  "Contact to resolve"
// @Success      200      {object}  map[string][]review.MatchResponse  "Ranked matches"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      500      {object}  map[string]interface{}  "Failed to load contacts"
// @Router       /contacts/resolve [post]
func (h *Entity) ResolveContact(c echo.Context) error {
	var req reviewDTO.ResolveContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	floor := req.Floor
	if floor == 0 {
		floor = resolution.FloorAnyPositive
	}

	corpus, err := h.corpus(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	matches := resolution.Resolve(resolution.Query{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
	}, corpus, floor)

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"matches": presenter.ToMatchResponses(matches),
	})
}

// MergeContacts handles POST /contacts/merge
// @Summary      Merge contacts
// @Description  Merges the lose contact into the keep contact and moves its links
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.MergeRequest  true  "Keep and lose IDs"
// @Success      200      {object}  merge.Result  "Merge outcome"
// @Failure      400      {object}  map[string]interface{}  "Invalid IDs or merge not allowed"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Record not found"
// @Failure      500      {object}  map[string]interface{}  "Merge failed"
// @Router       /contacts/merge [post]
func (h *Entity) MergeContacts(c echo.Context) error {
	keepID, loseID, err := bindMerge(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	res, err := h.merger.MergeContacts(c.Request().Context(), keepID, loseID, middleware.ActorID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}

// MergeCompanies handles POST /companies/merge
// @Summary      Merge companies
// @Description  Merges the lose company into the keep company and repoints its contacts
// @Tags         Companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.MergeRequest  true  "Keep and lose IDs"
// @Success      200      {object}  merge.Result  "Merge outcome"
// @Failure      400      {object}  map[string]interface{}  "Invalid IDs or merge not allowed"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Record not found"
// @Failure      500      {object}  map[string]interface{}  "Merge failed"
// @Router       /companies/merge [post]
func (h *Entity) MergeCompanies(c echo.Context) error {
	keepID, loseID, err := bindMerge(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	res, err := h.merger.MergeCompanies(c.Request().Context(), keepID, loseID, middleware.ActorID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}

// AddContactAlias handles POST /contacts/:id/aliases
// @Summary      Add contact alias
// @Description  Records an alternate name or email for a contact
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Contact ID (UUID)"
// @Param        request  body      review.AddAliasRequest  true  "Alias"
// @Success      200      {object}  review.AliasResponse  "Alias recorded"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Contact not found"
// @Router       /contacts/{id}/aliases [post]
func (h *Entity) AddContactAlias(c echo.Context) error {
	return h.addAlias(c, entities.OwnerContact)
}

// AddCompanyAlias handles POST /companies/:id/aliases
// @Summary      Add company alias
// @Description  Records an alternate name for a company
// @Tags         Companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Company ID (UUID)"
// @Param        request  body      review.AddAliasRequest  true  "Alias"
// @Success      200      {object}  review.AliasResponse  "Alias recorded"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Company not found"
// @Router       /companies/{id}/aliases [post]
func (h *Entity) AddCompanyAlias(c echo.Context) error {
	return h.addAlias(c, entities.OwnerCompany)
}

func (h *Entity) addAlias(c echo.Context, ownerType entities.OwnerType) error {
	ownerID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req reviewDTO.AddAliasRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	alias, created, err := h.merger.AddAlias(c.Request().Context(), ownerType, ownerID, req.Name, req.Email, middleware.ActorID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAliasResponse(alias, created))
}

// StartDuplicateScan handles POST /duplicates/scan
// @Summary      Start duplicate scan
// @Description  Starts a background scan for likely duplicate contacts
// @Tags         Duplicates
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  resolution.ScanJob  "Scan started"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Router       /duplicates/scan [post]
func (h *Entity) StartDuplicateScan(c echo.Context) error {
	job := h.scans.Start(middleware.ActorID(c))
	return HandleSuccess(h.logger, c, job)
}

// GetDuplicateScan handles GET /duplicates/scan/:id
// @Summary      Get duplicate scan
// @Description  Returns a scan and its pairs once completed. Finished scans expire after an hour.
// @Tags         Duplicates
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Scan ID (UUID)"
// @Success      200      {object}  resolution.ScanJob  "Scan status"
// @Failure      400      {object}  map[string]interface{}  "Invalid scan ID"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Scan not found or expired"
// @Router       /duplicates/scan/{id} [get]
func (h *Entity) GetDuplicateScan(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	job, err := h.scans.Get(id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, job)
}

func bindMerge(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	var req reviewDTO.MergeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	ids, err := parseUUIDs([]string{req.KeepID, req.LoseID})
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return ids[0], ids[1], nil
}
