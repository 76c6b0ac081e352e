package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/common"
	reviewDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/review"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/suggestion"
)

const defaultPageSize = 50

// Review handles the suggestion review queue
type Review struct {
	svc    suggestion.Service
	logger *zap.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(svc suggestion.Service, logger *zap.Logger) *Review {
	return &Review{svc: svc, logger: logger}
}

// List handles GET /suggestions. Status defaults to pending.
// @Summary      List suggestions
// @Description  Lists staged suggestions, pending by default, newest first
// @Tags         Suggestions
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "pending, approved or rejected"
// @Param        type       query     string  false  "companyLink, enrichment or companyEnrichment"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size, at most 200"
// @Success      200      {object}  common.ListResponse  "Suggestions"
// @Failure      400      {object}  map[string]interface{}  "Invalid filter"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      500      {object}  map[string]interface{}  "Failed to list suggestions"
// @Router       /suggestions [get]
func (h *Review) List(c echo.Context) error {
	var req reviewDTO.ListSuggestionsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if req.Status == "" {
		req.Status = string(entities.SuggestionPending)
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}

	list, total, err := h.svc.List(c.Request().Context(), repositories.SuggestionFilter{
		Status: entities.SuggestionStatus(req.Status),
		Type:   entities.SuggestionType(req.Type),
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, common.ListResponse{
		Data:       presenter.ToSuggestionResponses(list),
		Pagination: common.NewPagination(req.Page, req.PageSize, total),
	})
}

// Get handles GET /suggestions/:id
// @Summary      Get suggestion
// @Description  Returns one suggestion
// @Tags         Suggestions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Suggestion ID (UUID)"
// @Success      200      {object}  review.SuggestionResponse  "Suggestion"
// @Failure      400      {object}  map[string]interface{}  "Invalid suggestion ID"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Suggestion not found"
// @Router       /suggestions/{id} [get]
func (h *Review) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	s, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSuggestionResponse(s))
}

// Approve handles POST /suggestions/:id/approve
// @Summary      Approve suggestion
// @Description  Applies a pending suggestion to its target record
// @Tags         Suggestions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Suggestion ID (UUID)"
// @Success      200      {object}  review.DecisionResponse  "Suggestion approved"
// @Failure      400      {object}  map[string]interface{}  "Invalid suggestion ID"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Suggestion not found"
// @Failure      409      {object}  map[string]interface{}  "Suggestion already reviewed"
// @Failure      422      {object}  map[string]interface{}  "Suggestion can no longer be applied"
// @Router       /suggestions/{id}/approve [post]
func (h *Review) Approve(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	decision, err := h.svc.Approve(c.Request().Context(), id, middleware.ActorID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToDecisionResponse(decision))
}

// Reject handles POST /suggestions/:id/reject
// @Summary      Reject suggestion
// @Description  Marks a pending suggestion rejected without touching its target
// @Tags         Suggestions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Suggestion ID (UUID)"
// @Success      200      {object}  review.DecisionResponse  "Suggestion rejected"
// @Failure      400      {object}  map[string]interface{}  "Invalid suggestion ID"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Failure      404      {object}  map[string]interface{}  "Suggestion not found"
// @Failure      409      {object}  map[string]interface{}  "Suggestion already reviewed"
// @Router       /suggestions/{id}/reject [post]
func (h *Review) Reject(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	decision, err := h.svc.Reject(c.Request().Context(), id, middleware.ActorID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToDecisionResponse(decision))
}

// BulkApprove handles POST /suggestions/bulk-approve
// @Summary      Bulk approve suggestions
// @Description  Approves each listed suggestion on its own and reports per-id failures
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.BulkReviewRequest  true  "Suggestion IDs"
// @Success      200      {object}  review.BulkReviewResponse  "Review outcome"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Router       /suggestions/bulk-approve [post]
func (h *Review) BulkApprove(c echo.Context) error {
	return h.bulk(c, h.svc.BulkApprove)
}

// BulkReject handles POST /suggestions/bulk-reject
// @Summary      Bulk reject suggestions
// @Description  Rejects each listed suggestion on its own and reports per-id failures
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.BulkReviewRequest  true  "Suggestion IDs"
// @Success      200      {object}  review.BulkReviewResponse  "Review outcome"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Router       /suggestions/bulk-reject [post]
func (h *Review) BulkReject(c echo.Context) error {
	return h.bulk(c, h.svc.BulkReject)
}

type bulkFunc func(ctx context.Context, ids []uuid.UUID, reviewer string) suggestion.BulkResult

func (h *Review) bulk(c echo.Context, fn bulkFunc) error {
	var req reviewDTO.BulkReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	res := fn(c.Request().Context(), ids, middleware.ActorID(c))
	return HandleSuccess(h.logger, c, presenter.ToBulkReviewResponse(res))
}
