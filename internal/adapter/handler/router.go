package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// Handlers groups the route handlers; nil handlers answer 501
type Handlers struct {
	Ingest  *Ingest
	Webhook *WebhookHandler
	Review  *Review
	Entity  *Entity
}

// Router holds all handlers
type Router struct {
	cfg      *config.Config
	auth     echo.MiddlewareFunc
	handlers Handlers
	ping     func(ctx context.Context) error
}

// NewRouter creates a new router with all handlers. auth guards every /v1
// route except the signed webhook; nil leaves them open. ping backs /health.
func NewRouter(cfg *config.Config, auth echo.MiddlewareFunc, handlers Handlers, ping func(ctx context.Context) error) *Router {
	return &Router{
		cfg:      cfg,
		auth:     auth,
		handlers: handlers,
		ping:     ping,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")
	rt.setupWebhookRoutes(v1)

	var middlewares []echo.MiddlewareFunc
	if rt.auth != nil {
		middlewares = append(middlewares, rt.auth)
	}
	api := v1.Group("", middlewares...)

	rt.setupIngestRoutes(api)
	rt.setupSuggestionRoutes(api)
	rt.setupEntityRoutes(api)
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if h := rt.handlers.Webhook; h != nil {
		g.POST("/webhooks/ingest", h.HandleIngest)
		return
	}
	g.POST("/webhooks/ingest", rt.notImplemented)
}

func (rt *Router) setupIngestRoutes(g *echo.Group) {
	h := rt.handlers.Ingest
	if h == nil {
		g.POST("/ingest", rt.notImplemented)
		g.POST("/ingest/audio", rt.notImplemented)
		g.GET("/ingest/jobs/:id", rt.notImplemented)
		return
	}
	g.POST("/ingest", h.Ingest)
	g.POST("/ingest/audio", h.UploadAudio)
	g.GET("/ingest/jobs/:id", h.GetJob)
}

func (rt *Router) setupSuggestionRoutes(g *echo.Group) {
	group := g.Group("/suggestions")

	h := rt.handlers.Review
	if h == nil {
		group.Any("*", rt.notImplemented)
		return
	}
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("/:id/approve", h.Approve)
	group.POST("/:id/reject", h.Reject)
	group.POST("/bulk-approve", h.BulkApprove)
	group.POST("/bulk-reject", h.BulkReject)
}

func (rt *Router) setupEntityRoutes(g *echo.Group) {
	h := rt.handlers.Entity
	if h == nil {
		g.Any("/contacts/*", rt.notImplemented)
		g.Any("/companies/*", rt.notImplemented)
		g.Any("/duplicates/*", rt.notImplemented)
		return
	}
	g.POST("/contacts/resolve", h.ResolveContact)
	g.POST("/contacts/merge", h.MergeContacts)
	g.POST("/contacts/:id/aliases", h.AddContactAlias)
	g.POST("/companies/merge", h.MergeCompanies)
	g.POST("/companies/:id/aliases", h.AddCompanyAlias)
	g.POST("/duplicates/scan", h.StartDuplicateScan)
	g.GET("/duplicates/scan/:id", h.GetDuplicateScan)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status, 503 when the database is unreachable
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	body := map[string]interface{}{
		"status":      "ok",
		"environment": environment,
		"time":        time.Now().UTC().Format(time.RFC3339),
	}

	if rt.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := rt.ping(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
	}
	return c.JSON(http.StatusOK, body)
}
