package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"live-lottery-engine/internal/pkg/db"
)

// HealthChecker reports backing-store liveness and pool usage.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() db.PoolStats
}

// Handlers bundles everything the router mounts.
type Handlers struct {
	Chance     *ChanceHandler
	Submission *SubmissionHandler
	Slot       *SlotHandler
	Inventory  *InventoryHandler
	Admin      *AdminHandler
	Health     HealthChecker
}

// NewRouter wires all routes. Identity middleware guards /api; admin routes
// additionally require the admin role.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if err := h.Health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "pool": h.Health.Stats()})
	})

	api := r.Group("/api", UserContext())
	{
		api.GET("/chance", h.Chance.Get)

		api.POST("/submissions", h.Submission.Create)
		api.GET("/submissions", h.Submission.ListMine)
		api.GET("/submissions/:id", h.Submission.Get)

		api.GET("/slot/account", h.Slot.GetAccount)
		api.POST("/slot/spin", h.Slot.Spin)

		api.GET("/tickets", h.Inventory.ListTickets)
		api.GET("/items/catalog", h.Inventory.GetCatalog)
		api.GET("/items", h.Inventory.ListItems)
		api.POST("/items/:id/activate", h.Inventory.Activate)

		admin := api.Group("/admin", RequireAdmin())
		{
			admin.GET("/submissions", h.Submission.ListAll)
			admin.PATCH("/submissions/:id", h.Submission.Patch)
			admin.DELETE("/submissions", h.Admin.Purge)
			admin.POST("/tickets/grant", h.Admin.GrantTickets)
			admin.PUT("/settings/time-offset", h.Admin.SetTimeOffset)
		}
	}

	return r
}
