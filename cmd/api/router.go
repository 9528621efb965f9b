package api

import (
	"net/http"

	authDelivery "mailboard-backend/internal/auth/delivery"
	kanbanDelivery "mailboard-backend/internal/kanban/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := authDelivery.NewAuthHandler(h.authUsecase)
	kanbanHandler := kanbanDelivery.NewKanbanHandler(
		h.columnUsecase,
		h.boardUsecase,
		h.pinUsecase,
		h.snoozeUsecase,
		h.summaryUsecase,
	)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		authHandler.RegisterRoutes(api)

		// Kanban routes (protected)
		protected := api.Group("")
		protected.Use(authDelivery.AuthMiddleware(h.authUsecase))
		kanbanHandler.RegisterRoutes(protected)
	}
}
