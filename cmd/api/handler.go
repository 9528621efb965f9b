package api

import (
	authUsecasePkg "mailboard-backend/internal/auth/usecase"
	kanbanUsecasePkg "mailboard-backend/internal/kanban/usecase"
	"mailboard-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecasePkg.AuthUsecase
	columnUsecase  kanbanUsecasePkg.ColumnUsecase
	boardUsecase   kanbanUsecasePkg.BoardUsecase
	pinUsecase     kanbanUsecasePkg.PinUsecase
	snoozeUsecase  kanbanUsecasePkg.SnoozeUsecase
	summaryUsecase kanbanUsecasePkg.SummaryUsecase
	config         *config.Config
}

func NewHandler(
	authUc authUsecasePkg.AuthUsecase,
	columnUc kanbanUsecasePkg.ColumnUsecase,
	boardUc kanbanUsecasePkg.BoardUsecase,
	pinUc kanbanUsecasePkg.PinUsecase,
	snoozeUc kanbanUsecasePkg.SnoozeUsecase,
	summaryUc kanbanUsecasePkg.SummaryUsecase,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:    authUc,
		columnUsecase:  columnUc,
		boardUsecase:   boardUc,
		pinUsecase:     pinUc,
		snoozeUsecase:  snoozeUc,
		summaryUsecase: summaryUc,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
