package delivery

import (
	"net/http"
	"strconv"

	authdelivery "mailboard-backend/internal/auth/delivery"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/internal/kanban/usecase"
	"mailboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// KanbanHandler exposes the board over HTTP. All routes require auth.
type KanbanHandler struct {
	columns   usecase.ColumnUsecase
	board     usecase.BoardUsecase
	pins      usecase.PinUsecase
	snoozes   usecase.SnoozeUsecase
	summaries usecase.SummaryUsecase
}

// NewKanbanHandler creates a new instance of KanbanHandler
func NewKanbanHandler(
	columns usecase.ColumnUsecase,
	board usecase.BoardUsecase,
	pins usecase.PinUsecase,
	snoozes usecase.SnoozeUsecase,
	summaries usecase.SummaryUsecase,
) *KanbanHandler {
	return &KanbanHandler{
		columns:   columns,
		board:     board,
		pins:      pins,
		snoozes:   snoozes,
		summaries: summaries,
	}
}

func (h *KanbanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	kanban := rg.Group("/kanban")
	{
		kanban.GET("/columns", h.ListColumns)
		kanban.POST("/columns", h.CreateColumn)
		kanban.PUT("/columns/reorder", h.ReorderColumns)
		kanban.PUT("/columns/:id", h.UpdateColumn)
		kanban.DELETE("/columns/:id", h.DeleteColumn)
		kanban.GET("/columns/:id/emails", h.GetColumnEmails)
		kanban.GET("/labels/available", h.ListAvailableLabels)

		kanban.GET("/snoozed", h.GetSnoozedColumn)

		kanban.POST("/emails/move", h.MoveEmail)
		kanban.POST("/emails/batch-move", h.BatchMoveEmails)
		kanban.POST("/emails/reorder", h.ReorderEmails)

		kanban.POST("/emails/pin", h.PinEmail)
		kanban.DELETE("/emails/:emailId/pin", h.UnpinEmail)
		kanban.POST("/emails/priority", h.SetPriority)

		kanban.POST("/emails/snooze", h.SnoozeEmail)
		kanban.DELETE("/emails/:emailId/snooze", h.UnsnoozeEmail)

		kanban.POST("/emails/:emailId/summary", h.SummarizeEmail)
		kanban.DELETE("/emails/:emailId/summary", h.DeleteSummary)
		kanban.POST("/emails/batch-summarize", h.BatchSummarize)
		kanban.GET("/summaries/stats", h.GetSummaryStats)
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
}

func (h *KanbanHandler) ListColumns(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	columns, err := h.columns.ListColumns(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *KanbanHandler) CreateColumn(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	column, err := h.columns.CreateColumn(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

func (h *KanbanHandler) UpdateColumn(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	column, err := h.columns.UpdateColumn(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func (h *KanbanHandler) DeleteColumn(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	if err := h.columns.DeleteColumn(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "column deleted"})
}

func (h *KanbanHandler) ReorderColumns(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	columns, err := h.columns.ReorderColumns(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *KanbanHandler) ListAvailableLabels(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	labels, err := h.columns.ListAvailableLabels(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

func (h *KanbanHandler) GetColumnEmails(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	pageSize := 0
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pageSize"})
			return
		}
		pageSize = n
	}
	page, err := h.board.GetColumn(c.Request.Context(), userID, c.Param("id"), c.Query("query"), c.Query("pageToken"), pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *KanbanHandler) GetSnoozedColumn(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	emails, err := h.board.GetSnoozedColumn(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

func (h *KanbanHandler) MoveEmail(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.MoveEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.board.MoveEmailToColumn(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email moved"})
}

func (h *KanbanHandler) BatchMoveEmails(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.BatchMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.board.BatchMoveEmails(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KanbanHandler) ReorderEmails(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.ReorderEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.board.ReorderEmails(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email reordered"})
}

func (h *KanbanHandler) PinEmail(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.PinEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.pins.PinEmail(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email pinned"})
}

func (h *KanbanHandler) UnpinEmail(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	if err := h.pins.UnpinEmail(c.Request.Context(), userID, c.Param("emailId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email unpinned"})
}

func (h *KanbanHandler) SetPriority(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.pins.SetPriority(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "priority updated"})
}

func (h *KanbanHandler) SnoozeEmail(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.SnoozeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.snoozes.SnoozeEmail(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email snoozed"})
}

func (h *KanbanHandler) UnsnoozeEmail(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	if err := h.snoozes.UnsnoozeEmail(c.Request.Context(), userID, c.Param("emailId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email unsnoozed"})
}

func (h *KanbanHandler) SummarizeEmail(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.summaries.GetOrCreateSummary(c.Request.Context(), userID, c.Param("emailId"), req.Force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *KanbanHandler) DeleteSummary(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	if err := h.summaries.DeleteSummary(c.Request.Context(), userID, c.Param("emailId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "summary deleted"})
}

func (h *KanbanHandler) BatchSummarize(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	var req dto.BatchSummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.summaries.BatchSummarize(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KanbanHandler) GetSummaryStats(c *gin.Context) {
	userID := authdelivery.CurrentUserID(c)
	stats, err := h.summaries.GetSummaryStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
