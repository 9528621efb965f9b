package usecase

import (
	"context"
	"time"

	"mailboard-backend/internal/kanban/dto"
)

// ColumnUsecase manages the column lifecycle and label mapping.
type ColumnUsecase interface {
	ListColumns(ctx context.Context, userID string) ([]dto.ColumnResponse, error)
	ListAvailableLabels(ctx context.Context, userID string) ([]dto.AvailableLabelResponse, error)
	CreateColumn(ctx context.Context, userID string, req dto.CreateColumnRequest) (*dto.ColumnResponse, error)
	UpdateColumn(ctx context.Context, userID, columnID string, req dto.UpdateColumnRequest) (*dto.ColumnResponse, error)
	DeleteColumn(ctx context.Context, userID, columnID string) error
	ReorderColumns(ctx context.Context, userID string, req dto.ReorderColumnsRequest) ([]dto.ColumnResponse, error)
}

// BoardUsecase merges provider pages with local overlays into the board view
// and applies cross-column moves and in-column reorders.
type BoardUsecase interface {
	GetColumn(ctx context.Context, userID, columnID, query, pageToken string, pageSize int) (*dto.ColumnPageResponse, error)
	GetSnoozedColumn(ctx context.Context, userID string) ([]dto.SnoozedEmailResponse, error)
	MoveEmailToColumn(ctx context.Context, userID string, req dto.MoveEmailRequest) error
	BatchMoveEmails(ctx context.Context, userID string, req dto.BatchMoveRequest) (*dto.BatchMoveResponse, error)
	ReorderEmails(ctx context.Context, userID string, req dto.ReorderEmailsRequest) error
}

// PinUsecase manages the pin/priority overlay.
type PinUsecase interface {
	PinEmail(ctx context.Context, userID string, req dto.PinEmailRequest) error
	UnpinEmail(ctx context.Context, userID, emailID string) error
	SetPriority(ctx context.Context, userID string, req dto.SetPriorityRequest) error
}

// SnoozeUsecase manages snooze rows and runs the background restore sweep.
// The snoozed board view itself is served by BoardUsecase.GetSnoozedColumn.
type SnoozeUsecase interface {
	SnoozeEmail(ctx context.Context, userID string, req dto.SnoozeEmailRequest) error
	UnsnoozeEmail(ctx context.Context, userID, emailID string) error
	RestoreDueEmails(now time.Time) (int, error)
	Start()
	Stop()
}

// SummaryUsecase manages the summary cache around the external summarizer.
type SummaryUsecase interface {
	GetOrCreateSummary(ctx context.Context, userID, emailID string, force bool) (*dto.SummaryResponse, error)
	BatchSummarize(ctx context.Context, userID string, req dto.BatchSummarizeRequest) (*dto.BatchSummarizeResponse, error)
	GetSummaryStats(ctx context.Context, userID string) (*dto.SummaryStatsResponse, error)
	DeleteSummary(ctx context.Context, userID, emailID string) error
}
