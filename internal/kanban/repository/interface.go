package repository

import (
	"time"

	"mailboard-backend/internal/kanban/domain"
)

// ColumnRepository persists board column configurations.
type ColumnRepository interface {
	Create(column *domain.ColumnConfig) error
	Update(column *domain.ColumnConfig) error
	FindByID(userID, columnID string) (*domain.ColumnConfig, error)
	FindActiveByUser(userID string) ([]domain.ColumnConfig, error)
	FindByLabelID(userID, labelID string) (*domain.ColumnConfig, error)
	MaxDisplayOrder(userID string) (int, error)
	Deactivate(userID, columnID string) error
}

// EmailOrderRepository persists manual email positions within columns.
type EmailOrderRepository interface {
	Upsert(entry *domain.EmailOrderEntry) error
	FindByColumn(userID, columnID string) ([]domain.EmailOrderEntry, error)
	FindByColumnPaged(userID, columnID string, offset, limit int) ([]domain.EmailOrderEntry, error)
	CountByColumn(userID, columnID string) (int64, error)
	ReplaceColumnKeys(userID, columnID string, emailIDs []string, keys []float64) error
	DeleteByEmailExcept(userID, emailID, exceptColumnID string) error
	DeleteByColumn(userID, columnID string) error
}

// PriorityRepository persists pin state and priority levels.
type PriorityRepository interface {
	Upsert(priority *domain.EmailPriority) error
	FindByEmail(userID, emailID string) (*domain.EmailPriority, error)
	FindByEmails(userID string, emailIDs []string) (map[string]domain.EmailPriority, error)
	FindPinnedByColumn(userID, columnID string) ([]domain.EmailPriority, error)
	MaxPinnedOrder(userID, columnID string) (float64, error)
	UpdatePinnedOrder(id string, key float64) error
	Unpin(userID, emailID string) error
}

// SnoozeRepository persists snooze rows and drives the restore sweep.
type SnoozeRepository interface {
	Upsert(snooze *domain.EmailSnooze) error
	FindActiveByEmail(userID, emailID string) (*domain.EmailSnooze, error)
	FindActiveByUser(userID string) ([]domain.EmailSnooze, error)
	FindActiveByEmails(userID string, emailIDs []string) (map[string]domain.EmailSnooze, error)
	FindDue(now time.Time, limit int) ([]domain.EmailSnooze, error)
	MarkRestored(id string, restoredAt time.Time) (bool, error)
	CancelByEmail(userID, emailID string) (bool, error)
}

// SummaryRepository caches AI-generated email summaries.
type SummaryRepository interface {
	Upsert(summary *domain.EmailSummary) error
	FindByEmail(userID, emailID string) (*domain.EmailSummary, error)
	FindByEmails(userID string, emailIDs []string) (map[string]domain.EmailSummary, error)
	DeleteByEmail(userID, emailID string) error
	CountByUser(userID string) (int64, error)
	LatestByUser(userID string, limit int) ([]domain.EmailSummary, error)
}
