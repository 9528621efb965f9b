package repository

import (
	"errors"
	"time"

	"mailboard-backend/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type priorityRepository struct {
	db *gorm.DB
}

// NewPriorityRepository creates a new instance of priorityRepository
func NewPriorityRepository(db *gorm.DB) PriorityRepository {
	return &priorityRepository{db: db}
}

// Upsert writes the pin/priority overlay keyed on (user, email).
func (r *priorityRepository) Upsert(priority *domain.EmailPriority) error {
	if priority.ID == "" {
		priority.ID = uuid.New().String()
	}
	now := time.Now()
	priority.CreatedAt = now
	priority.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "email_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"column_id":      priority.ColumnID,
			"is_pinned":      priority.IsPinned,
			"pinned_order":   priority.PinnedOrder,
			"priority_level": priority.PriorityLevel,
			"updated_at":     now,
		}),
	}).Create(priority).Error
}

func (r *priorityRepository) FindByEmail(userID, emailID string) (*domain.EmailPriority, error) {
	var priority domain.EmailPriority
	err := r.db.Where("user_id = ? AND email_id = ?", userID, emailID).
		First(&priority).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &priority, nil
}

func (r *priorityRepository) FindByEmails(userID string, emailIDs []string) (map[string]domain.EmailPriority, error) {
	result := make(map[string]domain.EmailPriority, len(emailIDs))
	if len(emailIDs) == 0 {
		return result, nil
	}
	var priorities []domain.EmailPriority
	err := r.db.Where("user_id = ? AND email_id IN ?", userID, emailIDs).
		Find(&priorities).Error
	if err != nil {
		return nil, err
	}
	for _, p := range priorities {
		result[p.EmailID] = p
	}
	return result, nil
}

func (r *priorityRepository) FindPinnedByColumn(userID, columnID string) ([]domain.EmailPriority, error) {
	var priorities []domain.EmailPriority
	err := r.db.Where("user_id = ? AND column_id = ? AND is_pinned = ?", userID, columnID, true).
		Order("pinned_order ASC").
		Find(&priorities).Error
	return priorities, err
}

func (r *priorityRepository) MaxPinnedOrder(userID, columnID string) (float64, error) {
	var max *float64
	err := r.db.Model(&domain.EmailPriority{}).
		Where("user_id = ? AND column_id = ? AND is_pinned = ?", userID, columnID, true).
		Select("MAX(pinned_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// UpdatePinnedOrder rewrites one row's pin key, used when the pinned section
// is rebalanced.
func (r *priorityRepository) UpdatePinnedOrder(id string, key float64) error {
	return r.db.Model(&domain.EmailPriority{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pinned_order": key,
			"updated_at":   time.Now(),
		}).Error
}

// Unpin clears the pin flag but keeps the row so the priority level survives.
func (r *priorityRepository) Unpin(userID, emailID string) error {
	return r.db.Model(&domain.EmailPriority{}).
		Where("user_id = ? AND email_id = ?", userID, emailID).
		Updates(map[string]interface{}{
			"is_pinned":    false,
			"pinned_order": float64(0),
			"updated_at":   time.Now(),
		}).Error
}
