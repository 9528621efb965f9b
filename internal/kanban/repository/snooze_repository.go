package repository

import (
	"errors"
	"time"

	"mailboard-backend/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snoozeRepository struct {
	db *gorm.DB
}

// NewSnoozeRepository creates a new instance of snoozeRepository
func NewSnoozeRepository(db *gorm.DB) SnoozeRepository {
	return &snoozeRepository{db: db}
}

// Upsert writes a snooze keyed on (user, email). Re-snoozing an email resets
// the existing row to a fresh cycle: new deadline, is_restored back to false.
func (r *snoozeRepository) Upsert(snooze *domain.EmailSnooze) error {
	if snooze.ID == "" {
		snooze.ID = uuid.New().String()
	}
	now := time.Now()
	snooze.CreatedAt = now
	snooze.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "email_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"thread_id":       snooze.ThreadID,
			"original_column": snooze.OriginalColumn,
			"snooze_until":    snooze.SnoozeUntil,
			"is_restored":     false,
			"restored_at":     nil,
			"updated_at":      now,
		}),
	}).Create(snooze).Error
}

func (r *snoozeRepository) FindActiveByEmail(userID, emailID string) (*domain.EmailSnooze, error) {
	var snooze domain.EmailSnooze
	err := r.db.Where("user_id = ? AND email_id = ? AND is_restored = ?", userID, emailID, false).
		First(&snooze).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snooze, nil
}

func (r *snoozeRepository) FindActiveByUser(userID string) ([]domain.EmailSnooze, error) {
	var snoozes []domain.EmailSnooze
	err := r.db.Where("user_id = ? AND is_restored = ?", userID, false).
		Order("snooze_until ASC").
		Find(&snoozes).Error
	return snoozes, err
}

func (r *snoozeRepository) FindActiveByEmails(userID string, emailIDs []string) (map[string]domain.EmailSnooze, error) {
	result := make(map[string]domain.EmailSnooze, len(emailIDs))
	if len(emailIDs) == 0 {
		return result, nil
	}
	var snoozes []domain.EmailSnooze
	err := r.db.Where("user_id = ? AND email_id IN ? AND is_restored = ?", userID, emailIDs, false).
		Find(&snoozes).Error
	if err != nil {
		return nil, err
	}
	for _, s := range snoozes {
		result[s.EmailID] = s
	}
	return result, nil
}

func (r *snoozeRepository) FindDue(now time.Time, limit int) ([]domain.EmailSnooze, error) {
	var snoozes []domain.EmailSnooze
	err := r.db.Where("snooze_until <= ? AND is_restored = ?", now, false).
		Order("snooze_until ASC").
		Limit(limit).
		Find(&snoozes).Error
	return snoozes, err
}

// MarkRestored flips a snooze to restored only if it is still active. The
// boolean result is false when another sweep got there first, which keeps the
// restore idempotent across overlapping ticks.
func (r *snoozeRepository) MarkRestored(id string, restoredAt time.Time) (bool, error) {
	res := r.db.Model(&domain.EmailSnooze{}).
		Where("id = ? AND is_restored = ?", id, false).
		Updates(map[string]interface{}{
			"is_restored": true,
			"restored_at": restoredAt,
			"updated_at":  restoredAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelByEmail wakes an email early. Same conditional update as MarkRestored
// so a manual unsnooze racing the sweeper settles on one winner.
func (r *snoozeRepository) CancelByEmail(userID, emailID string) (bool, error) {
	now := time.Now()
	res := r.db.Model(&domain.EmailSnooze{}).
		Where("user_id = ? AND email_id = ? AND is_restored = ?", userID, emailID, false).
		Updates(map[string]interface{}{
			"is_restored": true,
			"restored_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
