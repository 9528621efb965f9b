package repository

import (
	"errors"
	"time"

	"mailboard-backend/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new instance of summaryRepository
func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert caches a summary keyed on (user, email). Regenerating overwrites the
// cached text in place.
func (r *summaryRepository) Upsert(summary *domain.EmailSummary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	now := time.Now()
	summary.CreatedAt = now
	summary.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "email_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"summary":    summary.Summary,
			"updated_at": now,
		}),
	}).Create(summary).Error
}

func (r *summaryRepository) FindByEmail(userID, emailID string) (*domain.EmailSummary, error) {
	var summary domain.EmailSummary
	err := r.db.Where("user_id = ? AND email_id = ?", userID, emailID).
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) FindByEmails(userID string, emailIDs []string) (map[string]domain.EmailSummary, error) {
	result := make(map[string]domain.EmailSummary, len(emailIDs))
	if len(emailIDs) == 0 {
		return result, nil
	}
	var summaries []domain.EmailSummary
	err := r.db.Where("user_id = ? AND email_id IN ?", userID, emailIDs).
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		result[s.EmailID] = s
	}
	return result, nil
}

func (r *summaryRepository) DeleteByEmail(userID, emailID string) error {
	return r.db.Where("user_id = ? AND email_id = ?", userID, emailID).
		Delete(&domain.EmailSummary{}).Error
}

func (r *summaryRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.EmailSummary{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *summaryRepository) LatestByUser(userID string, limit int) ([]domain.EmailSummary, error) {
	var summaries []domain.EmailSummary
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&summaries).Error
	return summaries, err
}
