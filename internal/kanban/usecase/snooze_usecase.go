package usecase

import (
	"context"
	"log"
	"time"

	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/internal/kanban/repository"
	"mailboard-backend/pkg/apperror"
)

// sweepBatchSize bounds how many due snoozes a single tick will restore.
const sweepBatchSize = 200

type snoozeUsecase struct {
	snoozes  repository.SnoozeRepository
	interval time.Duration
	stopChan chan struct{}
}

// NewSnoozeUsecase creates a new instance of snoozeUsecase
func NewSnoozeUsecase(snoozes repository.SnoozeRepository, interval time.Duration) SnoozeUsecase {
	if interval <= 0 {
		interval = time.Minute
	}
	return &snoozeUsecase{
		snoozes:  snoozes,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// SnoozeEmail hides an email until the given time. Snoozing an already
// snoozed (or previously restored) email resets its row to a fresh cycle.
// The provider's label set is never touched.
func (uc *snoozeUsecase) SnoozeEmail(ctx context.Context, userID string, req dto.SnoozeEmailRequest) error {
	if !req.Until.After(time.Now()) {
		return apperror.Validation("snooze time must be in the future")
	}
	return uc.snoozes.Upsert(&domain.EmailSnooze{
		UserID:         userID,
		EmailID:        req.EmailID,
		ThreadID:       req.ThreadID,
		OriginalColumn: req.ColumnID,
		SnoozeUntil:    req.Until,
	})
}

// UnsnoozeEmail wakes an email before its deadline.
func (uc *snoozeUsecase) UnsnoozeEmail(ctx context.Context, userID, emailID string) error {
	woke, err := uc.snoozes.CancelByEmail(userID, emailID)
	if err != nil {
		return err
	}
	if !woke {
		return apperror.NotFound("email %s is not snoozed", emailID)
	}
	return nil
}

// RestoreDueEmails flips every snooze whose deadline has passed. Each row is
// restored with a conditional update, so a tick racing another tick (or a
// manual unsnooze) silently skips rows it lost. A failing row is logged and
// the scan continues; it will be retried on the next tick.
func (uc *snoozeUsecase) RestoreDueEmails(now time.Time) (int, error) {
	due, err := uc.snoozes.FindDue(now, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	restored := 0
	for _, s := range due {
		won, err := uc.snoozes.MarkRestored(s.ID, now)
		if err != nil {
			log.Printf("[Snooze] failed to restore %s: %v", s.ID, err)
			continue
		}
		if won {
			restored++
		}
	}
	if restored > 0 {
		log.Printf("[Snooze] restored %d emails", restored)
	}
	return restored, nil
}

// Start launches the restore sweep loop. One goroutine per process.
func (uc *snoozeUsecase) Start() {
	go func() {
		ticker := time.NewTicker(uc.interval)
		defer ticker.Stop()
		log.Printf("[Snooze] sweeper started, interval %s", uc.interval)
		for {
			select {
			case <-ticker.C:
				if _, err := uc.RestoreDueEmails(time.Now()); err != nil {
					log.Printf("[Snooze] sweep failed: %v", err)
				}
			case <-uc.stopChan:
				log.Println("[Snooze] sweeper stopped")
				return
			}
		}
	}()
}

func (uc *snoozeUsecase) Stop() {
	close(uc.stopChan)
}
