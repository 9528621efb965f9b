package usecase

import (
	"context"

	authrepo "mailboard-backend/internal/auth/repository"
	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/internal/kanban/repository"
	"mailboard-backend/pkg/ai"
	"mailboard-backend/pkg/apperror"
)

type summaryUsecase struct {
	summaries  repository.SummaryRepository
	provider   domain.MailProvider
	summarizer ai.SummarizerService
	creds      *credentialSource
	batchLimit int
}

// NewSummaryUsecase creates a new instance of summaryUsecase
func NewSummaryUsecase(
	summaries repository.SummaryRepository,
	provider domain.MailProvider,
	summarizer ai.SummarizerService,
	users authrepo.UserRepository,
	batchLimit int,
) SummaryUsecase {
	if batchLimit <= 0 {
		batchLimit = 50
	}
	return &summaryUsecase{
		summaries:  summaries,
		provider:   provider,
		summarizer: summarizer,
		creds:      newCredentialSource(users),
		batchLimit: batchLimit,
	}
}

// GetOrCreateSummary returns the cached summary for an email, generating and
// caching one on a miss. force bypasses the cache and overwrites it.
func (uc *summaryUsecase) GetOrCreateSummary(ctx context.Context, userID, emailID string, force bool) (*dto.SummaryResponse, error) {
	if !force {
		cached, err := uc.summaries.FindByEmail(userID, emailID)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return &dto.SummaryResponse{
				EmailID:      emailID,
				Summary:      cached.Summary,
				FromDatabase: true,
				SummarizedAt: cached.UpdatedAt,
			}, nil
		}
	}

	if uc.summarizer == nil {
		return nil, apperror.Upstream(nil, "no summarizer configured")
	}

	accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
	if err != nil {
		return nil, err
	}
	detail, err := uc.provider.GetMessageDetail(ctx, accessToken, refreshToken, emailID, onRefresh)
	if err != nil {
		return nil, apperror.Upstream(err, "failed to fetch email %s", emailID)
	}

	text := detail.Body
	if text == "" {
		text = detail.Snippet
	}
	if text == "" {
		return nil, apperror.Validation("email %s has no content to summarize", emailID)
	}

	summaryText, err := uc.summarizer.SummarizeEmail(ctx, "Subject: "+detail.Subject+"\n\n"+text)
	if err != nil {
		return nil, apperror.Upstream(err, "summarizer failed for email %s", emailID)
	}

	record := &domain.EmailSummary{
		UserID:  userID,
		EmailID: emailID,
		Summary: summaryText,
	}
	if err := uc.summaries.Upsert(record); err != nil {
		return nil, err
	}
	return &dto.SummaryResponse{
		EmailID:      emailID,
		Summary:      summaryText,
		FromDatabase: false,
		SummarizedAt: record.UpdatedAt,
	}, nil
}

// BatchSummarize summarizes up to batchLimit emails, one outcome per id.
func (uc *summaryUsecase) BatchSummarize(ctx context.Context, userID string, req dto.BatchSummarizeRequest) (*dto.BatchSummarizeResponse, error) {
	if len(req.EmailIDs) > uc.batchLimit {
		return nil, apperror.Validation("at most %d emails per batch, got %d", uc.batchLimit, len(req.EmailIDs))
	}

	resp := &dto.BatchSummarizeResponse{Results: make([]dto.SummarizeResult, 0, len(req.EmailIDs))}
	for _, emailID := range req.EmailIDs {
		summary, err := uc.GetOrCreateSummary(ctx, userID, emailID, false)
		if err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, dto.SummarizeResult{EmailID: emailID, Success: false, Error: err.Error()})
			continue
		}
		resp.Success++
		resp.Results = append(resp.Results, dto.SummarizeResult{EmailID: emailID, Success: true, Summary: summary.Summary})
	}
	return resp, nil
}

func (uc *summaryUsecase) GetSummaryStats(ctx context.Context, userID string) (*dto.SummaryStatsResponse, error) {
	total, err := uc.summaries.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	stats := &dto.SummaryStatsResponse{Total: total}
	if total == 0 {
		return stats, nil
	}

	latest, err := uc.summaries.LatestByUser(userID, int(total))
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 {
		newest := latest[0].CreatedAt
		oldest := latest[len(latest)-1].CreatedAt
		stats.Newest = &newest
		stats.Oldest = &oldest
	}
	return stats, nil
}

// DeleteSummary drops a cached summary. Deleting a missing one is a no-op.
func (uc *summaryUsecase) DeleteSummary(ctx context.Context, userID, emailID string) error {
	return uc.summaries.DeleteByEmail(userID, emailID)
}
