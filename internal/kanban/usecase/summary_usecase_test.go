package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummaryUsecase(env *testEnv, summarizer *fakeSummarizer) SummaryUsecase {
	return NewSummaryUsecase(env.summaries, env.provider, summarizer, env.users, 50)
}

func TestGetOrCreateSummary_CachesResult(t *testing.T) {
	env := newTestEnv(t)
	summarizer := &fakeSummarizer{}
	uc := newSummaryUsecase(env, summarizer)
	ctx := context.Background()
	env.provider.addMessage("m1", time.Now())

	first, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)
	assert.False(t, first.FromDatabase)
	assert.Equal(t, 1, summarizer.calls)

	second, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)
	assert.True(t, second.FromDatabase)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 1, summarizer.calls, "cache hit must not call the summarizer")
}

func TestGetOrCreateSummary_ForceRegenerates(t *testing.T) {
	env := newTestEnv(t)
	summarizer := &fakeSummarizer{}
	uc := newSummaryUsecase(env, summarizer)
	ctx := context.Background()
	env.provider.addMessage("m1", time.Now())

	first, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)

	regen, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", true)
	require.NoError(t, err)
	assert.False(t, regen.FromDatabase)
	assert.NotEqual(t, first.Summary, regen.Summary)
	assert.Equal(t, 2, summarizer.calls)

	// The cache now holds the regenerated text.
	cached, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)
	assert.True(t, cached.FromDatabase)
	assert.Equal(t, regen.Summary, cached.Summary)
}

func TestGetOrCreateSummary_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	uc := newSummaryUsecase(env, &fakeSummarizer{})
	ctx := context.Background()
	env.provider.failGet["m1"] = errors.New("gmail 503")

	_, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
}

func TestBatchSummarize_CapAndPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	summarizer := &fakeSummarizer{}
	uc := newSummaryUsecase(env, summarizer)
	ctx := context.Background()

	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = "m"
	}
	_, err := uc.BatchSummarize(ctx, testUserID, dto.BatchSummarizeRequest{EmailIDs: tooMany})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	env.provider.addMessage("ok-1", time.Now())
	env.provider.addMessage("ok-2", time.Now())
	env.provider.failGet["bad"] = errors.New("gmail 503")

	resp, err := uc.BatchSummarize(ctx, testUserID, dto.BatchSummarizeRequest{
		EmailIDs: []string{"ok-1", "bad", "ok-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Success)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.True(t, resp.Results[2].Success)
}

func TestGetSummaryStats(t *testing.T) {
	env := newTestEnv(t)
	summarizer := &fakeSummarizer{}
	uc := newSummaryUsecase(env, summarizer)
	ctx := context.Background()

	stats, err := uc.GetSummaryStats(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Nil(t, stats.Oldest)
	assert.Nil(t, stats.Newest)

	env.provider.addMessage("m1", time.Now())
	env.provider.addMessage("m2", time.Now())
	_, err = uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)
	_, err = uc.GetOrCreateSummary(ctx, testUserID, "m2", false)
	require.NoError(t, err)

	stats, err = uc.GetSummaryStats(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	require.NotNil(t, stats.Oldest)
	require.NotNil(t, stats.Newest)
	assert.False(t, stats.Newest.Before(*stats.Oldest))
}

func TestDeleteSummary_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	summarizer := &fakeSummarizer{}
	uc := newSummaryUsecase(env, summarizer)
	ctx := context.Background()
	env.provider.addMessage("m1", time.Now())

	_, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)

	require.NoError(t, uc.DeleteSummary(ctx, testUserID, "m1"))
	// Deleting again is a no-op, not an error.
	require.NoError(t, uc.DeleteSummary(ctx, testUserID, "m1"))

	next, err := uc.GetOrCreateSummary(ctx, testUserID, "m1", false)
	require.NoError(t, err)
	assert.False(t, next.FromDatabase)
}
