package usecase

import (
	"context"
	"testing"

	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinnedIDs(t *testing.T, env *testEnv, columnID string) []string {
	t.Helper()
	pinned, err := env.priorities.FindPinnedByColumn(testUserID, columnID)
	require.NoError(t, err)
	ids := make([]string, 0, len(pinned))
	for _, p := range pinned {
		ids = append(ids, p.EmailID)
	}
	return ids
}

func TestPinEmail_DefaultAppendsToBottom(t *testing.T) {
	env := newTestEnv(t)
	uc := NewPinUsecase(env.priorities)
	ctx := context.Background()

	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "a", ColumnID: "col"}))
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "b", ColumnID: "col"}))
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "c", ColumnID: "col"}))

	assert.Equal(t, []string{"a", "b", "c"}, pinnedIDs(t, env, "col"))
}

func TestPinEmail_PositionInsertsAmongPinned(t *testing.T) {
	env := newTestEnv(t)
	uc := NewPinUsecase(env.priorities)
	ctx := context.Background()

	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "a", ColumnID: "col"}))
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "b", ColumnID: "col"}))

	top := 0
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "c", ColumnID: "col", Position: &top}))
	assert.Equal(t, []string{"c", "a", "b"}, pinnedIDs(t, env, "col"))

	mid := 1
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "d", ColumnID: "col", Position: &mid}))
	assert.Equal(t, []string{"c", "d", "a", "b"}, pinnedIDs(t, env, "col"))
}

func TestPinEmail_RepinMovesExistingPin(t *testing.T) {
	env := newTestEnv(t)
	uc := NewPinUsecase(env.priorities)
	ctx := context.Background()

	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "a", ColumnID: "col"}))
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "b", ColumnID: "col"}))

	top := 0
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "b", ColumnID: "col", Position: &top}))
	assert.Equal(t, []string{"b", "a"}, pinnedIDs(t, env, "col"))
}

func TestUnpinEmail(t *testing.T) {
	env := newTestEnv(t)
	uc := NewPinUsecase(env.priorities)
	ctx := context.Background()

	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "a", ColumnID: "col"}))
	require.NoError(t, uc.UnpinEmail(ctx, testUserID, "a"))
	assert.Empty(t, pinnedIDs(t, env, "col"))

	err := uc.UnpinEmail(ctx, testUserID, "a")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUnpinEmail_KeepsPriorityLevel(t *testing.T) {
	env := newTestEnv(t)
	uc := NewPinUsecase(env.priorities)
	ctx := context.Background()

	require.NoError(t, uc.SetPriority(ctx, testUserID, dto.SetPriorityRequest{EmailID: "a", ColumnID: "col", Level: 2}))
	require.NoError(t, uc.PinEmail(ctx, testUserID, dto.PinEmailRequest{EmailID: "a", ColumnID: "col"}))
	require.NoError(t, uc.UnpinEmail(ctx, testUserID, "a"))

	row, err := env.priorities.FindByEmail(testUserID, "a")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.False(t, row.IsPinned)
	assert.Equal(t, 2, row.PriorityLevel)
}

func TestSetPriority_ValidatesRange(t *testing.T) {
	env := newTestEnv(t)
	uc := NewPinUsecase(env.priorities)
	ctx := context.Background()

	for _, level := range []int{-1, 3, 99} {
		err := uc.SetPriority(ctx, testUserID, dto.SetPriorityRequest{EmailID: "a", Level: level})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "level %d", level)
	}
	for _, level := range []int{0, 1, 2} {
		assert.NoError(t, uc.SetPriority(ctx, testUserID, dto.SetPriorityRequest{EmailID: "a", ColumnID: "col", Level: level}))
	}
}
