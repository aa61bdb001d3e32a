package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
)

func TestAggregatedAddDerivesIDAndShadowFields(t *testing.T) {
	repo := NewMemoryAggregatedRepository()

	row, err := repo.Add(context.Background(), models.ActivityLog{
		Account:         "0xAbC1",
		Type:            models.ActivityTypeOnChain,
		Action:          models.ActionDeploy,
		TxHash:          "0xFF",
		ContractAddress: "0xDeF2",
		Timestamp:       1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "0xAbC1_1000", row.ID)
	assert.Equal(t, "0xabc1", row.AccountLower)
	assert.Equal(t, "0xff", row.TxHashLower)
	assert.Equal(t, "0xdef2", row.ContractLower)
	assert.NotNil(t, row.Tags)
	assert.Empty(t, row.Tags)
}

func TestAggregatedAddTwiceLastWriteWins(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	_, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionDeploy, Timestamp: 1000})
	require.NoError(t, err)
	_, err = repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 1000})
	require.NoError(t, err)

	rows, err := repo.Query(ctx, models.AggregatedFilter{Account: "0xAAA"})
	require.NoError(t, err)
	require.Len(t, rows, 1, "colliding account+timestamp writes share one row")
	assert.Equal(t, models.ActionSign, rows[0].Action, "the second write's fields win")
}

func TestAggregatedQueryIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	_, err := repo.Add(ctx, models.ActivityLog{Account: "0xABCdef", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 1})
	require.NoError(t, err)

	upper, err := repo.Query(ctx, models.AggregatedFilter{Account: "0xABCDEF"})
	require.NoError(t, err)
	lower, err := repo.Query(ctx, models.AggregatedFilter{Account: "0xabcdef"})
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
	require.Len(t, upper, 1)
}

func TestAggregatedQueryOrdersAndPaginates(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	for _, ts := range []int64{10, 30, 20} {
		_, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeBackend, Action: models.ActionReview, Timestamp: ts})
		require.NoError(t, err)
	}

	rows, err := repo.Query(ctx, models.AggregatedFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(30), rows[0].Timestamp)
	assert.Equal(t, int64(20), rows[1].Timestamp)

	older, err := repo.Query(ctx, models.AggregatedFilter{StartAfterTimestamp: 20})
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, int64(10), older[0].Timestamp)
}

func TestTagAddIsIdempotent(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	row, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 1})
	require.NoError(t, err)

	require.NoError(t, repo.AddTag(ctx, row.ID, "urgent"))
	require.NoError(t, repo.AddTag(ctx, row.ID, "urgent"))

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, got.Tags)
}

func TestRemoveAbsentTagIsNoOp(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	row, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 1})
	require.NoError(t, err)
	require.NoError(t, repo.AddTag(ctx, row.ID, "kept"))

	require.NoError(t, repo.RemoveTag(ctx, row.ID, "never-added"))

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, got.Tags)
}

func TestConcurrentDistinctTagAddsAllSurvive(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	row, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 1})
	require.NoError(t, err)

	tags := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, tag := range tags {
		wg.Add(1)
		go func(tag string) {
			defer wg.Done()
			assert.NoError(t, repo.AddTag(ctx, row.ID, tag))
		}(tag)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, tags, got.Tags)
}

func TestTagOperationsOnMissingEntryReturnNotFound(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	assert.True(t, apperrors.IsNotFound(repo.AddTag(ctx, "nope_1", "x")))
	assert.True(t, apperrors.IsNotFound(repo.RemoveTag(ctx, "nope_1", "x")))

	_, err := repo.GetByID(ctx, "nope_1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAggregatedQueryTagsFilter(t *testing.T) {
	repo := NewMemoryAggregatedRepository()
	ctx := context.Background()

	tagged, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 1})
	require.NoError(t, err)
	_, err = repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionSign, Timestamp: 2})
	require.NoError(t, err)
	require.NoError(t, repo.AddTag(ctx, tagged.ID, "flagged"))

	rows, err := repo.Query(ctx, models.AggregatedFilter{Tags: []string{"flagged"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tagged.ID, rows[0].ID)
}
