package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradevault/backend/internal/models"
)

func seedActivity(t *testing.T, repo ActivityRepository, account string, timestamps ...int64) {
	t.Helper()
	for _, ts := range timestamps {
		_, err := repo.Add(context.Background(), models.ActivityLog{
			Account:   account,
			Type:      models.ActivityTypeOnChain,
			Action:    models.ActionSign,
			Timestamp: ts,
		})
		require.NoError(t, err)
	}
}

func TestListByAccountDescendingWithCursor(t *testing.T) {
	repo := NewMemoryActivityRepository()
	ctx := context.Background()
	seedActivity(t, repo, "0xAAA", 100, 200, 300, 400, 500)

	// First page.
	page, err := repo.ListByAccount(ctx, "0xAAA", models.ActivityFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(500), page[0].Timestamp)
	assert.Equal(t, int64(400), page[1].Timestamp)

	// Chain the cursor until the log is exhausted; every entry exactly once.
	collected := append([]models.ActivityLog(nil), page...)
	for len(page) > 0 {
		cursor := page[len(page)-1].Timestamp
		page, err = repo.ListByAccount(ctx, "0xAAA", models.ActivityFilter{Limit: 2, StartAfterTimestamp: cursor})
		require.NoError(t, err)
		collected = append(collected, page...)
	}

	require.Len(t, collected, 5)
	for i, want := range []int64{500, 400, 300, 200, 100} {
		assert.Equal(t, want, collected[i].Timestamp)
	}
}

func TestListByAccountIgnoresOtherAccounts(t *testing.T) {
	repo := NewMemoryActivityRepository()
	seedActivity(t, repo, "0xAAA", 100)
	seedActivity(t, repo, "0xBBB", 200)

	page, err := repo.ListByAccount(context.Background(), "0xAAA", models.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "0xAAA", page[0].Account)
}

func TestListAllFiltersAndSorts(t *testing.T) {
	repo := NewMemoryActivityRepository()
	ctx := context.Background()

	_, err := repo.Add(ctx, models.ActivityLog{Account: "0xAAA", Type: models.ActivityTypeOnChain, Action: models.ActionDeploy, TxHash: "0x1", Timestamp: 100})
	require.NoError(t, err)
	_, err = repo.Add(ctx, models.ActivityLog{Account: "0xBBB", Type: models.ActivityTypeOnChain, Action: models.ActionDeposit, TxHash: "0x2", ContractAddress: "0xC1", Timestamp: 300})
	require.NoError(t, err)
	_, err = repo.Add(ctx, models.ActivityLog{Account: "0xCCC", Type: models.ActivityTypeBackend, Action: models.ActionReview, TxHash: "0x2", Timestamp: 200})
	require.NoError(t, err)

	byTx, err := repo.ListAll(ctx, models.ActivityFilter{TxHash: "0x2"})
	require.NoError(t, err)
	require.Len(t, byTx, 2)
	assert.Equal(t, int64(300), byTx[0].Timestamp, "cross-account results are globally sorted descending")
	assert.Equal(t, int64(200), byTx[1].Timestamp)

	byContract, err := repo.ListAll(ctx, models.ActivityFilter{ContractAddress: "0xC1"})
	require.NoError(t, err)
	require.Len(t, byContract, 1)
	assert.Equal(t, "0xBBB", byContract[0].Account)

	byAccount, err := repo.ListAll(ctx, models.ActivityFilter{Account: "0xAAA"})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
}
