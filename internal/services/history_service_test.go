package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
)

func TestContractHistoryRequiresTxHash(t *testing.T) {
	svc := NewContractHistoryService(repositories.NewMemoryHistoryRepository())

	_, err := svc.Append(context.Background(), adminOne, models.LogEntry{
		Action:  models.ActionSign,
		Account: userOne,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), `"txHash"`)
}

func TestContractHistoryValidationOrder(t *testing.T) {
	svc := NewContractHistoryService(repositories.NewMemoryHistoryRepository())

	// Everything missing: contractAddress is named first.
	_, err := svc.Append(context.Background(), "", models.LogEntry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"contractAddress"`)
}

func TestTokenHistoryAllowsEmptyTxHash(t *testing.T) {
	repo := repositories.NewMemoryHistoryRepository()
	svc := NewTokenHistoryService(repo)
	ctx := context.Background()

	// Backend-originated actions have no on-chain counterpart; the empty
	// string is the sentinel.
	stored, err := svc.Append(ctx, "42", models.LogEntry{
		Action:  models.ActionReview,
		Account: userOne,
	})
	require.NoError(t, err)
	assert.Equal(t, "", stored.TxHash)

	history, err := svc.Get(ctx, "42")
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestHistoryAppendDefaultsTimestampAndNormalizes(t *testing.T) {
	repo := repositories.NewMemoryHistoryRepository()
	svc := NewContractHistoryService(repo)
	ctx := context.Background()

	stored, err := svc.Append(ctx, strings.ToLower(adminOne), models.LogEntry{
		Action:  models.ActionDeploy,
		Account: strings.ToLower(userOne),
		TxHash:  "0x1",
	})
	require.NoError(t, err)
	assert.Greater(t, stored.Timestamp, int64(0))
	assert.Equal(t, userOne, stored.Account)

	// The entity key is normalized too, so mixed-case callers share one log.
	history, err := svc.Get(ctx, strings.ToUpper("0x")+adminOne[2:])
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestHistoryAppendKeepsArrivalOrder(t *testing.T) {
	svc := NewTokenHistoryService(repositories.NewMemoryHistoryRepository())
	ctx := context.Background()

	_, err := svc.Append(ctx, "7", models.LogEntry{Action: models.ActionMint, Account: userOne, Timestamp: 1000})
	require.NoError(t, err)
	_, err = svc.Append(ctx, "7", models.LogEntry{Action: models.ActionReview, Account: userTwo, Timestamp: 900})
	require.NoError(t, err)

	history, err := svc.Get(ctx, "7")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionMint, history[0].Action)
	assert.Equal(t, models.ActionReview, history[1].Action)
}
