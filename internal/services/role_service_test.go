package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
)

func TestGetRolesFromDeployEntry(t *testing.T) {
	repo := repositories.NewMemoryHistoryRepository()
	svc := NewRoleService(repo)
	ctx := context.Background()

	contract := models.NormalizeAddress(adminOne)
	require.NoError(t, repo.Append(ctx, contract, models.LogEntry{
		Action:  models.ActionDeploy,
		Account: userOne,
		TxHash:  "0x1",
		Extra: models.ExtraPayload{
			"importer":       strings.ToLower(userOne),
			"exporter":       strings.ToLower(userTwo),
			"requiredAmount": "1000",
			"token":          "USDC",
		},
		Timestamp: 1,
	}))

	roles, err := svc.GetRoles(ctx, contract)
	require.NoError(t, err)
	assert.Equal(t, userOne, roles.Importer)
	assert.Equal(t, userTwo, roles.Exporter)
}

func TestGetRolesWithoutDeployEntryIsEmpty(t *testing.T) {
	repo := repositories.NewMemoryHistoryRepository()
	svc := NewRoleService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, adminOne, models.LogEntry{
		Action:    models.ActionSign,
		Account:   userOne,
		Timestamp: 1,
	}))

	roles, err := svc.GetRoles(ctx, adminOne)
	require.NoError(t, err)
	assert.Equal(t, ContractRoles{}, roles)
}

func TestGetRolesUnknownContractIsEmptyNotError(t *testing.T) {
	svc := NewRoleService(repositories.NewMemoryHistoryRepository())

	roles, err := svc.GetRoles(context.Background(), userTwo)
	require.NoError(t, err)
	assert.Equal(t, ContractRoles{}, roles)
}
