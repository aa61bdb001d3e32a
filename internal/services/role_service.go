package services

import (
	"context"

	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
)

// ContractRoles are the counterpart addresses of a trade agreement. Either
// side may be empty when the contract has no deploy entry yet.
type ContractRoles struct {
	Importer string `json:"importer"`
	Exporter string `json:"exporter"`
}

// RoleService resolves contract roles by scanning the contract's own
// history for its deploy entry. Read-only.
type RoleService struct {
	contracts repositories.HistoryRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(contracts repositories.HistoryRepository) *RoleService {
	return &RoleService{contracts: contracts}
}

// GetRoles reads importer and exporter out of the deploy entry's extra
// payload. A contract without a deploy entry resolves to empty roles.
func (s *RoleService) GetRoles(ctx context.Context, contractKey string) (ContractRoles, error) {
	history, err := s.contracts.Get(ctx, models.NormalizeAddress(contractKey))
	if err != nil {
		return ContractRoles{}, err
	}
	for _, entry := range history {
		if entry.Action != models.ActionDeploy {
			continue
		}
		if deploy, ok := entry.Extra.Deploy(); ok {
			return ContractRoles{
				Importer: models.NormalizeAddress(deploy.Importer),
				Exporter: models.NormalizeAddress(deploy.Exporter),
			}, nil
		}
	}
	return ContractRoles{}, nil
}
