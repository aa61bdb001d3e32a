package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
	"go.uber.org/zap"
)

// ActivityService normalizes incoming activity payloads and writes them to
// the per-account activity log and the aggregated index. The two writes are
// independent (no shared transaction): the activity write is the source of
// truth and fails the request; the aggregated write is a secondary index
// and is best-effort, logged on failure.
type ActivityService struct {
	activities repositories.ActivityRepository
	aggregated repositories.AggregatedRepository
	logger     *zap.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activities repositories.ActivityRepository, aggregated repositories.AggregatedRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activities: activities,
		aggregated: aggregated,
		logger:     logger,
	}
}

// Record validates and persists one activity event. Timestamp defaults to
// the server clock; addresses are normalized to checksum form.
func (s *ActivityService) Record(ctx context.Context, req models.AddActivityRequest) (*models.ActivityLog, error) {
	if req.Timestamp == 0 {
		req.Timestamp = time.Now().UnixMilli()
	}
	if err := validateActivity(req); err != nil {
		return nil, err
	}

	entry := models.ActivityLog{
		Account:         models.NormalizeAddress(req.Account),
		Type:            req.Type,
		Action:          req.Action,
		TxHash:          req.TxHash,
		ContractAddress: models.NormalizeAddress(req.ContractAddress),
		Extra:           models.ExtraPayload(req.Extra),
		OnChainInfo:     req.OnChainInfo,
		Timestamp:       req.Timestamp,
	}

	stored, err := s.activities.Add(ctx, entry)
	if err != nil {
		return nil, err
	}

	if _, err := s.aggregated.Add(ctx, entry); err != nil {
		s.logger.Warn("aggregated activity index write failed; event is in the activity log only",
			zap.String("account", entry.Account),
			zap.Int64("timestamp", entry.Timestamp),
			zap.Error(err))
	}

	return stored, nil
}

// validateActivity checks the required fields in a fixed order so the error
// always names the first missing one.
func validateActivity(req models.AddActivityRequest) error {
	switch {
	case req.Timestamp == 0:
		return apperrors.MissingField("timestamp")
	case req.Type == "":
		return apperrors.MissingField("type")
	case req.Action == "":
		return apperrors.MissingField("action")
	case req.Account == "":
		return apperrors.MissingField("account")
	}
	if req.Type != models.ActivityTypeOnChain && req.Type != models.ActivityTypeBackend {
		return fmt.Errorf("%w: field \"type\" must be %q or %q",
			apperrors.ErrValidation, models.ActivityTypeOnChain, models.ActivityTypeBackend)
	}
	return nil
}
