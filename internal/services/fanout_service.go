package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// NotificationPayload describes the notification content for one fan-out.
// The recipient set is computed by the fan-out methods.
type NotificationPayload struct {
	ExecutorID string
	Type       string
	Title      string
	Message    string
	ExtraData  map[string]any
}

// FanoutService writes one notification per recipient for a triggering
// event. Writes are independent and best-effort: a failed recipient is
// logged and never fails the primary mutation. The admin account list is
// injected at construction so deployments (and tests) control it.
type FanoutService struct {
	notifications repositories.NotificationRepository
	admins        []string
	logger        *zap.Logger
}

// NewFanoutService creates a FanoutService. Admin accounts are normalized to
// checksum form once, up front.
func NewFanoutService(notifications repositories.NotificationRepository, adminAccounts []string, logger *zap.Logger) *FanoutService {
	admins := make([]string, 0, len(adminAccounts))
	for _, a := range adminAccounts {
		if a != "" {
			admins = append(admins, models.NormalizeAddress(a))
		}
	}
	return &FanoutService{
		notifications: notifications,
		admins:        admins,
		logger:        logger,
	}
}

// NotifyAdminsAndExecutor notifies every admin plus the executor. When the
// executor is itself an admin it is notified once, through the admin list
// only.
func (s *FanoutService) NotifyAdminsAndExecutor(ctx context.Context, executor string, payload NotificationPayload) {
	recipients := append([]string(nil), s.admins...)
	if executor != "" && !s.isAdmin(executor) {
		recipients = append(recipients, models.NormalizeAddress(executor))
	}
	payload.ExecutorID = models.NormalizeAddress(executor)
	s.fanout(ctx, recipients, payload)
}

// NotifyRoleHolders notifies the given role holders (e.g. importer and
// exporter of a contract), dropping duplicates and, when excludeExecutor is
// set, the executor itself.
func (s *FanoutService) NotifyRoleHolders(ctx context.Context, recipients []string, payload NotificationPayload, excludeExecutor string) {
	filtered := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r == "" || models.SameAddress(r, excludeExecutor) {
			continue
		}
		filtered = append(filtered, models.NormalizeAddress(r))
	}
	s.fanout(ctx, filtered, payload)
}

// fanout writes one notification per distinct recipient, concurrently.
// Failures are logged and swallowed; the caller's mutation already
// succeeded and must not be rolled back by a side effect.
func (s *FanoutService) fanout(ctx context.Context, recipients []string, payload NotificationPayload) {
	seen := make(map[string]struct{}, len(recipients))
	distinct := make([]string, 0, len(recipients))
	for _, r := range recipients {
		key := models.NormalizeAddress(r)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}

	var extraData []byte
	if payload.ExtraData != nil {
		var err error
		if extraData, err = json.Marshal(payload.ExtraData); err != nil {
			s.logger.Warn("dropping unmarshalable notification extra data",
				zap.String("type", payload.Type), zap.Error(err))
			extraData = nil
		}
	}

	var wg sync.WaitGroup
	for _, recipient := range distinct {
		wg.Add(1)
		go func(recipient string) {
			defer wg.Done()
			notification := &models.Notification{
				UserID:     recipient,
				ExecutorID: payload.ExecutorID,
				Type:       payload.Type,
				Title:      payload.Title,
				Message:    payload.Message,
				ExtraData:  datatypes.JSON(extraData),
			}
			if err := s.notifications.Create(notification); err != nil {
				s.logger.Warn("notification fan-out write failed",
					zap.String("recipient", recipient),
					zap.String("type", payload.Type),
					zap.Error(err))
			}
		}(recipient)
	}
	wg.Wait()
}

func (s *FanoutService) isAdmin(account string) bool {
	for _, admin := range s.admins {
		if models.SameAddress(admin, account) {
			return true
		}
	}
	return false
}
