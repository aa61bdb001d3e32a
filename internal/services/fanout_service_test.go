package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradevault/backend/internal/models"
	"go.uber.org/zap"
)

// fakeNotificationRepo records creations and can fail for chosen recipients.
type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []models.Notification
	failFor map[string]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{failFor: make(map[string]bool)}
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[n.UserID] {
		return fmt.Errorf("store unavailable for %s", n.UserID)
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByUser(userID string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetByID(string) (*models.Notification, error) { return nil, nil }
func (f *fakeNotificationRepo) MarkAsRead(string) error                      { return nil }
func (f *fakeNotificationRepo) Delete(string) error                          { return nil }
func (f *fakeNotificationRepo) GetUnreadCount(string) (int64, error)         { return 0, nil }

func (f *fakeNotificationRepo) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.created))
	for i, n := range f.created {
		out[i] = n.UserID
	}
	return out
}

// Well-known EIP-55 checksum addresses used as test accounts.
const (
	adminOne = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	adminTwo = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	userOne  = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	userTwo  = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
)

func newFanout(repo *fakeNotificationRepo) *FanoutService {
	return NewFanoutService(repo, []string{adminOne, adminTwo}, zap.NewNop())
}

func TestNotifyAdminsAndExecutorWhenExecutorIsAdmin(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newFanout(repo)

	svc.NotifyAdminsAndExecutor(context.Background(), adminOne, NotificationPayload{
		Type: "contractAction", Title: "Contract sign",
	})

	// Exactly one notification per admin, none duplicated for the executor.
	assert.ElementsMatch(t, []string{adminOne, adminTwo}, repo.recipients())
}

func TestNotifyAdminsAndExecutorWhenExecutorIsNotAdmin(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newFanout(repo)

	svc.NotifyAdminsAndExecutor(context.Background(), userOne, NotificationPayload{
		Type: "contractAction", Title: "Contract sign",
	})

	assert.ElementsMatch(t, []string{adminOne, adminTwo, userOne}, repo.recipients())
}

func TestNotifyAdminsAndExecutorMatchesAdminsCaseInsensitively(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newFanout(repo)

	// Same admin account, different casing: still no duplicate.
	svc.NotifyAdminsAndExecutor(context.Background(), strings.ToLower(adminOne), NotificationPayload{Type: "x"})

	assert.ElementsMatch(t, []string{adminOne, adminTwo}, repo.recipients())
}

func TestNotifyRoleHoldersExcludesExecutorAndDuplicates(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newFanout(repo)

	svc.NotifyRoleHolders(context.Background(),
		[]string{userOne, userTwo, userTwo, "", userOne},
		NotificationPayload{Type: "contractAction"},
		userOne)

	assert.Equal(t, []string{userTwo}, repo.recipients())
}

func TestFanoutPartialFailureDoesNotBlockOtherRecipients(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.failFor[adminTwo] = true
	svc := newFanout(repo)

	// Must not panic or surface the failed write.
	svc.NotifyAdminsAndExecutor(context.Background(), userOne, NotificationPayload{Type: "x"})

	assert.ElementsMatch(t, []string{adminOne, userOne}, repo.recipients())
}

func TestFanoutSetsExecutorAndDefaults(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newFanout(repo)

	svc.NotifyAdminsAndExecutor(context.Background(), userOne, NotificationPayload{
		Type:    "documentAction",
		Title:   "document mint",
		Message: "minted",
		ExtraData: map[string]any{
			"tokenId": "42",
		},
	})

	notifications, err := repo.GetByUser(adminOne)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, userOne, n.ExecutorID)
	assert.Equal(t, "documentAction", n.Type)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ExtraData)
}
