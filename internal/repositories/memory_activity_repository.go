package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/tradevault/backend/internal/models"
)

// MemoryActivityRepository is an in-memory ActivityRepository for tests and
// local development.
type MemoryActivityRepository struct {
	mu      sync.RWMutex
	entries []models.ActivityLog
}

// NewMemoryActivityRepository creates an empty in-memory activity log.
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

// Add stores a new activity entry.
func (r *MemoryActivityRepository) Add(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return &entry, nil
}

// ListByAccount pages through one account's activity.
func (r *MemoryActivityRepository) ListByAccount(ctx context.Context, account string, filter models.ActivityFilter) ([]models.ActivityLog, error) {
	filter.Account = account
	return r.find(filter), nil
}

// ListAll pages across all accounts.
func (r *MemoryActivityRepository) ListAll(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, error) {
	return r.find(filter), nil
}

func (r *MemoryActivityRepository) find(filter models.ActivityFilter) []models.ActivityLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.ActivityLog{}
	for _, entry := range r.entries {
		if filter.Account != "" && entry.Account != filter.Account {
			continue
		}
		if filter.TxHash != "" && entry.TxHash != filter.TxHash {
			continue
		}
		if filter.ContractAddress != "" && entry.ContractAddress != filter.ContractAddress {
			continue
		}
		if filter.StartAfterTimestamp > 0 && entry.Timestamp >= filter.StartAfterTimestamp {
			continue
		}
		matched = append(matched, entry)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActivityPageSize
	}
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched
}
