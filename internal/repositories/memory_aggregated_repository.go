package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
)

// MemoryAggregatedRepository is an in-memory AggregatedRepository for tests
// and local development. Tag updates hold the mutex for the whole
// read-modify-write, standing in for the store's atomic set primitives.
type MemoryAggregatedRepository struct {
	mu   sync.RWMutex
	rows map[string]models.AggregatedActivityLog
}

// NewMemoryAggregatedRepository creates an empty in-memory index.
func NewMemoryAggregatedRepository() *MemoryAggregatedRepository {
	return &MemoryAggregatedRepository{rows: make(map[string]models.AggregatedActivityLog)}
}

// Add upserts the index row; a colliding id is overwritten.
func (r *MemoryAggregatedRepository) Add(ctx context.Context, entry models.ActivityLog) (*models.AggregatedActivityLog, error) {
	row := models.NewAggregatedActivityLog(entry)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.ID] = row
	return &row, nil
}

// GetByID retrieves one index row.
func (r *MemoryAggregatedRepository) GetByID(ctx context.Context, id string) (*models.AggregatedActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("aggregated entry %s: %w", id, apperrors.ErrNotFound)
	}
	row.Tags = append([]string(nil), row.Tags...)
	return &row, nil
}

// Query filters and pages the index.
func (r *MemoryAggregatedRepository) Query(ctx context.Context, filter models.AggregatedFilter) ([]models.AggregatedActivityLog, error) {
	r.mu.RLock()
	matched := []models.AggregatedActivityLog{}
	for _, row := range r.rows {
		if filter.Account != "" && row.AccountLower != strings.ToLower(filter.Account) {
			continue
		}
		if filter.TxHash != "" && row.TxHashLower != strings.ToLower(filter.TxHash) {
			continue
		}
		if filter.ContractAddress != "" && row.ContractLower != strings.ToLower(filter.ContractAddress) {
			continue
		}
		if filter.StartAfterTimestamp > 0 && row.Timestamp >= filter.StartAfterTimestamp {
			continue
		}
		row.Tags = append([]string(nil), row.Tags...)
		matched = append(matched, row)
	}
	r.mu.RUnlock()

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
	return filterByTags(matched, filter.Tags), nil
}

// AddTag adds a tag with set semantics.
func (r *MemoryAggregatedRepository) AddTag(ctx context.Context, id, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("aggregated entry %s: %w", id, apperrors.ErrNotFound)
	}
	for _, t := range row.Tags {
		if t == tag {
			return nil
		}
	}
	row.Tags = append(row.Tags, tag)
	r.rows[id] = row
	return nil
}

// RemoveTag removes a tag; absent tags are a no-op.
func (r *MemoryAggregatedRepository) RemoveTag(ctx context.Context, id, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("aggregated entry %s: %w", id, apperrors.ErrNotFound)
	}
	kept := row.Tags[:0]
	for _, t := range row.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	row.Tags = kept
	r.rows[id] = row
	return nil
}
