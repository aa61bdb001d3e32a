package repositories

import (
	"context"
	"sync"

	"github.com/tradevault/backend/internal/models"
)

// MemoryHistoryRepository is an in-memory HistoryRepository for tests and
// local development. Appends are serialized by a mutex, which stands in for
// the store's atomic array-append primitive.
type MemoryHistoryRepository struct {
	mu        sync.RWMutex
	histories map[string][]models.LogEntry
}

// NewMemoryHistoryRepository creates an empty in-memory history store.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{histories: make(map[string][]models.LogEntry)}
}

// Append adds an entry under the entity key, creating the history lazily.
func (r *MemoryHistoryRepository) Append(ctx context.Context, entityKey string, entry models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[entityKey] = append(r.histories[entityKey], entry)
	return nil
}

// Get returns a copy of the entity's history in append order.
func (r *MemoryHistoryRepository) Get(ctx context.Context, entityKey string) ([]models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history, ok := r.histories[entityKey]
	if !ok {
		return []models.LogEntry{}, nil
	}
	out := make([]models.LogEntry, len(history))
	copy(out, history)
	return out, nil
}

// FindByEntryField matches entities having at least one entry whose named
// top-level field equals value.
func (r *MemoryHistoryRepository) FindByEntryField(ctx context.Context, field string, value any) (map[string][]models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string][]models.LogEntry)
	for key, history := range r.histories {
		for _, entry := range history {
			if entryField(entry, field) == value {
				out := make([]models.LogEntry, len(history))
				copy(out, history)
				result[key] = out
				break
			}
		}
	}
	return result, nil
}

func entryField(entry models.LogEntry, field string) any {
	switch field {
	case "account":
		return entry.Account
	case "action":
		return entry.Action
	case "tx_hash":
		return entry.TxHash
	case "signer":
		return entry.Signer
	case "executor":
		return entry.Executor
	default:
		if entry.Extra == nil {
			return nil
		}
		return entry.Extra[field]
	}
}
