package services

import (
	"context"
	"time"

	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
)

// HistoryService is the codec in front of a per-entity history log: it
// validates and normalizes incoming payloads and appends them. One instance
// per entity collection (contracts, documents, KYC records).
type HistoryService struct {
	histories repositories.HistoryRepository
	required  []string
}

// NewContractHistoryService creates the codec for contract histories, where
// every entry references an on-chain transaction.
func NewContractHistoryService(histories repositories.HistoryRepository) *HistoryService {
	return &HistoryService{
		histories: histories,
		required:  []string{"contractAddress", "action", "txHash", "account"},
	}
}

// NewTokenHistoryService creates the codec for document and KYC histories,
// keyed by token id. Backend-originated actions carry no transaction, so
// txHash stays an empty-string sentinel.
func NewTokenHistoryService(histories repositories.HistoryRepository) *HistoryService {
	return &HistoryService{
		histories: histories,
		required:  []string{"tokenId", "action", "account"},
	}
}

// Append validates the payload and appends it to the entity's history.
// Returns the stored entry. A failed append is reported, never silently
// swallowed: entity histories are the source of truth.
func (s *HistoryService) Append(ctx context.Context, entityKey string, entry models.LogEntry) (*models.LogEntry, error) {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if err := s.validate(entityKey, entry); err != nil {
		return nil, err
	}

	entry.Account = models.NormalizeAddress(entry.Account)
	entry.Signer = models.NormalizeAddress(entry.Signer)
	entry.Executor = models.NormalizeAddress(entry.Executor)

	if err := s.histories.Append(ctx, models.NormalizeAddress(entityKey), entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get returns the entity's history in append order, empty when nothing has
// been logged yet.
func (s *HistoryService) Get(ctx context.Context, entityKey string) ([]models.LogEntry, error) {
	return s.histories.Get(ctx, models.NormalizeAddress(entityKey))
}

// FindByEntryField returns every history containing an entry whose field
// matches value, keyed by entity.
func (s *HistoryService) FindByEntryField(ctx context.Context, field string, value any) (map[string][]models.LogEntry, error) {
	return s.histories.FindByEntryField(ctx, field, value)
}

func (s *HistoryService) validate(entityKey string, entry models.LogEntry) error {
	for _, field := range s.required {
		var present bool
		switch field {
		case "contractAddress", "tokenId":
			present = entityKey != ""
		case "action":
			present = entry.Action != ""
		case "txHash":
			present = entry.TxHash != ""
		case "account":
			present = entry.Account != ""
		}
		if !present {
			return apperrors.MissingField(field)
		}
	}
	return nil
}
