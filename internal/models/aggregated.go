package models

import (
	"fmt"
	"strings"
)

// AggregatedActivityLog is a denormalized row in the secondary activity
// index: one document per event, independently queryable and taggable.
// The lower-cased shadow fields are written once at creation time and back
// case-insensitive equality filters on a store without native support for
// them; they are never recomputed later.
type AggregatedActivityLog struct {
	ID              string       `json:"id" bson:"_id"`
	Account         string       `json:"account" bson:"account"`
	AccountLower    string       `json:"-" bson:"account_lower"`
	Type            string       `json:"type" bson:"type"`
	Action          string       `json:"action" bson:"action"`
	TxHash          string       `json:"txHash,omitempty" bson:"tx_hash,omitempty"`
	TxHashLower     string       `json:"-" bson:"tx_hash_lower,omitempty"`
	ContractAddress string       `json:"contractAddress,omitempty" bson:"contract_address,omitempty"`
	ContractLower   string       `json:"-" bson:"contract_lower,omitempty"`
	Tags            []string     `json:"tags" bson:"tags"`
	Extra           ExtraPayload `json:"extra,omitempty" bson:"extra,omitempty"`
	OnChainInfo     *OnChainInfo `json:"onChainInfo,omitempty" bson:"on_chain_info,omitempty"`
	Timestamp       int64        `json:"timestamp" bson:"timestamp"`
}

// AggregatedID derives the globally unique row id for an event. Two events
// sharing account and timestamp collide and the later write wins; retried
// writers rely on that overwrite being harmless.
func AggregatedID(account string, timestamp int64) string {
	return fmt.Sprintf("%s_%d", account, timestamp)
}

// NewAggregatedActivityLog builds an index row from an activity entry,
// deriving the id and the lower-cased shadow fields. Tags start empty.
func NewAggregatedActivityLog(entry ActivityLog) AggregatedActivityLog {
	return AggregatedActivityLog{
		ID:              AggregatedID(entry.Account, entry.Timestamp),
		Account:         entry.Account,
		AccountLower:    strings.ToLower(entry.Account),
		Type:            entry.Type,
		Action:          entry.Action,
		TxHash:          entry.TxHash,
		TxHashLower:     strings.ToLower(entry.TxHash),
		ContractAddress: entry.ContractAddress,
		ContractLower:   strings.ToLower(entry.ContractAddress),
		Tags:            []string{},
		Extra:           entry.Extra,
		OnChainInfo:     entry.OnChainInfo,
		Timestamp:       entry.Timestamp,
	}
}

// AggregatedFilter selects aggregated rows. Equality filters are
// case-insensitive (matched against the shadow fields). Tags intersection is
// applied after the store query; see AggregatedRepository.Query.
type AggregatedFilter struct {
	Account             string
	TxHash              string
	ContractAddress     string
	Tags                []string
	Limit               int64
	StartAfterTimestamp int64
}

// TagRequest defines the request body for tagging an aggregated entry.
type TagRequest struct {
	Tag string `json:"tag" validate:"required"`
}
