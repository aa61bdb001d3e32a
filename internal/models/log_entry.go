package models

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Action verbs recorded in entity histories. The vocabulary is fixed per
// entity type; unknown verbs are stored as-is so the log stays append-only
// even when the contract layer grows new actions.
const (
	ActionMint    = "mint"
	ActionReview  = "review"
	ActionSign    = "sign"
	ActionRevoke  = "revoke"
	ActionLink    = "link"
	ActionDeploy  = "deploy"
	ActionDeposit = "deposit"
)

// OnChainInfo is a point-in-time verification snapshot captured when the
// entry is written. It is never re-verified later.
type OnChainInfo struct {
	Status        string `json:"status" bson:"status"`
	BlockNumber   uint64 `json:"blockNumber" bson:"block_number"`
	Confirmations uint64 `json:"confirmations" bson:"confirmations"`
}

// LogEntry is a single action recorded against one entity (contract,
// document or KYC record). TxHash is the empty string when the action has no
// on-chain counterpart.
type LogEntry struct {
	Action      string       `json:"action" bson:"action"`
	Account     string       `json:"account" bson:"account"`
	TxHash      string       `json:"txHash" bson:"tx_hash"`
	Signer      string       `json:"signer,omitempty" bson:"signer,omitempty"`
	Executor    string       `json:"executor,omitempty" bson:"executor,omitempty"`
	Extra       ExtraPayload `json:"extra,omitempty" bson:"extra,omitempty"`
	OnChainInfo *OnChainInfo `json:"onChainInfo,omitempty" bson:"on_chain_info,omitempty"`
	Timestamp   int64        `json:"timestamp" bson:"timestamp"`
}

// EntityHistory is the append-only log document for one entity key (contract
// address, document token id, KYC token id). Entries are kept in append
// order, not timestamp order.
type EntityHistory struct {
	EntityKey string     `json:"entityKey" bson:"_id"`
	History   []LogEntry `json:"history" bson:"history"`
}

// AddContractLogRequest defines the request body for appending to a
// contract's history.
type AddContractLogRequest struct {
	ContractAddress string         `json:"contractAddress" validate:"required"`
	Action          string         `json:"action" validate:"required"`
	TxHash          string         `json:"txHash" validate:"required"`
	Account         string         `json:"account" validate:"required"`
	Signer          string         `json:"signer,omitempty"`
	Executor        string         `json:"executor,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
	OnChainInfo     *OnChainInfo   `json:"onChainInfo,omitempty"`
	Timestamp       int64          `json:"timestamp,omitempty"`
}

// AddTokenLogRequest defines the request body for appending to a document or
// KYC record history (both are keyed by token id).
type AddTokenLogRequest struct {
	TokenID     string         `json:"tokenId" validate:"required"`
	Action      string         `json:"action" validate:"required"`
	Account     string         `json:"account" validate:"required"`
	TxHash      string         `json:"txHash,omitempty"`
	Signer      string         `json:"signer,omitempty"`
	Executor    string         `json:"executor,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	OnChainInfo *OnChainInfo   `json:"onChainInfo,omitempty"`
	Timestamp   int64          `json:"timestamp,omitempty"`
}

// NormalizeAddress converts a hex address to its canonical EIP-55 checksum
// form. Values that are not hex addresses (empty strings, token ids) are
// returned unchanged.
func NormalizeAddress(addr string) string {
	if addr == "" || !common.IsHexAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}

// SameAddress reports whether two addresses refer to the same account,
// ignoring checksum casing.
func SameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
