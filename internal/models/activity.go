package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Activity log entry types.
const (
	ActivityTypeOnChain = "onChain"
	ActivityTypeBackend = "backend"
)

// ActivityLog is one action in an account's global activity log, spanning
// all entities that account touched.
type ActivityLog struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Account         string             `json:"account" bson:"account"`
	Type            string             `json:"type" bson:"type"`
	Action          string             `json:"action" bson:"action"`
	TxHash          string             `json:"txHash,omitempty" bson:"tx_hash,omitempty"`
	ContractAddress string             `json:"contractAddress,omitempty" bson:"contract_address,omitempty"`
	Extra           ExtraPayload       `json:"extra,omitempty" bson:"extra,omitempty"`
	OnChainInfo     *OnChainInfo       `json:"onChainInfo,omitempty" bson:"on_chain_info,omitempty"`
	Timestamp       int64              `json:"timestamp" bson:"timestamp"`
}

// ActivityFilter selects activity entries. Account/TxHash/ContractAddress
// are equality filters; StartAfterTimestamp is an exclusive descending
// cursor (entries strictly older are returned).
type ActivityFilter struct {
	Account             string
	TxHash              string
	ContractAddress     string
	Limit               int64
	StartAfterTimestamp int64
}

// AddActivityRequest defines the request body for recording an activity
// event. Timestamp is optional and defaults to the server clock.
type AddActivityRequest struct {
	Account         string         `json:"account" validate:"required"`
	Type            string         `json:"type" validate:"required,oneof=onChain backend"`
	Action          string         `json:"action" validate:"required"`
	TxHash          string         `json:"txHash,omitempty"`
	ContractAddress string         `json:"contractAddress,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
	OnChainInfo     *OnChainInfo   `json:"onChainInfo,omitempty"`
	Timestamp       int64          `json:"timestamp,omitempty"`
}
