// Package chain provides best-effort transaction verification against an
// Ethereum-compatible node. Handlers use it to enrich log entries before
// they are written; the log repositories never call out to the chain.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tradevault/backend/internal/models"
)

// Verifier checks transaction hashes against a JSON-RPC endpoint.
type Verifier struct {
	client *ethclient.Client
}

// NewVerifier dials the node. The caller decides whether a verifier exists
// at all; deployments without a chain endpoint simply skip enrichment.
func NewVerifier(rpcURL string) (*Verifier, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing chain rpc: %w", err)
	}
	return &Verifier{client: client}, nil
}

// Verify returns a point-in-time snapshot of the transaction's status, or
// nil when the node does not know the hash. The snapshot is stored on the
// log entry as-is and never re-verified.
func (v *Verifier) Verify(ctx context.Context, txHash string) (*models.OnChainInfo, error) {
	receipt, err := v.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching receipt for %s: %w", txHash, err)
	}

	head, err := v.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain head: %w", err)
	}

	status := "failed"
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = "success"
	}

	blockNumber := receipt.BlockNumber.Uint64()
	var confirmations uint64
	if head >= blockNumber {
		confirmations = head - blockNumber + 1
	}

	return &models.OnChainInfo{
		Status:        status,
		BlockNumber:   blockNumber,
		Confirmations: confirmations,
	}, nil
}

// Close releases the underlying RPC connection.
func (v *Verifier) Close() {
	v.client.Close()
}
