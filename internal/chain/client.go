package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// MaxAccountsPerRequest is the getMultipleAccounts key limit.
const MaxAccountsPerRequest = 100

// AccountInfo is the subset of an on-chain account the quoter needs.
type AccountInfo struct {
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// Client wraps the solana-go RPC client and provides helper methods.
type Client struct {
	rpcClient  *rpc.Client
	commitment rpc.CommitmentType
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(rpcURL string, commitment string) (*Client, error) {
	if strings.TrimSpace(rpcURL) == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	level, err := ParseCommitment(commitment)
	if err != nil {
		return nil, err
	}
	return &Client{
		rpcClient:  rpc.New(rpcURL),
		commitment: level,
	}, nil
}

// ParseCommitment maps a config string onto an RPC commitment level.
func ParseCommitment(value string) (rpc.CommitmentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	case "processed":
		return rpc.CommitmentProcessed, nil
	default:
		return "", fmt.Errorf("unsupported commitment: %s", value)
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		_ = c.rpcClient.Close()
	}
}

// LatestSlot returns the current slot at the client commitment.
func (c *Client) LatestSlot(ctx context.Context) (uint64, error) {
	return c.rpcClient.GetSlot(ctx, c.commitment)
}

// GetAccounts fetches up to MaxAccountsPerRequest accounts in one call. Missing
// accounts are absent from the returned map. The slot is the RPC context slot.
func (c *Client) GetAccounts(ctx context.Context, keys []solana.PublicKey) (map[string]AccountInfo, uint64, error) {
	if len(keys) == 0 {
		return map[string]AccountInfo{}, 0, nil
	}
	if len(keys) > MaxAccountsPerRequest {
		return nil, 0, fmt.Errorf("too many accounts in one request: %d > %d", len(keys), MaxAccountsPerRequest)
	}

	resp, err := c.rpcClient.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("get multiple accounts: %w", err)
	}
	if len(resp.Value) != len(keys) {
		return nil, 0, fmt.Errorf("rpc returned %d accounts for %d keys", len(resp.Value), len(keys))
	}

	out := make(map[string]AccountInfo, len(keys))
	for i, account := range resp.Value {
		if account == nil || account.Data == nil {
			continue
		}
		out[keys[i].String()] = AccountInfo{
			Owner:    account.Owner,
			Lamports: account.Lamports,
			Data:     account.Data.GetBinary(),
		}
	}
	return out, resp.Context.Slot, nil
}
