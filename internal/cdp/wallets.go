package cdp

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"mws/internal/model"
)

// ProviderWallet is a freshly allocated platform wallet. Seed is the
// provider-issued secret material needed to rehydrate the wallet; it is
// returned exactly once, at creation.
type ProviderWallet struct {
	ID        string
	NetworkID string
	Seed      []byte
}

type walletResponse struct {
	ID        string `json:"id"`
	NetworkID string `json:"network_id"`
	Seed      string `json:"seed,omitempty"` // hex-encoded
}

type addressResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"wallet_id"`
	NetworkID string `json:"network_id"`
}

type addressListResponse struct {
	Data []addressResponse `json:"data"`
}

type balanceEntry struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

type balanceListResponse struct {
	Data []balanceEntry `json:"data"`
}

// CreateWallet allocates a new MPC wallet on the given network.
func (c *Client) CreateWallet(ctx context.Context, networkID string) (*ProviderWallet, error) {
	body := map[string]any{
		"wallet": map[string]string{"network_id": networkID},
	}

	var resp walletResponse
	if err := c.do(ctx, http.MethodPost, "/v1/wallets", body, &resp); err != nil {
		return nil, err
	}

	seed, err := hex.DecodeString(resp.Seed)
	if err != nil {
		return nil, fmt.Errorf("provider returned invalid seed encoding: %w", err)
	}

	return &ProviderWallet{
		ID:        resp.ID,
		NetworkID: resp.NetworkID,
		Seed:      seed,
	}, nil
}

// CreateAddress derives a new address under the wallet. Derivation is
// deterministic on the provider side, so the local seed blob stays valid.
func (c *Client) CreateAddress(ctx context.Context, walletID string) (*model.AddressRecord, error) {
	path := fmt.Sprintf("/v1/wallets/%s/addresses", walletID)

	var resp addressResponse
	if err := c.do(ctx, http.MethodPost, path, map[string]string{}, &resp); err != nil {
		return nil, err
	}

	return &model.AddressRecord{
		AddressID: resp.ID,
		WalletID:  resp.WalletID,
		NetworkID: resp.NetworkID,
	}, nil
}

// ListAddresses returns the wallet's addresses in creation order.
func (c *Client) ListAddresses(ctx context.Context, walletID string) ([]model.AddressRecord, error) {
	path := fmt.Sprintf("/v1/wallets/%s/addresses", walletID)

	var resp addressListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	addresses := make([]model.AddressRecord, len(resp.Data))
	for i, a := range resp.Data {
		addresses[i] = model.AddressRecord{
			AddressID: a.ID,
			WalletID:  a.WalletID,
			NetworkID: a.NetworkID,
		}
	}
	return addresses, nil
}

// ListBalances returns the wallet's current balances keyed by asset symbol,
// amounts as decimal strings in the asset's smallest unit.
func (c *Client) ListBalances(ctx context.Context, walletID string) (map[string]string, error) {
	path := fmt.Sprintf("/v1/wallets/%s/balances", walletID)

	var resp balanceListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	balances := make(map[string]string, len(resp.Data))
	for _, b := range resp.Data {
		balances[b.Asset] = b.Amount
	}
	return balances, nil
}
