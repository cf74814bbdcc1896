package model

import "fmt"

// DefaultTransferAsset is used when a transfer request omits the asset symbol.
const DefaultTransferAsset = "USDC"

// GaslessTransferRequest represents request for POST /transaction/gasless.
// Amount is a decimal string in the asset's smallest unit.
type GaslessTransferRequest struct {
	WalletID  string `json:"wallet_id" binding:"required"`
	ToAddress string `json:"to_address" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Asset     string `json:"asset,omitempty"`
}

// Validate checks required fields and applies the asset default.
func (r *GaslessTransferRequest) Validate() error {
	if r.WalletID == "" {
		return fmt.Errorf("wallet_id is required")
	}
	if r.ToAddress == "" {
		return fmt.Errorf("to_address is required")
	}
	if r.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if r.Asset == "" {
		r.Asset = DefaultTransferAsset
	}
	return nil
}

// TransferParams is the provider-facing transfer request. The idempotency
// key is generated fresh per submission; the transfer type is always gasless.
type TransferParams struct {
	WalletID       string
	ToAddress      string
	Amount         string
	Asset          string
	IdempotencyKey string
}

// TransferResult represents the provider's transfer confirmation
type TransferResult struct {
	TransferID string `json:"transfer_id"`
	WalletID   string `json:"wallet_id"`
	ToAddress  string `json:"to_address"`
	Amount     string `json:"amount"`
	Asset      string `json:"asset"`
	Status     string `json:"status"`
	TxHash     string `json:"transaction_hash,omitempty"`
}
