package cdp

import (
	"context"
	"net/http"

	"mws/internal/model"
)

const transferTypeGasless = "GASLESS"

type transferRequest struct {
	WalletID       string `json:"wallet_id"`
	To             string `json:"to"`
	Amount         string `json:"amount"`
	Asset          string `json:"asset"`
	TransferType   string `json:"transfer_type"`
	IdempotencyKey string `json:"idempotency_key"`
}

type transferResponse struct {
	ID       string `json:"id"`
	WalletID string `json:"wallet_id"`
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Asset    string `json:"asset"`
	Status   string `json:"status"`
	TxHash   string `json:"transaction_hash"`
}

// CreateGaslessTransfer submits a sponsored-fee transfer. The transfer type
// is always GASLESS; the network fee is paid by the platform.
func (c *Client) CreateGaslessTransfer(ctx context.Context, params model.TransferParams) (*model.TransferResult, error) {
	body := transferRequest{
		WalletID:       params.WalletID,
		To:             params.ToAddress,
		Amount:         params.Amount,
		Asset:          params.Asset,
		TransferType:   transferTypeGasless,
		IdempotencyKey: params.IdempotencyKey,
	}

	var resp transferResponse
	if err := c.do(ctx, http.MethodPost, "/v2/transfers", body, &resp); err != nil {
		return nil, err
	}

	return &model.TransferResult{
		TransferID: resp.ID,
		WalletID:   resp.WalletID,
		ToAddress:  resp.To,
		Amount:     resp.Amount,
		Asset:      resp.Asset,
		Status:     resp.Status,
		TxHash:     resp.TxHash,
	}, nil
}
