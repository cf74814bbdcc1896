package cdp

import (
	"context"
	"net/http"

	"mws/internal/model"
)

type webhookRequest struct {
	WalletID        string   `json:"wallet_id"`
	NotificationURI string   `json:"notification_uri"`
	EventTypes      []string `json:"event_types"`
}

type webhookResponse struct {
	ID              string   `json:"id"`
	WalletID        string   `json:"wallet_id"`
	NotificationURI string   `json:"notification_uri"`
	EventTypes      []string `json:"event_types"`
}

// CreateWebhook registers a callback URL for on-chain events scoped to the
// wallet. The registration lives on the provider's side only.
func (c *Client) CreateWebhook(ctx context.Context, walletID, callbackURL string, eventTypes []string) (*model.WebhookRegistration, error) {
	body := webhookRequest{
		WalletID:        walletID,
		NotificationURI: callbackURL,
		EventTypes:      eventTypes,
	}

	var resp webhookResponse
	if err := c.do(ctx, http.MethodPost, "/v1/webhooks", body, &resp); err != nil {
		return nil, err
	}

	return &model.WebhookRegistration{
		WebhookID:   resp.ID,
		WalletID:    resp.WalletID,
		CallbackURL: resp.NotificationURI,
		EventTypes:  resp.EventTypes,
	}, nil
}
