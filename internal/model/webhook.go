package model

// EventTypeTransactionReceived is the only event type registered for wallet
// webhooks: the provider notifies on incoming transactions.
const EventTypeTransactionReceived = "TRANSACTION_RECEIVED"

// WebhookRequest represents request for POST /wallet/webhook
type WebhookRequest struct {
	CallbackURL string `json:"callback_url" binding:"required"`
}

// WebhookRegistration represents the provider's webhook confirmation
type WebhookRegistration struct {
	WebhookID   string   `json:"webhook_id"`
	WalletID    string   `json:"wallet_id"`
	CallbackURL string   `json:"callback_url"`
	EventTypes  []string `json:"event_types"`
}
