package model

// SeedFile represents the encrypted seed blob persisted on disk.
// Wallet and network identifiers stay in the clear so the wallet can be
// identified without the passphrase; only the seed itself is encrypted.
type SeedFile struct {
	WalletID   string `json:"wallet_id"`
	NetworkID  string `json:"network_id"`
	QR         string `json:"QR,omitempty"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// SeedPayload represents the decrypted seed material
type SeedPayload struct {
	Seed      []byte `json:"seed"` // provider-issued seed (stored as base64 in JSON)
	CreatedAt string `json:"createdAt"`
}

// AddressRecord represents a single wallet address
type AddressRecord struct {
	AddressID string `json:"address_id"`
	WalletID  string `json:"wallet_id"`
	NetworkID string `json:"network_id"`
}

// WalletCreationResult represents response for POST /wallet/create
type WalletCreationResult struct {
	WalletID  string        `json:"wallet_id"`
	NetworkID string        `json:"network_id"`
	Address   AddressRecord `json:"address"`
}

// WalletExportSnapshot represents the exported wallet state returned by
// POST /wallet/import and GET /wallet/export
type WalletExportSnapshot struct {
	WalletID  string          `json:"wallet_id"`
	NetworkID string          `json:"network_id"`
	Seed      string          `json:"seed"` // hex-encoded
	Addresses []AddressRecord `json:"addresses"`
}

// ImportWalletRequest represents request for POST /wallet/import
type ImportWalletRequest struct {
	EncryptedSeed string `json:"encrypted_seed"`
}
