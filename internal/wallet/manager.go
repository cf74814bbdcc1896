package wallet

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"mws/internal/assets"
	"mws/internal/cdp"
	"mws/internal/crypto"
	"mws/internal/model"
	"mws/internal/seedstore"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Provider is the subset of the wallet platform the manager depends on.
// *cdp.Client satisfies it.
type Provider interface {
	CreateWallet(ctx context.Context, networkID string) (*cdp.ProviderWallet, error)
	CreateAddress(ctx context.Context, walletID string) (*model.AddressRecord, error)
	ListAddresses(ctx context.Context, walletID string) ([]model.AddressRecord, error)
	ListBalances(ctx context.Context, walletID string) (map[string]string, error)
	CreateWebhook(ctx context.Context, walletID, callbackURL string, eventTypes []string) (*model.WebhookRegistration, error)
	CreateGaslessTransfer(ctx context.Context, params model.TransferParams) (*model.TransferResult, error)
}

// Session is a rehydrated wallet session. It exists only for the duration of
// one operation; nothing is cached across calls.
type Session struct {
	WalletID  string
	NetworkID string
	Addresses []model.AddressRecord
	seed      []byte
}

func (s *Session) close() {
	clear(s.seed)
}

// Snapshot returns the exportable view of the session, including the seed.
func (s *Session) Snapshot() *model.WalletExportSnapshot {
	return &model.WalletExportSnapshot{
		WalletID:  s.WalletID,
		NetworkID: s.NetworkID,
		Seed:      hex.EncodeToString(s.seed),
		Addresses: s.Addresses,
	}
}

// Manager owns the lifecycle of exactly one logical wallet session backed by
// the platform's MPC wallet capability. The seed store is injected, never an
// ambient path, and every operation other than create/import rehydrates from
// it on each call.
type Manager struct {
	store      *seedstore.Store
	provider   Provider
	registry   *assets.Registry
	passphrase []byte
}

// NewManager creates a Manager. passphrase is copied; the caller may zero
// its own slice.
func NewManager(store *seedstore.Store, provider Provider, registry *assets.Registry, passphrase []byte) *Manager {
	p := make([]byte, len(passphrase))
	copy(p, passphrase)
	return &Manager{
		store:      store,
		provider:   provider,
		registry:   registry,
		passphrase: p,
	}
}

// CreateWallet allocates a new wallet on networkID, generates its first
// address, and persists the encrypted seed. The operation is atomic from the
// caller's view: a persistence failure fails the whole operation even though
// the wallet already exists on the provider side.
func (m *Manager) CreateWallet(ctx context.Context, networkID string) (*model.WalletCreationResult, error) {
	const op = "create wallet"
	if networkID == "" {
		return nil, newError(KindValidation, op, "network_id is required", nil)
	}

	zap.L().Info("Creating MPC wallet", zap.String("network_id", networkID))
	pw, err := m.provider.CreateWallet(ctx, networkID)
	if err != nil {
		zap.L().Error("Provider wallet creation failed", zap.Error(err))
		return nil, newError(KindProvider, op, "provider call failed", err)
	}
	defer clear(pw.Seed)

	address, err := m.provider.CreateAddress(ctx, pw.ID)
	if err != nil {
		zap.L().Error("Address creation failed for new wallet",
			zap.String("wallet_id", pw.ID), zap.Error(err))
		return nil, newError(KindProvider, op, "failed to generate address", err)
	}

	qrCode, err := generateQRCode(address.AddressID)
	if err != nil {
		return nil, newError(KindStorage, op, "failed to generate address QR", err)
	}

	payload := &model.SeedPayload{
		Seed:      pw.Seed,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	blob, err := crypto.SealSeed(pw.ID, pw.NetworkID, qrCode, payload, m.passphrase)
	if err != nil {
		return nil, newError(KindStorage, op, "failed to seal seed", err)
	}

	if err := m.store.Write(blob); err != nil {
		// The wallet exists remotely but its seed is not durable locally;
		// surface the orphaned id so an operator can recover it.
		zap.L().Error("Seed persistence failed, remote wallet is orphaned",
			zap.String("wallet_id", pw.ID),
			zap.String("network_id", pw.NetworkID),
			zap.Error(err))
		return nil, newError(KindStorage, op, fmt.Sprintf("failed to persist seed for wallet %s", pw.ID), err)
	}

	zap.L().Info("Wallet created and seed saved",
		zap.String("wallet_id", pw.ID),
		zap.String("network_id", pw.NetworkID),
		zap.String("address_id", address.AddressID),
		zap.String("path", m.store.Path()))

	return &model.WalletCreationResult{
		WalletID:  pw.ID,
		NetworkID: pw.NetworkID,
		Address:   *address,
	}, nil
}

// ImportWallet writes the caller-supplied encrypted blob verbatim into the
// seed store, then loads it to validate it decrypts. The write happens before
// validation, so a bad blob leaves the store overwritten; the prior blob is
// not restored.
func (m *Manager) ImportWallet(ctx context.Context, encryptedSeed string) (*model.WalletExportSnapshot, error) {
	const op = "import wallet"
	if encryptedSeed == "" {
		return nil, newError(KindValidation, op, "encrypted_seed is required", nil)
	}

	if err := m.store.Write([]byte(encryptedSeed)); err != nil {
		zap.L().Error("Failed to write imported seed", zap.Error(err))
		return nil, newError(KindStorage, op, "failed to persist imported seed", err)
	}
	zap.L().Info("Imported seed blob saved", zap.String("path", m.store.Path()))

	session, err := m.loadSession(ctx, op)
	if err != nil {
		return nil, err
	}
	defer session.close()

	zap.L().Info("Wallet imported", zap.String("wallet_id", session.WalletID))
	return session.Snapshot(), nil
}

// StoredIdentity returns the wallet and network identifiers from the
// persisted seed blob without decrypting it. These live in the clear in the
// blob, so no provider call and no passphrase are needed.
func (m *Manager) StoredIdentity() (walletID, networkID string, err error) {
	const op = "stored identity"
	blob, err := m.store.Read()
	if err != nil {
		if errors.Is(err, seedstore.ErrNotFound) {
			return "", "", newError(KindNotFound, op, "wallet seed file not found", err)
		}
		return "", "", newError(KindStorage, op, "failed to read seed file", err)
	}

	walletID, networkID, err = crypto.ReadBlobIdentity(blob)
	if err != nil {
		return "", "", newError(KindDecryption, op, "stored seed blob is malformed", err)
	}
	return walletID, networkID, nil
}

// LoadWallet rehydrates the wallet session from the stored encrypted seed.
// The returned session carries identity and addresses only; its seed is
// wiped before returning. Use ExportWallet for a snapshot that includes it.
func (m *Manager) LoadWallet(ctx context.Context) (*Session, error) {
	session, err := m.loadSession(ctx, "load wallet")
	if err != nil {
		return nil, err
	}
	session.close()
	return session, nil
}

// CreateAddress generates a new address under the stored wallet. The seed
// blob is not touched; derivation is recoverable from the same seed.
func (m *Manager) CreateAddress(ctx context.Context) (*model.AddressRecord, error) {
	var address *model.AddressRecord
	err := m.withSession(ctx, "create address", func(ctx context.Context, s *Session) error {
		a, err := m.provider.CreateAddress(ctx, s.WalletID)
		if err != nil {
			return newError(KindProvider, "create address", "provider call failed", err)
		}
		address = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("New address created",
		zap.String("wallet_id", address.WalletID),
		zap.String("address_id", address.AddressID))
	return address, nil
}

// ExportWallet returns the full exportable snapshot of the stored wallet.
func (m *Manager) ExportWallet(ctx context.Context) (*model.WalletExportSnapshot, error) {
	var snapshot *model.WalletExportSnapshot
	err := m.withSession(ctx, "export wallet", func(ctx context.Context, s *Session) error {
		snapshot = s.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RetrieveBalances returns current balances keyed by asset symbol.
func (m *Manager) RetrieveBalances(ctx context.Context) (map[string]string, error) {
	var balances map[string]string
	err := m.withSession(ctx, "retrieve balances", func(ctx context.Context, s *Session) error {
		b, err := m.provider.ListBalances(ctx, s.WalletID)
		if err != nil {
			return newError(KindProvider, "retrieve balances", "provider call failed", err)
		}
		balances = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// CreateWebhook registers callbackURL for transaction-received events on the
// stored wallet.
func (m *Manager) CreateWebhook(ctx context.Context, callbackURL string) (*model.WebhookRegistration, error) {
	const op = "create webhook"
	if callbackURL == "" {
		return nil, newError(KindValidation, op, "callback_url is required", nil)
	}

	var registration *model.WebhookRegistration
	err := m.withSession(ctx, op, func(ctx context.Context, s *Session) error {
		reg, err := m.provider.CreateWebhook(ctx, s.WalletID, callbackURL,
			[]string{model.EventTypeTransactionReceived})
		if err != nil {
			return newError(KindProvider, op, "provider call failed", err)
		}
		registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("Webhook registered",
		zap.String("wallet_id", registration.WalletID),
		zap.String("callback_url", callbackURL))
	return registration, nil
}

// ExecuteGaslessTransfer submits a sponsored-fee transfer from the stored
// wallet. The caller-supplied wallet id must match the rehydrated session's
// id; a mismatch fails closed.
func (m *Manager) ExecuteGaslessTransfer(ctx context.Context, req *model.GaslessTransferRequest) (*model.TransferResult, error) {
	const op = "gasless transfer"
	if err := req.Validate(); err != nil {
		return nil, newError(KindValidation, op, err.Error(), nil)
	}
	if !ethcommon.IsHexAddress(req.ToAddress) {
		return nil, newError(KindValidation, op, fmt.Sprintf("to_address %q is not a valid address", req.ToAddress), nil)
	}
	amount, err := m.registry.ValidateAmount(req.Asset, req.Amount)
	if err != nil {
		return nil, newError(KindValidation, op, err.Error(), nil)
	}

	var result *model.TransferResult
	err = m.withSession(ctx, op, func(ctx context.Context, s *Session) error {
		if req.WalletID != s.WalletID {
			return newError(KindValidation, op,
				fmt.Sprintf("wallet_id %q does not match the stored wallet", req.WalletID), nil)
		}

		params := model.TransferParams{
			WalletID:       s.WalletID,
			ToAddress:      req.ToAddress,
			Amount:         amount,
			Asset:          req.Asset,
			IdempotencyKey: uuid.NewString(),
		}
		r, err := m.provider.CreateGaslessTransfer(ctx, params)
		if err != nil {
			return newError(KindProvider, op, "provider call failed", err)
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("Gasless transfer submitted",
		zap.String("transfer_id", result.TransferID),
		zap.String("wallet_id", result.WalletID),
		zap.String("asset", result.Asset),
		zap.String("amount", result.Amount))
	return result, nil
}

// withSession rehydrates the wallet, runs fn against the session, and wipes
// the decrypted seed regardless of outcome.
func (m *Manager) withSession(ctx context.Context, op string, fn func(context.Context, *Session) error) error {
	session, err := m.loadSession(ctx, op)
	if err != nil {
		return err
	}
	defer session.close()

	if err := fn(ctx, session); err != nil {
		zap.L().Error("Wallet operation failed",
			zap.String("operation", op),
			zap.String("wallet_id", session.WalletID),
			zap.Error(err))
		return err
	}
	return nil
}

// loadSession performs the read-decrypt-list sequence shared by every
// operation that needs an existing wallet.
func (m *Manager) loadSession(ctx context.Context, op string) (*Session, error) {
	blob, err := m.store.Read()
	if err != nil {
		if errors.Is(err, seedstore.ErrNotFound) {
			return nil, newError(KindNotFound, op, "wallet seed file not found", err)
		}
		return nil, newError(KindStorage, op, "failed to read seed file", err)
	}

	seedFile, payload, err := crypto.OpenSeed(blob, m.passphrase)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptFailed) || errors.Is(err, crypto.ErrMalformedBlob) {
			zap.L().Error("Failed to decrypt stored seed", zap.Error(err))
			return nil, newError(KindDecryption, op, "failed to decrypt stored seed", err)
		}
		return nil, newError(KindStorage, op, "failed to open seed blob", err)
	}

	addresses, err := m.provider.ListAddresses(ctx, seedFile.WalletID)
	if err != nil {
		clear(payload.Seed)
		return nil, newError(KindProvider, op, "failed to list wallet addresses", err)
	}

	zap.L().Debug("Wallet session rehydrated",
		zap.String("wallet_id", seedFile.WalletID),
		zap.String("network_id", seedFile.NetworkID),
		zap.Int("addresses", len(addresses)))

	return &Session{
		WalletID:  seedFile.WalletID,
		NetworkID: seedFile.NetworkID,
		Addresses: addresses,
		seed:      payload.Seed,
	}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
