package wallet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mws/internal/assets"
	"mws/internal/cdp"
	"mws/internal/crypto"
	"mws/internal/model"
	"mws/internal/seedstore"
)

const (
	testPassphrase = "test-passphrase"
	testNetwork    = "base-sepolia"
	testRecipient  = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

// stubProvider implements Provider with overridable behavior and records the
// transfer params it receives.
type stubProvider struct {
	wallets      int
	addresses    int
	balances     map[string]string
	failCreate   error
	failAddress  error
	failList     error
	lastTransfer *model.TransferParams
}

func (p *stubProvider) CreateWallet(_ context.Context, networkID string) (*cdp.ProviderWallet, error) {
	if p.failCreate != nil {
		return nil, p.failCreate
	}
	p.wallets++
	return &cdp.ProviderWallet{
		ID:        fmt.Sprintf("wallet-%d", p.wallets),
		NetworkID: networkID,
		Seed:      []byte(fmt.Sprintf("seed-material-%d", p.wallets)),
	}, nil
}

func (p *stubProvider) CreateAddress(_ context.Context, walletID string) (*model.AddressRecord, error) {
	if p.failAddress != nil {
		return nil, p.failAddress
	}
	p.addresses++
	return &model.AddressRecord{
		AddressID: fmt.Sprintf("address-%d", p.addresses),
		WalletID:  walletID,
		NetworkID: testNetwork,
	}, nil
}

func (p *stubProvider) ListAddresses(_ context.Context, walletID string) ([]model.AddressRecord, error) {
	if p.failList != nil {
		return nil, p.failList
	}
	addresses := make([]model.AddressRecord, p.addresses)
	for i := range addresses {
		addresses[i] = model.AddressRecord{
			AddressID: fmt.Sprintf("address-%d", i+1),
			WalletID:  walletID,
			NetworkID: testNetwork,
		}
	}
	return addresses, nil
}

func (p *stubProvider) ListBalances(_ context.Context, _ string) (map[string]string, error) {
	if p.balances == nil {
		return map[string]string{}, nil
	}
	return p.balances, nil
}

func (p *stubProvider) CreateWebhook(_ context.Context, walletID, callbackURL string, eventTypes []string) (*model.WebhookRegistration, error) {
	return &model.WebhookRegistration{
		WebhookID:   "webhook-1",
		WalletID:    walletID,
		CallbackURL: callbackURL,
		EventTypes:  eventTypes,
	}, nil
}

func (p *stubProvider) CreateGaslessTransfer(_ context.Context, params model.TransferParams) (*model.TransferResult, error) {
	p.lastTransfer = &params
	return &model.TransferResult{
		TransferID: "transfer-1",
		WalletID:   params.WalletID,
		ToAddress:  params.ToAddress,
		Amount:     params.Amount,
		Asset:      params.Asset,
		Status:     "pending",
	}, nil
}

func testRegistry(t *testing.T) *assets.Registry {
	t.Helper()
	registry, err := assets.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return registry
}

func newTestManager(t *testing.T) (*Manager, *stubProvider, *seedstore.Store) {
	t.Helper()
	store := seedstore.New(filepath.Join(t.TempDir(), "seed.json"))
	provider := &stubProvider{}
	manager := NewManager(store, provider, testRegistry(t), []byte(testPassphrase))
	return manager, provider, store
}

func TestCreateWalletPersistsSeed(t *testing.T) {
	manager, _, store := newTestManager(t)

	result, err := manager.CreateWallet(context.Background(), testNetwork)
	require.NoError(t, err)

	assert.Equal(t, "wallet-1", result.WalletID)
	assert.Equal(t, testNetwork, result.NetworkID)
	assert.Equal(t, "address-1", result.Address.AddressID)
	assert.Equal(t, "wallet-1", result.Address.WalletID)

	require.True(t, store.Exists())
	blob, err := store.Read()
	require.NoError(t, err)

	walletID, networkID, err := crypto.ReadBlobIdentity(blob)
	require.NoError(t, err)
	assert.Equal(t, "wallet-1", walletID)
	assert.Equal(t, testNetwork, networkID)
}

func TestCreateWalletRequiresNetworkID(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.CreateWallet(context.Background(), "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateWalletFailsWhenPersistFails(t *testing.T) {
	// A directory as the seed path makes every write fail.
	store := seedstore.New(t.TempDir())
	provider := &stubProvider{}
	manager := NewManager(store, provider, testRegistry(t), []byte(testPassphrase))

	_, err := manager.CreateWallet(context.Background(), testNetwork)
	require.Error(t, err)
	assert.Equal(t, KindStorage, KindOf(err))
}

func TestCreateWalletProviderFailure(t *testing.T) {
	manager, provider, store := newTestManager(t)
	provider.failCreate = fmt.Errorf("provider down")

	_, err := manager.CreateWallet(context.Background(), testNetwork)
	assert.Equal(t, KindProvider, KindOf(err))
	assert.False(t, store.Exists())
}

func TestLoadWalletRoundTrip(t *testing.T) {
	manager, _, _ := newTestManager(t)

	created, err := manager.CreateWallet(context.Background(), testNetwork)
	require.NoError(t, err)

	first, err := manager.LoadWallet(context.Background())
	require.NoError(t, err)
	second, err := manager.LoadWallet(context.Background())
	require.NoError(t, err)

	assert.Equal(t, created.WalletID, first.WalletID)
	assert.Equal(t, created.NetworkID, first.NetworkID)
	assert.Equal(t, first.WalletID, second.WalletID)
	assert.Equal(t, first.NetworkID, second.NetworkID)
	assert.Equal(t, first.Addresses, second.Addresses)
}

func TestOperationsWithoutSeedFailNotFound(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"load", func() error { _, err := manager.LoadWallet(ctx); return err }},
		{"export", func() error { _, err := manager.ExportWallet(ctx); return err }},
		{"balances", func() error { _, err := manager.RetrieveBalances(ctx); return err }},
		{"address", func() error { _, err := manager.CreateAddress(ctx); return err }},
		{"webhook", func() error { _, err := manager.CreateWebhook(ctx, "https://example.com/hook"); return err }},
		{"transfer", func() error {
			_, err := manager.ExecuteGaslessTransfer(ctx, &model.GaslessTransferRequest{
				WalletID:  "wallet-1",
				ToAddress: testRecipient,
				Amount:    "1000000",
			})
			return err
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.Equal(t, KindNotFound, KindOf(err))
		})
	}
}

func TestImportWalletOverwrites(t *testing.T) {
	manager, _, store := newTestManager(t)
	ctx := context.Background()

	_, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)

	payload := &model.SeedPayload{
		Seed:      []byte("imported-seed"),
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	blob, err := crypto.SealSeed("wallet-99", testNetwork, "", payload, []byte(testPassphrase))
	require.NoError(t, err)

	snapshot, err := manager.ImportWallet(ctx, string(blob))
	require.NoError(t, err)
	assert.Equal(t, "wallet-99", snapshot.WalletID)

	// The store holds exactly the imported blob; the previous one is gone.
	stored, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, blob, stored)
}

func TestImportWalletCorruptBlob(t *testing.T) {
	manager, _, store := newTestManager(t)

	_, err := manager.ImportWallet(context.Background(), "corrupt-blob")
	require.Error(t, err)
	assert.Equal(t, KindDecryption, KindOf(err))

	// The overwrite happened before validation; the corrupt blob stays.
	stored, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("corrupt-blob"), stored)
}

func TestImportWalletWrongSizeNonceBlob(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	payload := &model.SeedPayload{Seed: []byte("seed")}
	blob, err := crypto.SealSeed("wallet-2", testNetwork, "", payload, []byte(testPassphrase))
	require.NoError(t, err)

	// Valid JSON structure, but the nonce is too short for AES-GCM.
	var fields map[string]any
	require.NoError(t, json.Unmarshal(blob, &fields))
	fields["nonce"] = base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	crafted, err := json.Marshal(fields)
	require.NoError(t, err)

	_, err = manager.ImportWallet(ctx, string(crafted))
	require.Error(t, err)
	assert.Equal(t, KindDecryption, KindOf(err))

	// The bad blob is already persisted; later operations must still fail
	// cleanly rather than crash.
	_, err = manager.ExportWallet(ctx)
	assert.Equal(t, KindDecryption, KindOf(err))
}

func TestImportWalletMissingSeedIsValidationError(t *testing.T) {
	manager, _, store := newTestManager(t)

	_, err := manager.ImportWallet(context.Background(), "")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.False(t, store.Exists(), "no file write on validation failure")
}

func TestImportWalletWrongPassphraseBlob(t *testing.T) {
	manager, _, _ := newTestManager(t)

	payload := &model.SeedPayload{Seed: []byte("seed")}
	blob, err := crypto.SealSeed("wallet-2", testNetwork, "", payload, []byte("other-passphrase"))
	require.NoError(t, err)

	_, err = manager.ImportWallet(context.Background(), string(blob))
	assert.Equal(t, KindDecryption, KindOf(err))
}

func TestCreateAddressLeavesSeedUntouched(t *testing.T) {
	manager, _, store := newTestManager(t)
	ctx := context.Background()

	created, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)
	before, err := store.Read()
	require.NoError(t, err)

	address, err := manager.CreateAddress(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, created.Address.AddressID, address.AddressID)
	assert.Equal(t, created.WalletID, address.WalletID)

	after, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStoredIdentity(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, _, err := manager.StoredIdentity()
	assert.Equal(t, KindNotFound, KindOf(err))

	created, err := manager.CreateWallet(context.Background(), testNetwork)
	require.NoError(t, err)

	walletID, networkID, err := manager.StoredIdentity()
	require.NoError(t, err)
	assert.Equal(t, created.WalletID, walletID)
	assert.Equal(t, testNetwork, networkID)
}

func TestExportWalletSnapshot(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	created, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)

	snapshot, err := manager.ExportWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.WalletID, snapshot.WalletID)
	assert.Equal(t, testNetwork, snapshot.NetworkID)
	assert.NotEmpty(t, snapshot.Seed)
	assert.Len(t, snapshot.Addresses, 1)
}

func TestRetrieveBalances(t *testing.T) {
	manager, provider, _ := newTestManager(t)
	ctx := context.Background()
	provider.balances = map[string]string{"USDC": "2500000", "ETH": "10000000000000000"}

	_, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)

	balances, err := manager.RetrieveBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, provider.balances, balances)
}

func TestCreateWebhookEventTypes(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)

	registration, err := manager.CreateWebhook(ctx, "https://example.com/hook")
	require.NoError(t, err)
	assert.Equal(t, "wallet-1", registration.WalletID)
	assert.Equal(t, []string{model.EventTypeTransactionReceived}, registration.EventTypes)
}

func TestCreateWebhookRequiresURL(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.CreateWebhook(context.Background(), "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestGaslessTransferSuccess(t *testing.T) {
	manager, provider, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)

	result, err := manager.ExecuteGaslessTransfer(ctx, &model.GaslessTransferRequest{
		WalletID:  "wallet-1",
		ToAddress: testRecipient,
		Amount:    "1000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "transfer-1", result.TransferID)
	require.NotNil(t, provider.lastTransfer)
	assert.Equal(t, "wallet-1", provider.lastTransfer.WalletID)
	assert.Equal(t, model.DefaultTransferAsset, provider.lastTransfer.Asset)
	assert.NotEmpty(t, provider.lastTransfer.IdempotencyKey)
}

func TestGaslessTransferWalletIDMismatch(t *testing.T) {
	manager, provider, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.CreateWallet(ctx, testNetwork)
	require.NoError(t, err)

	_, err = manager.ExecuteGaslessTransfer(ctx, &model.GaslessTransferRequest{
		WalletID:  "some-other-wallet",
		ToAddress: testRecipient,
		Amount:    "1000000",
	})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Nil(t, provider.lastTransfer, "no provider call on mismatch")
}

func TestGaslessTransferValidation(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.GaslessTransferRequest
	}{
		{"missing wallet_id", model.GaslessTransferRequest{ToAddress: testRecipient, Amount: "1"}},
		{"missing to_address", model.GaslessTransferRequest{WalletID: "w", Amount: "1"}},
		{"missing amount", model.GaslessTransferRequest{WalletID: "w", ToAddress: testRecipient}},
		{"bad recipient", model.GaslessTransferRequest{WalletID: "w", ToAddress: "not-an-address", Amount: "1"}},
		{"fractional amount", model.GaslessTransferRequest{WalletID: "w", ToAddress: testRecipient, Amount: "1.5"}},
		{"negative amount", model.GaslessTransferRequest{WalletID: "w", ToAddress: testRecipient, Amount: "-5"}},
		{"unknown asset", model.GaslessTransferRequest{WalletID: "w", ToAddress: testRecipient, Amount: "1", Asset: "DOGE"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := manager.ExecuteGaslessTransfer(ctx, &req)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}
