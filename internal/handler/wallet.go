package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"mws/internal/model"
	"mws/internal/wallet"
)

// WalletService is the manager surface the handlers depend on.
type WalletService interface {
	CreateWallet(ctx context.Context, networkID string) (*model.WalletCreationResult, error)
	ImportWallet(ctx context.Context, encryptedSeed string) (*model.WalletExportSnapshot, error)
	CreateAddress(ctx context.Context) (*model.AddressRecord, error)
	ExportWallet(ctx context.Context) (*model.WalletExportSnapshot, error)
	RetrieveBalances(ctx context.Context) (map[string]string, error)
	CreateWebhook(ctx context.Context, callbackURL string) (*model.WebhookRegistration, error)
	ExecuteGaslessTransfer(ctx context.Context, req *model.GaslessTransferRequest) (*model.TransferResult, error)
}

// WalletHandler maps HTTP requests onto wallet manager calls.
type WalletHandler struct {
	service WalletService
}

// NewWalletHandler creates a new WalletHandler backed by service.
func NewWalletHandler(service WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// statusForError maps the wallet error taxonomy onto HTTP statuses.
// Validation problems are distinguished from operational failures.
func statusForError(err error) int {
	switch wallet.KindOf(err) {
	case wallet.KindValidation:
		return http.StatusUnprocessableEntity
	case wallet.KindNotFound:
		return http.StatusNotFound
	case wallet.KindDecryption:
		return http.StatusBadRequest
	case wallet.KindStorage:
		return http.StatusInternalServerError
	case wallet.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), model.ErrorResponse{
		Detail: err.Error(),
		Code:   wallet.KindOf(err).Code(),
	})
}

// CreateWallet handles POST /wallet/create
// @Summary      Create wallet
// @Description  Creates a new MPC wallet on the given network, generates its first address and persists the encrypted seed
// @Tags         wallet
// @Produce      json
// @Param        network_id  query     string  true  "Blockchain network identifier (e.g. base-sepolia)"
// @Success      200         {object}  model.WalletCreationResult
// @Failure      422         {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	networkID := r.URL.Query().Get("network_id")
	if networkID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail: "network_id query parameter is required",
			Code:   wallet.KindValidation.Code(),
		})
		return
	}

	result, err := h.service.CreateWallet(r.Context(), networkID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ImportWallet handles POST /wallet/import
// @Summary      Import wallet
// @Description  Saves a caller-supplied encrypted seed blob and rehydrates the wallet from it
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportWalletRequest  true  "Encrypted seed blob"
// @Success      200      {object}  model.WalletExportSnapshot
// @Failure      422      {object}  model.ErrorResponse
// @Router       /wallet/import [post]
func (h *WalletHandler) ImportWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail: "invalid JSON body: " + err.Error(),
			Code:   wallet.KindValidation.Code(),
		})
		return
	}
	if req.EncryptedSeed == "" {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail: "Missing 'encrypted_seed' field in payload",
			Code:   wallet.KindValidation.Code(),
		})
		return
	}

	snapshot, err := h.service.ImportWallet(r.Context(), req.EncryptedSeed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// ExportWallet handles GET /wallet/export
// @Summary      Export wallet
// @Description  Rehydrates the stored wallet and returns its full exportable snapshot
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletExportSnapshot
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/export [get]
func (h *WalletHandler) ExportWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := h.service.ExportWallet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// RetrieveBalances handles GET /wallet/balances
// @Summary      Get balances
// @Description  Rehydrates the stored wallet and returns its asset balances
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/balances [get]
func (h *WalletHandler) RetrieveBalances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balances, err := h.service.RetrieveBalances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balances)
}

// CreateAddress handles POST /wallet/address
// @Summary      Create address
// @Description  Generates a new address for the stored wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.AddressRecord
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/address [post]
func (h *WalletHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	address, err := h.service.CreateAddress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, address)
}

// ExecuteGaslessTransfer handles POST /transaction/gasless
// @Summary      Gasless transfer
// @Description  Submits a sponsored-fee transfer from the stored wallet (default asset USDC)
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Param        request  body      model.GaslessTransferRequest  true  "Transfer data"
// @Success      200      {object}  model.TransferResult
// @Failure      422      {object}  model.ErrorResponse
// @Router       /transaction/gasless [post]
func (h *WalletHandler) ExecuteGaslessTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GaslessTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail: "invalid JSON body: " + err.Error(),
			Code:   wallet.KindValidation.Code(),
		})
		return
	}

	result, err := h.service.ExecuteGaslessTransfer(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CreateWebhook handles POST /wallet/webhook
// @Summary      Register webhook
// @Description  Registers a callback URL for transaction-received events on the stored wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.WebhookRequest  true  "Webhook callback URL"
// @Success      200      {object}  model.WebhookRegistration
// @Failure      422      {object}  model.ErrorResponse
// @Router       /wallet/webhook [post]
func (h *WalletHandler) CreateWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail: "invalid JSON body: " + err.Error(),
			Code:   wallet.KindValidation.Code(),
		})
		return
	}
	if req.CallbackURL == "" {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail: "Missing 'callback_url' field in payload",
			Code:   wallet.KindValidation.Code(),
		})
		return
	}

	registration, err := h.service.CreateWebhook(r.Context(), req.CallbackURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registration)
}
