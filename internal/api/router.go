package api

import (
	"net/http"
	"time"

	"mws/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(walletHandler *handler.WalletHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/create", walletHandler.CreateWallet)
	mux.HandleFunc("/wallet/import", walletHandler.ImportWallet)
	mux.HandleFunc("/wallet/export", walletHandler.ExportWallet)
	mux.HandleFunc("/wallet/balances", walletHandler.RetrieveBalances)
	mux.HandleFunc("/wallet/address", walletHandler.CreateAddress)
	mux.HandleFunc("/wallet/webhook", walletHandler.CreateWebhook)

	// Transaction endpoints
	mux.HandleFunc("/transaction/gasless", walletHandler.ExecuteGaslessTransfer)

	return logRequests(mux)
}

// logRequests logs every request with its duration.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Info("Request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
