package common

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mws/internal/assets"
	"mws/internal/cdp"
	"mws/internal/config"
	"mws/internal/seedstore"
	"mws/internal/wallet"
)

// InitializeLogger sets up the global production logger. The returned cleanup
// flushes buffered entries.
func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup
}

// InitializeFileLogger routes all log output to a timestamped file. Used by
// the dashboard so log lines do not corrupt the terminal UI.
func InitializeFileLogger() (*zap.Logger, func(), error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("dashboard_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	file, err := os.Create(logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(file),
		zap.InfoLevel,
	)
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)

	cleanup := func() {
		_ = logger.Sync()
		file.Close()
	}
	return logger, cleanup, nil
}

// Services holds the wired application components.
type Services struct {
	Manager  *wallet.Manager
	Registry *assets.Registry
}

// InitializeServices wires the seed store, provider client, asset registry
// and wallet manager from configuration. Config must be initialized first.
func InitializeServices() (*Services, error) {
	cfg := config.Get()

	registry, err := assets.Load(cfg.AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset registry: %w", err)
	}

	client, err := cdp.NewClient(cfg.BaseURL, cfg.APIKeyName, cfg.APIKeyPrivate)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}
	zap.L().Info("Provider client configured", zap.String("base_url", cfg.BaseURL))

	store := seedstore.New(cfg.SeedFilePath)

	passphrase, err := config.SeedPassphraseBytes()
	if err != nil {
		return nil, err
	}
	defer clear(passphrase)

	manager := wallet.NewManager(store, client, registry, passphrase)

	return &Services{
		Manager:  manager,
		Registry: registry,
	}, nil
}
