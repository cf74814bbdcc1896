package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// AssetConfig describes one transferable asset.
type AssetConfig struct {
	Symbol   string `yaml:"symbol"`
	Network  string `yaml:"network"`
	Decimals int    `yaml:"decimals"`
}

type assetsFile struct {
	Assets []AssetConfig `yaml:"assets"`
}

// Registry is the set of assets the service accepts for transfers, keyed by
// upper-case symbol.
type Registry struct {
	assets map[string]AssetConfig
}

// defaults cover the assets the reference deployment transfers when no
// registry file is present.
var defaults = []AssetConfig{
	{Symbol: "USDC", Network: "base-sepolia", Decimals: 6},
	{Symbol: "ETH", Network: "base-sepolia", Decimals: 18},
}

// Load reads the registry from a YAML file. A missing file falls back to the
// built-in defaults; a present but invalid file is an error.
func Load(assetsFile string) (*Registry, error) {
	var assetsPath string
	if filepath.IsAbs(assetsFile) {
		assetsPath = assetsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		assetsPath = filepath.Join(wd, assetsFile)
	}

	data, err := os.ReadFile(assetsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return newRegistry(defaults), nil
		}
		return nil, fmt.Errorf("unable to read %s: %w", assetsFile, err)
	}

	return Parse(data)
}

// Parse builds a registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var file assetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse assets file: %w", err)
	}

	for i, asset := range file.Assets {
		if asset.Symbol == "" {
			return nil, fmt.Errorf("asset at index %d missing symbol", i)
		}
		if asset.Decimals < 0 {
			return nil, fmt.Errorf("asset %s has negative decimals", asset.Symbol)
		}
	}
	if len(file.Assets) == 0 {
		return nil, fmt.Errorf("assets file contains no assets")
	}

	return newRegistry(file.Assets), nil
}

func newRegistry(list []AssetConfig) *Registry {
	assets := make(map[string]AssetConfig, len(list))
	for _, a := range list {
		assets[strings.ToUpper(a.Symbol)] = a
	}
	return &Registry{assets: assets}
}

// Lookup returns the asset config for a symbol (case-insensitive).
func (r *Registry) Lookup(symbol string) (AssetConfig, bool) {
	a, ok := r.assets[strings.ToUpper(symbol)]
	return a, ok
}

// Symbols returns the registered asset symbols.
func (r *Registry) Symbols() []string {
	symbols := make([]string, 0, len(r.assets))
	for s := range r.assets {
		symbols = append(symbols, s)
	}
	return symbols
}

// ValidateAmount checks that amount is a positive integer number of the
// asset's smallest units. Returns the normalized amount string.
func (r *Registry) ValidateAmount(symbol, amount string) (string, error) {
	if _, ok := r.Lookup(symbol); !ok {
		return "", fmt.Errorf("unknown asset %q", symbol)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !d.IsInteger() {
		return "", fmt.Errorf("amount %q must be a whole number of base units", amount)
	}
	if d.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	return d.String(), nil
}

// FormatAmount renders a base-unit amount as a human-readable decimal using
// the asset's registered precision. Unknown assets pass through unchanged.
func (r *Registry) FormatAmount(symbol, baseUnits string) string {
	asset, ok := r.Lookup(symbol)
	if !ok {
		return baseUnits
	}

	d, err := decimal.NewFromString(baseUnits)
	if err != nil {
		return baseUnits
	}
	return d.Shift(int32(-asset.Decimals)).String()
}
