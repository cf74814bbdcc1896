// One-off: seal a raw provider seed into an importable encrypted blob.
// Useful for rebuilding a seed file from a provider-side export.
// Usage: API_KEY_PRIVATE=... go run ./cmd/sealseed -wallet-id ... -network-id ... -seed <hex>
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"mws/internal/crypto"
	"mws/internal/model"
)

func main() {
	walletID := flag.String("wallet-id", "", "wallet identifier")
	networkID := flag.String("network-id", "", "network identifier")
	seedHex := flag.String("seed", "", "hex-encoded seed")
	flag.Parse()

	if *walletID == "" || *networkID == "" || *seedHex == "" {
		fmt.Fprintln(os.Stderr, "wallet-id, network-id and seed are all required")
		os.Exit(1)
	}

	passphrase := []byte(os.Getenv("API_KEY_PRIVATE"))
	if len(passphrase) == 0 {
		fmt.Fprintln(os.Stderr, "API_KEY_PRIVATE must be set")
		os.Exit(1)
	}
	defer clear(passphrase)

	seed, err := hex.DecodeString(*seedHex)
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed hex decode failed:", err)
		os.Exit(1)
	}
	defer clear(seed)

	payload := &model.SeedPayload{
		Seed:      seed,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	blob, err := crypto.SealSeed(*walletID, *networkID, "", payload, passphrase)
	if err != nil {
		fmt.Fprintln(os.Stderr, "seal failed:", err)
		os.Exit(1)
	}

	fmt.Print(string(blob))
}
