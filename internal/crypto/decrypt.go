package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"mws/internal/model"

	"golang.org/x/crypto/scrypt"
)

// ErrMalformedBlob indicates the blob is not a valid seed file structure.
var ErrMalformedBlob = errors.New("malformed seed blob")

// ErrDecryptFailed indicates the ciphertext could not be opened with the
// held passphrase (wrong passphrase or corrupt ciphertext).
var ErrDecryptFailed = errors.New("failed to decrypt seed blob")

// OpenSeed parses the JSON seed blob and decrypts the seed payload.
// passphrase must be []byte for security (caller should zero it after use)
func OpenSeed(blob []byte, passphrase []byte) (*model.SeedFile, *model.SeedPayload, error) {
	if len(blob) == 0 {
		return nil, nil, fmt.Errorf("%w: empty blob", ErrMalformedBlob)
	}

	// Skip UTF-8 BOM if present
	if len(blob) >= 3 && blob[0] == 0xEF && blob[1] == 0xBB && blob[2] == 0xBF {
		blob = blob[3:]
	}

	// Deserialize blob structure
	var seedFile model.SeedFile
	if err := json.Unmarshal(blob, &seedFile); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(seedFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad salt: %v", ErrMalformedBlob, err)
	}
	if len(salt) != saltLen {
		return nil, nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrMalformedBlob, saltLen, len(salt))
	}

	nonce, err := base64.StdEncoding.DecodeString(seedFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad nonce: %v", ErrMalformedBlob, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(seedFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad ciphertext: %v", ErrMalformedBlob, err)
	}

	// Derive key from passphrase
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// GCM panics on a wrong-size nonce, so length-check caller-supplied
	// material before opening
	if len(nonce) != aesGCM.NonceSize() {
		return nil, nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrMalformedBlob, aesGCM.NonceSize(), len(nonce))
	}

	// Decrypt
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, ErrDecryptFailed
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	// Deserialize seed payload
	var payload model.SeedPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, nil, fmt.Errorf("%w: bad payload: %v", ErrMalformedBlob, err)
	}

	return &seedFile, &payload, nil
}

// ReadBlobIdentity reads only the wallet and network identifiers from a seed
// blob (without decryption).
func ReadBlobIdentity(blob []byte) (walletID, networkID string, err error) {
	if len(blob) >= 3 && blob[0] == 0xEF && blob[1] == 0xBB && blob[2] == 0xBF {
		blob = blob[3:]
	}

	var seedFile model.SeedFile
	if err := json.Unmarshal(blob, &seedFile); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	return seedFile.WalletID, seedFile.NetworkID, nil
}
