package cdp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 2 * time.Minute

// buildJWT creates the short-lived ES256 bearer token the platform requires,
// scoped to a single method and path.
func (c *Client) buildJWT(method, path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": c.keyName,
		"iss": "cdp",
		"nbf": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"uris": []string{
			fmt.Sprintf("%s %s%s", method, u.Host, path),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = c.keyName

	// Per-token nonce prevents replay of the signed header
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate token nonce: %w", err)
	}
	token.Header["nonce"] = hex.EncodeToString(nonce)

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
