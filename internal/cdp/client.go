package cdp

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/net/http2"
)

// Client is a REST client for the custodial MPC wallet platform.
// All wallet lifecycle operations are delegates to the platform; the client
// never holds key material beyond the API credentials used for signing
// request tokens.
type Client struct {
	baseURL    string
	keyName    string
	privateKey *ecdsa.PrivateKey
	httpClient *http.Client
}

// NewClient creates a provider client. keySecret must be a PEM-encoded EC
// private key (the provider API key secret).
func NewClient(baseURL, keyName, keySecret string) (*Client, error) {
	if keyName == "" || keySecret == "" {
		return nil, fmt.Errorf("provider credentials are required")
	}

	privateKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(keySecret))
	if err != nil {
		return nil, fmt.Errorf("API key secret is not a valid EC private key: %w", err)
	}

	httpClient, err := newHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		keyName:    keyName,
		privateKey: privateKey,
		httpClient: httpClient,
	}, nil
}

func newHTTPClient() (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// RequestError is returned when the platform rejects or fails a call.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("provider request failed: status %d: %s", e.StatusCode, e.Message)
}

// errorBody is the platform's error response shape
type errorBody struct {
	Message string `json:"message"`
}

// do executes one signed request against the platform and decodes the JSON
// response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.buildJWT(method, path)
	if err != nil {
		return fmt.Errorf("failed to build request token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Message != "" {
			msg = eb.Message
		}
		return &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
