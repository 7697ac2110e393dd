package pinata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/afriart/marketplace/internal/adapter"
)

const PROVIDER_NAME = "pinata"

var ErrNoJWT = errors.New("no pinning JWT provided")

// PinResult holds the outcome of a successful pin
type PinResult struct {
	// CID is the IPFS content identifier of the pinned content
	CID string
	// Size is the pinned size in bytes as reported by the service
	Size int64
}

// pinResponse represents the response from the Pinata pinning endpoints
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Client defines the interface for pinning service operations to enable mocking
type Client interface {
	// PinFile pins a file's content to IPFS and returns its CID
	PinFile(ctx context.Context, name string, content io.Reader) (*PinResult, error)
	// PinJSON pins a JSON document to IPFS and returns its CID
	PinJSON(ctx context.Context, name string, payload interface{}) (*PinResult, error)
	// GatewayURL returns the HTTP gateway URL for a pinned CID
	GatewayURL(cid string) string
}

// PinataClient implements the pinning client against the Pinata HTTP API
type PinataClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	jwt        string
	gatewayURL string
	json       adapter.JSON
}

// NewClient creates a new Pinata client
func NewClient(httpClient adapter.HTTPClient, apiURL string, jwt string, gatewayURL string, jsonAdapter adapter.JSON) Client {
	return &PinataClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		jwt:        jwt,
		gatewayURL: gatewayURL,
		json:       jsonAdapter,
	}
}

// PinFile pins a file's content to IPFS via the pinFileToIPFS endpoint
func (c *PinataClient) PinFile(ctx context.Context, name string, content io.Reader) (*PinResult, error) {
	if c.jwt == "" {
		return nil, ErrNoJWT
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	metadata, err := c.json.Marshal(map[string]interface{}{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(metadata)); err != nil {
		return nil, fmt.Errorf("failed to write pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataOptions", `{"cidVersion":1}`); err != nil {
		return nil, fmt.Errorf("failed to write pin options: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/pinning/pinFileToIPFS", c.apiURL)
	respBody, err := c.httpClient.Post(ctx, url, writer.FormDataContentType(), c.authHeaders(), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to call pinning API: %w", err)
	}

	return c.parsePinResponse(respBody)
}

// PinJSON pins a JSON document to IPFS via the pinJSONToIPFS endpoint
func (c *PinataClient) PinJSON(ctx context.Context, name string, payload interface{}) (*PinResult, error) {
	if c.jwt == "" {
		return nil, ErrNoJWT
	}

	body, err := c.json.Marshal(map[string]interface{}{
		"pinataContent":  payload,
		"pinataMetadata": map[string]interface{}{"name": name},
		"pinataOptions":  map[string]interface{}{"cidVersion": 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pin payload: %w", err)
	}

	url := fmt.Sprintf("%s/pinning/pinJSONToIPFS", c.apiURL)
	respBody, err := c.httpClient.Post(ctx, url, "application/json", c.authHeaders(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to call pinning API: %w", err)
	}

	return c.parsePinResponse(respBody)
}

// GatewayURL returns the HTTP gateway URL for a pinned CID
func (c *PinataClient) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(c.gatewayURL, "/"), cid)
}

func (c *PinataClient) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.jwt,
	}
}

func (c *PinataClient) parsePinResponse(respBody []byte) (*PinResult, error) {
	var response pinResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pin response: %w", err)
	}
	if response.IpfsHash == "" {
		return nil, fmt.Errorf("pinning API returned no CID: %s", string(respBody))
	}

	return &PinResult{
		CID:  response.IpfsHash,
		Size: response.PinSize,
	}, nil
}
