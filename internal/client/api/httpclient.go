package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletvault/internal/client/models"
	"github.com/dmitrijs2005/walletvault/internal/common"
)

// HTTPClient talks JSON over HTTP to the remote file service.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// errorBody is the service's error envelope: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// mapStatus converts an HTTP status to the sentinel error taxonomy.
func mapStatus(status int, msg string) error {
	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = common.ErrValidation
	case http.StatusForbidden:
		sentinel = common.ErrForbidden
	case http.StatusNotFound:
		sentinel = common.ErrNotFound
	case http.StatusConflict:
		sentinel = common.ErrConflict
	default:
		sentinel = common.ErrInternal
	}
	if msg == "" {
		return fmt.Errorf("%w: status %d", sentinel, status)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// do sends a request and decodes the JSON response into out (when non-nil).
// Non-2xx responses are mapped to sentinel errors; transport failures to
// common.ErrNetwork.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return mapStatus(resp.StatusCode, eb.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Upload(ctx context.Context, req UploadRequest) error {
	return c.do(ctx, http.MethodPost, "/api/files/upload", nil, req, nil)
}

func (c *HTTPClient) List(ctx context.Context, walletAddress string) ([]models.StoredFile, error) {
	q := url.Values{"walletAddress": {walletAddress}}

	var files []models.StoredFile
	if err := c.do(ctx, http.MethodGet, "/api/files", q, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *HTTPClient) FetchEncrypted(ctx context.Context, fileID, walletAddress string) (string, error) {
	q := url.Values{"walletAddress": {walletAddress}}

	var resp struct {
		EncryptedData string `json:"encryptedData"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/files/"+url.PathEscape(fileID)+"/encrypted", q, nil, &resp); err != nil {
		return "", err
	}
	return resp.EncryptedData, nil
}

func (c *HTTPClient) Update(ctx context.Context, fileID string, req UpdateRequest) error {
	return c.do(ctx, http.MethodPut, "/api/files/"+url.PathEscape(fileID), nil, req, nil)
}

func (c *HTTPClient) Delete(ctx context.Context, fileID, walletAddress string) error {
	q := url.Values{"walletAddress": {walletAddress}}
	return c.do(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(fileID), q, nil, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}
