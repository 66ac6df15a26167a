// Package imagekit provides a BlobStore adapter for the ImageKit media
// library. Uploads go through its REST upload API authenticated with the
// account's private key.
package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/multierr"

	"github.com/moodcat-labs/moodcat/internal/core/ports"
)

const defaultUploadURL = "https://upload.imagekit.io/api/v1/files/upload"

// Client is an HTTP client for the ImageKit adapter.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	privateKey string
	folder     string
}

// compile-time interface assertion
var _ ports.BlobStore = (*Client)(nil)

// NewClient constructs a new ImageKit client. An empty uploadURL targets the
// official endpoint; folder optionally namespaces uploaded files.
func NewClient(httpClient *http.Client, uploadURL, privateKey, folder string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if uploadURL == "" {
		uploadURL = defaultUploadURL
	}
	return &Client{
		httpClient: httpClient,
		uploadURL:  strings.TrimRight(uploadURL, "/"),
		privateKey: privateKey,
		folder:     folder,
	}
}

// uploadResponse is the subset of the upload API response the catalog needs.
// Error responses carry a "message" field instead.
type uploadResponse struct {
	URL     string `json:"url"`
	Size    int64  `json:"size"`
	FileID  string `json:"fileId"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Store uploads the payload under the given name and returns the public URL.
func (c *Client) Store(ctx context.Context, payload []byte, name string) (blob ports.StoredBlob, err error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}
	if err := mw.WriteField("fileName", name); err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}
	if err := mw.WriteField("useUniqueFileName", "true"); err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}
	if c.folder != "" {
		if err := mw.WriteField("folder", c.folder); err != nil {
			return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	// ImageKit authenticates server-side uploads with basic auth: the private
	// key as username, empty password.
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			err = multierr.Append(err, cerr)
		}
	}()

	var up uploadResponse
	if derr := json.NewDecoder(resp.Body).Decode(&up); derr != nil && resp.StatusCode == http.StatusOK {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: %w", derr)
	}

	if resp.StatusCode != http.StatusOK {
		if up.Message != "" {
			return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: status %d: %s", resp.StatusCode, up.Message)
		}
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: status %d", resp.StatusCode)
	}
	if up.URL == "" {
		return ports.StoredBlob{}, fmt.Errorf("imagekit adapter: upload succeeded but no url returned")
	}

	return ports.StoredBlob{URL: up.URL, Size: up.Size}, nil
}
