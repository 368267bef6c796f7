// =============================
// File: internal/dex/pumpfun/metadata.go
// =============================
package pumpfun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// CreateTokenMetadata describes a token to create.
type CreateTokenMetadata struct {
	Name        string
	Symbol      string
	Description string
	File        string // path to the image
	Twitter     string
	Telegram    string
	Website     string
}

// TokenMetadata is the metadata document stored on IPFS.
type TokenMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ShowName    bool   `json:"showName"`
	CreatedOn   string `json:"createdOn"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
}

// TokenMetadataResponse is returned by the upload endpoint.
type TokenMetadataResponse struct {
	Metadata    TokenMetadata `json:"metadata"`
	MetadataURI string        `json:"metadataUri"`
}

// MetadataUploadError reports a non-2xx response from the upload endpoint.
type MetadataUploadError struct {
	Status int
	Body   string
}

func (e *MetadataUploadError) Error() string {
	return fmt.Sprintf("metadata upload failed: status %d: %s", e.Status, e.Body)
}

// MetadataUploader uploads token metadata and image to IPFS through pump.fun.
type MetadataUploader struct {
	client   *http.Client
	endpoint string
	logger   *zap.Logger
}

// NewMetadataUploader creates an uploader; an empty endpoint uses DefaultMetadataUploadURL.
func NewMetadataUploader(endpoint string, logger *zap.Logger) *MetadataUploader {
	if endpoint == "" {
		endpoint = DefaultMetadataUploadURL
	}
	return &MetadataUploader{
		client:   &http.Client{Timeout: 60 * time.Second},
		endpoint: endpoint,
		logger:   logger.Named("metadata"),
	}
}

// Upload posts the image and metadata fields as a multipart form.
func (u *MetadataUploader) Upload(ctx context.Context, meta CreateTokenMetadata) (*TokenMetadataResponse, error) {
	body, contentType, err := buildMetadataForm(meta)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	u.logger.Debug("Uploading token metadata",
		zap.String("name", meta.Name),
		zap.String("symbol", meta.Symbol),
		zap.String("endpoint", u.endpoint))

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata upload request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &MetadataUploadError{Status: resp.StatusCode, Body: string(raw)}
	}

	var out TokenMetadataResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	u.logger.Info("Token metadata uploaded", zap.String("uri", out.MetadataURI))
	return &out, nil
}

func buildMetadataForm(meta CreateTokenMetadata) (*bytes.Buffer, string, error) {
	image, err := os.ReadFile(meta.File)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", meta.File, err)
	}

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", filepath.Base(meta.File))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}

	fields := []struct{ key, value string }{
		{"name", meta.Name},
		{"symbol", meta.Symbol},
		{"description", meta.Description},
		{"twitter", meta.Twitter},
		{"telegram", meta.Telegram},
		{"website", meta.Website},
		{"showName", "true"},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
