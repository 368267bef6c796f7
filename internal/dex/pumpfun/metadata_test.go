package pumpfun

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0o600))
	return path
}

func newMetadataServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		if content, _ := io.ReadAll(file); len(content) == 0 {
			http.Error(w, "empty file", http.StatusBadRequest)
			return
		}

		resp := TokenMetadataResponse{
			Metadata: TokenMetadata{
				Name:        r.FormValue("name"),
				Symbol:      r.FormValue("symbol"),
				Description: r.FormValue("description"),
				Image:       "https://ipfs.io/ipfs/" + header.Filename,
				ShowName:    r.FormValue("showName") == "true",
				Website:     r.FormValue("website"),
			},
			MetadataURI: "https://ipfs.io/ipfs/meta-" + header.Filename,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMetadataUploader_Upload(t *testing.T) {
	srv := newMetadataServer(t)
	uploader := NewMetadataUploader(srv.URL, zaptest.NewLogger(t))

	resp, err := uploader.Upload(context.Background(), CreateTokenMetadata{
		Name:        "Test Token",
		Symbol:      "TEST",
		Description: "desc",
		File:        writeTestImage(t),
		Website:     "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test Token", resp.Metadata.Name)
	assert.Equal(t, "TEST", resp.Metadata.Symbol)
	assert.Equal(t, "https://ipfs.io/ipfs/logo.png", resp.Metadata.Image)
	assert.True(t, resp.Metadata.ShowName)
	assert.Equal(t, "https://example.com", resp.Metadata.Website)
	assert.Equal(t, "https://ipfs.io/ipfs/meta-logo.png", resp.MetadataURI)
}

func TestMetadataUploader_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	uploader := NewMetadataUploader(srv.URL, zaptest.NewLogger(t))
	_, err := uploader.Upload(context.Background(), CreateTokenMetadata{Name: "x", Symbol: "x", File: writeTestImage(t)})

	var uploadErr *MetadataUploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusTooManyRequests, uploadErr.Status)
	assert.Contains(t, uploadErr.Body, "rate limited")
}

func TestMetadataUploader_MissingFile(t *testing.T) {
	uploader := NewMetadataUploader("http://127.0.0.1:0", zaptest.NewLogger(t))
	_, err := uploader.Upload(context.Background(), CreateTokenMetadata{File: filepath.Join(t.TempDir(), "none.png")})
	assert.ErrorContains(t, err, "failed to read image")
}
