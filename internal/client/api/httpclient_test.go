package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/walletvault/internal/client/models"
	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "0x742d35cc6634c0532925a3b844bc9e7595f0beb1"

func TestHTTPClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/files/upload", r.URL.Path)

		var req UploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "file-1", req.FileID)
		assert.Equal(t, wallet, req.WalletAddress)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"fileId": req.FileID, "success": true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.Upload(context.Background(), UploadRequest{
		FileID:        "file-1",
		EncryptedData: "ciphertext",
		Metadata:      models.FileMetadata{Name: "report.pdf", Type: "application/pdf", Size: 5},
		WalletAddress: wallet,
	})
	require.NoError(t, err)
}

func TestHTTPClient_UploadConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "File with this ID already exists"})
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).Upload(context.Background(), UploadRequest{FileID: "dup"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestHTTPClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files", r.URL.Path)
		assert.Equal(t, wallet, r.URL.Query().Get("walletAddress"))

		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "a", "name": "report.pdf", "type": "application/pdf", "size": 500000, "encryptedData": ""},
		})
	}))
	defer srv.Close()

	files, err := NewHTTPClient(srv.URL).List(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", files[0].Name)
	assert.Empty(t, files[0].EncryptedData)
}

func TestHTTPClient_FetchEncrypted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/f-1/encrypted", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"encryptedData": "opaque"})
	}))
	defer srv.Close()

	data, err := NewHTTPClient(srv.URL).FetchEncrypted(context.Background(), "f-1", wallet)
	require.NoError(t, err)
	assert.Equal(t, "opaque", data)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrValidation},
		{http.StatusForbidden, common.ErrForbidden},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusConflict, common.ErrConflict},
		{http.StatusInternalServerError, common.ErrInternal},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
		}))

		_, err := NewHTTPClient(srv.URL).FetchEncrypted(context.Background(), "x", wallet)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		srv.Close()
	}
}

func TestHTTPClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	err := NewHTTPClient(srv.URL).Ping(context.Background())
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestHTTPClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/files/f-2", r.URL.Path)
		assert.Equal(t, wallet, r.URL.Query().Get("walletAddress"))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	require.NoError(t, NewHTTPClient(srv.URL).Delete(context.Background(), "f-2", wallet))
}
