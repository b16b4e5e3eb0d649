package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

type uploadRequest struct {
	FileID        string         `json:"fileId"`
	EncryptedData string         `json:"encryptedData"`
	Metadata      map[string]any `json:"metadata"`
}

type updateRequest struct {
	EncryptedData string         `json:"encryptedData"`
	Metadata      map[string]any `json:"metadata"`
}

type fileResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Size          int64           `json:"size"`
	UploadedAt    time.Time       `json:"uploadedAt"`
	EncryptedData string          `json:"encryptedData"`
	Metadata      json.RawMessage `json:"metadata"`
}

// metadataColumns pulls the indexed columns out of the free-form metadata
// object. size accepts any JSON number.
func metadataColumns(md map[string]any) (name, typ string, size int64, ok bool) {
	name, _ = md["name"].(string)
	typ, _ = md["type"].(string)

	rawSize, hasSize := md["size"]
	if name == "" || typ == "" || !hasSize {
		return "", "", 0, false
	}
	switch v := rawSize.(type) {
	case float64:
		size = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return "", "", 0, false
		}
		size = n
	default:
		return "", "", 0, false
	}
	return name, typ, size, true
}

func (r *Router) upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileID == "" || req.EncryptedData == "" || req.Metadata == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: fileId, encryptedData, metadata"})
		return
	}

	name, typ, size, ok := metadataColumns(req.Metadata)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata: name, type, and size are required"})
		return
	}

	rawMetadata, err := json.Marshal(req.Metadata)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata: name, type, and size are required"})
		return
	}

	now := time.Now()
	file := &models.File{
		ID:            req.FileID,
		WalletAddress: c.GetString(ctxWallet),
		EncryptedData: req.EncryptedData,
		Name:          name,
		Type:          typ,
		Size:          size,
		UploadedAt:    now,
		Metadata:      string(rawMetadata),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.files.Save(c.Request.Context(), file); err != nil {
		if errors.Is(err, common.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "File with this ID already exists"})
			return
		}
		r.log.Error(c.Request.Context(), "upload failed", "fileId", req.FileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"fileId":  file.ID,
		"success": true,
		"message": "File uploaded successfully",
	})
}

func (r *Router) list(c *gin.Context) {
	rows, err := r.files.List(c.Request.Context(), c.GetString(ctxWallet))
	if err != nil {
		r.log.Error(c.Request.Context(), "list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	response := make([]fileResponse, 0, len(rows))
	for _, row := range rows {
		metadata := row.Metadata
		if metadata == "" {
			metadata = "{}"
		}
		response = append(response, fileResponse{
			ID:         row.ID,
			Name:       row.Name,
			Type:       row.Type,
			Size:       row.Size,
			UploadedAt: row.UploadedAt,
			// ciphertext is fetched separately
			EncryptedData: "",
			Metadata:      json.RawMessage(metadata),
		})
	}

	c.JSON(http.StatusOK, response)
}

func (r *Router) getEncrypted(c *gin.Context) {
	fileID := c.Param("fileId")

	data, err := r.files.GetEncrypted(c.Request.Context(), fileID, c.GetString(ctxWallet))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found or access denied"})
			return
		}
		r.log.Error(c.Request.Context(), "ciphertext fetch failed", "fileId", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"encryptedData": data})
}

func (r *Router) update(c *gin.Context) {
	fileID := c.Param("fileId")

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EncryptedData == "" || req.Metadata == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: encryptedData, metadata"})
		return
	}

	name, typ, size, ok := metadataColumns(req.Metadata)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata: name, type, and size are required"})
		return
	}

	rawMetadata, err := json.Marshal(req.Metadata)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata: name, type, and size are required"})
		return
	}

	now := time.Now()
	file := &models.File{
		ID:            fileID,
		WalletAddress: c.GetString(ctxWallet),
		EncryptedData: req.EncryptedData,
		Name:          name,
		Type:          typ,
		Size:          size,
		UploadedAt:    now,
		Metadata:      string(rawMetadata),
		UpdatedAt:     now,
	}

	if err := r.files.Update(c.Request.Context(), file); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found or no changes made"})
			return
		}
		r.log.Error(c.Request.Context(), "update failed", "fileId", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File updated successfully",
	})
}

func (r *Router) remove(c *gin.Context) {
	fileID := c.Param("fileId")

	if err := r.files.Delete(c.Request.Context(), fileID, c.GetString(ctxWallet)); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found or access denied"})
			return
		}
		r.log.Error(c.Request.Context(), "delete failed", "fileId", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File deleted successfully",
	})
}
