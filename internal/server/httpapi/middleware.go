package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/wallet"
)

// context key for the normalized wallet address
const ctxWallet = "walletAddress"

// walletValidation extracts the wallet address from the query string or the
// JSON body, validates its format, and stores the normalized form in the
// request context. The body is restored so handlers can bind it again.
func (r *Router) walletValidation() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.Query("walletAddress")

		if addr == "" && c.Request.Body != nil && c.Request.Body != http.NoBody {
			raw, err := c.GetRawData()
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
				var body struct {
					WalletAddress string `json:"walletAddress"`
				}
				_ = json.Unmarshal(raw, &body)
				addr = body.WalletAddress
			}
		}

		if addr == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
			return
		}

		normalized := wallet.Normalize(addr)
		if !wallet.IsValid(normalized) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address format"})
			return
		}

		c.Set(ctxWallet, normalized)
		c.Next()
	}
}

// verifyOwnership checks that the file addressed by the fileId parameter
// belongs to the requesting wallet: 404 when the file does not exist, 403
// when it belongs to someone else.
func (r *Router) verifyOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileID := c.Param("fileId")
		walletAddress := c.GetString(ctxWallet)

		if fileID == "" || walletAddress == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File ID and wallet address are required"})
			return
		}

		owner, err := r.files.Owner(c.Request.Context(), fileID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "File not found"})
				return
			}
			r.log.Error(c.Request.Context(), "ownership verification failed", "fileId", fileID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify file ownership"})
			return
		}

		if owner != walletAddress {
			r.log.Warn(c.Request.Context(), "access denied",
				"fileId", fileID, "owner", owner, "requester", walletAddress)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: File does not belong to this wallet address"})
			return
		}

		c.Next()
	}
}
