package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// GetUser returns the account link and gem balance for a Discord account.
func (h *Handler) GetUser(c *gin.Context) {
	discordID, ok := pathID(c, "discord_id")
	if !ok {
		return
	}

	link, err := h.Accounts.Get(c.Request.Context(), discordID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not linked"})
		return
	}
	c.JSON(http.StatusOK, link)
}

// GetInventory returns the account's holdings.
func (h *Handler) GetInventory(c *gin.Context) {
	discordID, ok := pathID(c, "discord_id")
	if !ok {
		return
	}

	entries, err := h.Inventory.List(c.Request.Context(), discordID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": entries})
}

// GetTransactions returns the account's recent trade records.
func (h *Handler) GetTransactions(c *gin.Context) {
	discordID, ok := pathID(c, "discord_id")
	if !ok {
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	txs, err := h.Transactions.GetByDiscordID(c.Request.Context(), discordID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetTransaction looks one trade record up by its public identifier.
func (h *Handler) GetTransaction(c *gin.Context) {
	tx, err := h.Transactions.GetByPublicID(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// StalePending lists pending trade records older than the given age. These
// are trades whose ledger mutation never committed; they are reconciled by
// hand, never repaired automatically.
func (h *Handler) StalePending(c *gin.Context) {
	olderThan := 30 * time.Minute
	if v := c.Query("minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			olderThan = time.Duration(n) * time.Minute
		}
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	txs, err := h.Transactions.GetStalePending(c.Request.Context(), olderThan, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": txs, "count": len(txs)})
}
