package handlers

import (
	"errors"
	"net/http"

	"trading_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type VerifyStartRequest struct {
	DiscordID int64  `json:"discord_id"`
	Username  string `json:"username"`
}

// VerifyStart begins account linking: resolves the Roblox username and hands
// back a code the user must paste into their profile bio.
func (h *Handler) VerifyStart(c *gin.Context) {
	var req VerifyStartRequest
	if err := c.BindJSON(&req); err != nil || req.DiscordID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	res, err := h.Verification.Start(ctx, req.DiscordID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
		case errors.Is(err, service.ErrAlreadyLinked):
			c.JSON(http.StatusConflict, gin.H{"error": "account already linked"})
		case errors.Is(err, service.ErrIdentityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "roblox user not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "verification unavailable"})
		}
		return
	}

	h.Audit.LogVerifyStart(ctx, req.DiscordID, res.RobloxUserID)
	c.JSON(http.StatusOK, gin.H{
		"code":            res.Code,
		"roblox_user_id":  res.RobloxUserID,
		"roblox_username": res.RobloxUsername,
		"expires_in":      int(service.VerificationTTL.Seconds()),
	})
}

type VerifyConfirmRequest struct {
	DiscordID int64 `json:"discord_id"`
}

// VerifyConfirm checks the pending code against the live bio and creates the
// link on a match. A code miss keeps the session so the user can retry.
func (h *Handler) VerifyConfirm(c *gin.Context) {
	var req VerifyConfirmRequest
	if err := c.BindJSON(&req); err != nil || req.DiscordID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	res, err := h.Verification.Confirm(ctx, req.DiscordID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingSession):
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending verification"})
		case errors.Is(err, service.ErrSessionExpired):
			h.Audit.LogVerifyFail(ctx, req.DiscordID, "expired")
			c.JSON(http.StatusGone, gin.H{"error": "verification expired"})
		case errors.Is(err, service.ErrCodeNotFound):
			h.Audit.LogVerifyFail(ctx, req.DiscordID, "code not found")
			c.JSON(http.StatusBadRequest, gin.H{"error": "code not found in bio"})
		case errors.Is(err, service.ErrAlreadyLinked):
			c.JSON(http.StatusConflict, gin.H{"error": "account already linked"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "verification unavailable"})
		}
		return
	}

	h.Audit.LogVerifyConfirm(ctx, req.DiscordID, res.RobloxUserID)
	c.JSON(http.StatusOK, gin.H{
		"roblox_user_id":  res.RobloxUserID,
		"roblox_username": res.RobloxUsername,
		"thumbnail_url":   res.ThumbnailURL,
	})
}

type UnlinkRequest struct {
	DiscordID int64 `json:"discord_id"`
}

// Unlink removes an existing account link. Inventory and balance stay intact.
func (h *Handler) Unlink(c *gin.Context) {
	var req UnlinkRequest
	if err := c.BindJSON(&req); err != nil || req.DiscordID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	if err := h.Verification.Unlink(ctx, req.DiscordID); err != nil {
		if errors.Is(err, service.ErrNotLinked) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not linked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlink failed"})
		return
	}

	h.Audit.LogUnlink(ctx, req.DiscordID)
	c.JSON(http.StatusOK, gin.H{"unlinked": true})
}
