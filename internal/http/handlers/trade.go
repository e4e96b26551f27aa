package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"trading_backend/internal/domain"
	"trading_backend/internal/http/middleware"
	"trading_backend/internal/logger"
	"trading_backend/internal/security"
	"trading_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AgentTradeRequest is the body of a signed request from the in-game trade
// agent. Pets carries a JSON-encoded array as a string so the signed bytes
// are exactly what the agent serialized; zero-valued optional fields are
// omitted from the signature on both sides.
type AgentTradeRequest struct {
	RobloxUserID int64  `json:"roblox_user_id"`
	Pets         string `json:"pets,omitempty"`
	Gems         int64  `json:"gems,omitempty"`
	Code         string `json:"code,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	Signature    string `json:"signature"`
}

func (r *AgentTradeRequest) signatureFields() map[string]string {
	fields := map[string]string{
		"roblox_user_id": strconv.FormatInt(r.RobloxUserID, 10),
		"timestamp":      strconv.FormatInt(r.Timestamp, 10),
	}
	if r.Pets != "" {
		fields["pets"] = r.Pets
	}
	if r.Gems != 0 {
		fields["gems"] = strconv.FormatInt(r.Gems, 10)
	}
	if r.Code != "" {
		fields["code"] = r.Code
	}
	return fields
}

// authenticateAgent verifies the detached signature and freshness window.
// Rejections are counted, audited, and answered with 401.
func (h *Handler) authenticateAgent(c *gin.Context, req *AgentTradeRequest) bool {
	err := security.VerifyPayload(req.signatureFields(), req.Signature, h.Cfg.APISecret, time.Now())
	if err == nil {
		return true
	}

	reason := "unknown"
	var authErr *security.AuthError
	if errors.As(err, &authErr) {
		reason = authErr.Reason
	}
	middleware.AuthRejections.WithLabelValues(reason).Inc()
	h.Audit.LogAuthRejected(c.Request.Context(), req.RobloxUserID, reason)
	logger.Warn("agent request rejected", "roblox_user_id", req.RobloxUserID, "reason", reason)
	c.JSON(http.StatusUnauthorized, gin.H{"error": reason})
	return false
}

// linkedAccount resolves the Roblox user behind an agent request to a
// Discord account, or answers 404.
func (h *Handler) linkedAccount(c *gin.Context, robloxUserID int64) (*domain.AccountLink, bool) {
	link, err := h.Accounts.GetByRobloxID(c.Request.Context(), robloxUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return nil, false
	}
	if link == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not linked"})
		return nil, false
	}
	return link, true
}

func parseTradeItems(raw string) ([]domain.TradeItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []domain.TradeItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (h *Handler) writeTradeError(c *gin.Context, discordID int64, tradeType string, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		h.Audit.LogTradeRejected(c.Request.Context(), discordID, tradeType, vErr.Reason)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Message, "reason": vErr.Reason})
		return
	}
	logger.Error("trade failed", "discord_id", discordID, "type", tradeType, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "trade failed"})
}

// WithdrawMethod tells the agent what to do for a user who joined the trade
// booth: hand over their holdings, or accept a deposit.
func (h *Handler) WithdrawMethod(c *gin.Context) {
	var req AgentTradeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if !h.authenticateAgent(c, &req) {
		return
	}
	link, ok := h.linkedAccount(c, req.RobloxUserID)
	if !ok {
		return
	}

	method, err := h.Trades.DetermineMethod(c.Request.Context(), link.DiscordID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, method)
}

// DepositCheck validates a deposit offer without applying it, so the agent
// can refuse unsupported offers before the in-game trade is accepted.
func (h *Handler) DepositCheck(c *gin.Context) {
	var req AgentTradeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if !h.authenticateAgent(c, &req) {
		return
	}
	link, ok := h.linkedAccount(c, req.RobloxUserID)
	if !ok {
		return
	}

	items, err := parseTradeItems(req.Pets)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pets payload"})
		return
	}

	trade := domain.Trade{
		Type:         domain.TradeTypeDeposit,
		RobloxUserID: req.RobloxUserID,
		Items:        items,
		Gems:         req.Gems,
		Timestamp:    req.Timestamp,
	}
	check, err := h.Trades.CheckDeposit(c.Request.Context(), h.game(c.Query("game")), link.DiscordID, trade)
	if err != nil {
		// a rule violation is a negative answer, not a failed request
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			h.Audit.LogTradeRejected(c.Request.Context(), link.DiscordID, string(domain.TradeTypeDeposit), vErr.Reason)
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": vErr.Message, "reason": vErr.Reason})
			return
		}
		h.writeTradeError(c, link.DiscordID, string(domain.TradeTypeDeposit), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "deposit_value": check.DepositValue})
}

// DepositComplete records a finished in-game deposit and credits the ledger.
func (h *Handler) DepositComplete(c *gin.Context) {
	h.completeTrade(c, domain.TradeTypeDeposit)
}

// WithdrawComplete records a finished in-game withdrawal and debits the
// ledger.
func (h *Handler) WithdrawComplete(c *gin.Context) {
	h.completeTrade(c, domain.TradeTypeWithdraw)
}

func (h *Handler) completeTrade(c *gin.Context, tradeType domain.TradeType) {
	var req AgentTradeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if !h.authenticateAgent(c, &req) {
		return
	}
	link, ok := h.linkedAccount(c, req.RobloxUserID)
	if !ok {
		return
	}

	items, err := parseTradeItems(req.Pets)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pets payload"})
		return
	}

	trade := domain.Trade{
		Type:         tradeType,
		RobloxUserID: req.RobloxUserID,
		Items:        items,
		Gems:         req.Gems,
		Code:         req.Code,
		Timestamp:    req.Timestamp,
	}

	ctx := c.Request.Context()
	game := h.game(c.Query("game"))

	var publicID string
	if tradeType == domain.TradeTypeDeposit {
		publicID, err = h.Trades.ProcessDeposit(ctx, game, link.DiscordID, req.RobloxUserID, trade)
	} else {
		publicID, err = h.Trades.ProcessWithdraw(ctx, game, link.DiscordID, req.RobloxUserID, trade)
	}
	if err != nil {
		h.writeTradeError(c, link.DiscordID, string(tradeType), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction_id": publicID})
}
