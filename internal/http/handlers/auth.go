package handlers

import (
	"crypto/subtle"
	"net/http"

	"trading_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	ServiceToken string `json:"service_token"`
	ServiceName  string `json:"service_name"`
}

// Auth exchanges the shared service token for a short-lived JWT. The only
// expected caller is the Discord bot front-end.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.ServiceToken == "" ||
		subtle.ConstantTimeCompare([]byte(req.ServiceToken), []byte(h.Cfg.ServiceToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid service token"})
		return
	}

	name := req.ServiceName
	if name == "" {
		name = "bot"
	}

	token, err := service.GenerateJWT(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
