package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListItems returns every supported item and its value for a game. The agent
// fetches this on startup to render trade values in-game.
func (h *Handler) ListItems(c *gin.Context) {
	game := h.game(c.Query("game"))

	entries, err := h.Catalog.List(c.Request.Context(), game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	values := make(map[string]int64, len(entries))
	for _, e := range entries {
		values[e.Name] = e.Value
	}

	c.JSON(http.StatusOK, gin.H{
		"game":  game,
		"count": len(values),
		"items": values,
	})
}
