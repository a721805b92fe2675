package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modabox/modabox/backend/catalog-service/internal/search"
)

// searchClientID identifies the caller for the recent-searches list: the
// authenticated admin when available, a client-supplied header otherwise.
func searchClientID(c *gin.Context) string {
	if email, ok := GetUserEmail(c); ok {
		return email
	}
	if id := c.GetHeader("X-Client-ID"); id != "" {
		return id
	}
	return "anonymous"
}

// SearchAdmin handles GET /admin/search?q=
func (h *Handler) SearchAdmin(c *gin.Context) {
	term := c.Query("q")
	results := h.index.Search(term)
	if results == nil {
		results = []search.Result{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// GetRecentSearches handles GET /admin/search/recent
func (h *Handler) GetRecentSearches(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recents, err := h.recents.Get(ctx, searchClientID(c))
	if err != nil {
		log.Printf("Failed to load recent searches: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load recent searches"})
		return
	}
	if recents == nil {
		recents = []search.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recent": recents})
}

// AddRecentSearch handles POST /admin/search/recent. Only entries that exist
// in the index can be recorded.
func (h *Handler) AddRecentSearch(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var req struct {
		EntryID string `json:"entry_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	entry, ok := h.index.Lookup(req.EntryID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown search entry"})
		return
	}

	if err := h.recents.Add(ctx, searchClientID(c), entry); err != nil {
		log.Printf("Failed to record recent search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record recent search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
