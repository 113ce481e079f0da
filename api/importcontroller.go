package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type importFeedRequest struct {
	URL   string `json:"url" binding:"required"`
	Count int    `json:"count"`
}

// handleImportFeed pulls articles out of an RSS feed and files them as
// blog posts. Runs synchronously; feeds are small.
func (s *Server) handleImportFeed(c *gin.Context) {
	var req importFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := s.importer.Import(c.Request.Context(), req.URL, req.Count)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	respondOK(c, gin.H{"result": result})
}
