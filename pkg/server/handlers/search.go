package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/patternbase"
	"github.com/soundprediction/patternbase/pkg/server/dto"
)

// SearchHandler handles relevance-ranked queries and statistics.
type SearchHandler struct {
	client *patternbase.Client
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(client *patternbase.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_request", Code: "400", Message: err.Error(),
		})
		return
	}

	query, err := req.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_request", Code: "400", Message: err.Error(),
		})
		return
	}

	results, err := h.client.Search(query)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_request", Code: "400", Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, results)
}

// StoreStats handles GET /api/v1/stats
func (h *SearchHandler) StoreStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.StoreStats())
}

// CacheStats handles GET /api/v1/cache/stats
func (h *SearchHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.CacheStats())
}
