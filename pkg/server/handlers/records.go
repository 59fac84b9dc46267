package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/patternbase"
	"github.com/soundprediction/patternbase/pkg/seed"
	"github.com/soundprediction/patternbase/pkg/server/dto"
	"github.com/soundprediction/patternbase/pkg/types"
)

// RecordsHandler handles record lookup, ingest, and reset.
type RecordsHandler struct {
	client *patternbase.Client
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(client *patternbase.Client) *RecordsHandler {
	return &RecordsHandler{client: client}
}

// Get handles GET /api/v1/records/:kind/:id. A miss is a 404, not an
// internal error.
func (h *RecordsHandler) Get(c *gin.Context) {
	kind, err := dto.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_request", Code: "400", Message: err.Error(),
		})
		return
	}

	rec, ok := h.client.Get(kind, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "not_found", Code: "404", Message: "record not found",
		})
		return
	}
	c.JSON(http.StatusOK, dto.Result{Success: true, Data: rec})
}

// ByCategory handles GET /api/v1/categories/:category
func (h *RecordsHandler) ByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    h.client.Store().ByCategory(c.Param("category")),
	})
}

// ByServer handles GET /api/v1/servers/:server
func (h *RecordsHandler) ByServer(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    h.client.Store().ByServer(c.Param("server")),
	})
}

// ByDifficulty handles GET /api/v1/difficulty/:level
func (h *RecordsHandler) ByDifficulty(c *gin.Context) {
	d := types.Difficulty(c.Param("level"))
	if !d.Valid() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_request", Code: "400", Message: dto.ErrBadDifficulty.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    h.client.Store().ByDifficulty(d),
	})
}

// Ingest handles POST /api/v1/records with a seed-file-shaped body.
func (h *RecordsHandler) Ingest(c *gin.Context) {
	var file seed.File
	if err := c.ShouldBindJSON(&file); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid_request", Code: "400", Message: err.Error(),
		})
		return
	}

	added := 0
	for _, rec := range file.Records() {
		if err := h.client.Add(rec); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "invalid_record", Code: "400", Message: err.Error(),
			})
			return
		}
		added++
	}
	c.JSON(http.StatusOK, dto.Result{Success: true, Data: gin.H{"added": added}})
}

// Clear handles DELETE /api/v1/clear
func (h *RecordsHandler) Clear(c *gin.Context) {
	h.client.ClearAll()
	c.JSON(http.StatusOK, dto.Result{Success: true})
}
