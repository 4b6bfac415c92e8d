// internal/handlers/catalog.go
package handlers

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/procurehub/orders-backend/internal/services"
	"github.com/procurehub/orders-backend/internal/utils"
)

// CatalogHandler accepts partner feed documents. The body is either the raw
// YAML/JSON document or a JSON wrapper {"file": "<document>"} matching the
// legacy upload contract.
type CatalogHandler struct {
	importService *services.ImportService
	maxBodyBytes  int64
}

func NewCatalogHandler(importService *services.ImportService, maxBodyBytes int64) *CatalogHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 5 << 20
	}
	return &CatalogHandler{
		importService: importService,
		maxBodyBytes:  maxBodyBytes,
	}
}

func (h *CatalogHandler) readDocument(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBodyBytes+1))
	if err != nil {
		utils.BadRequestResponse(c, "failed to read request body")
		return nil, false
	}
	if int64(len(body)) > h.maxBodyBytes {
		utils.BadRequestResponse(c, "feed document too large")
		return nil, false
	}
	if len(body) == 0 {
		utils.BadRequestResponse(c, "no file")
		return nil, false
	}

	// Unwrap {"file": "..."} bodies.
	var wrapper struct {
		File string `json:"file"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.File != "" {
		return []byte(wrapper.File), true
	}

	return body, true
}

// POST /catalog/import and PUT /catalog/import
func (h *CatalogHandler) ImportFeed(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	raw, ok := h.readDocument(c)
	if !ok {
		return
	}

	result, err := h.importService.ImportFeed(c.Request.Context(), partnerID, raw)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"import": result})
}

// DELETE /catalog/import
func (h *CatalogHandler) DeleteFeed(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	raw, ok := h.readDocument(c)
	if !ok {
		return
	}

	result, err := h.importService.DeleteFeed(c.Request.Context(), partnerID, raw)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"import": result})
}
