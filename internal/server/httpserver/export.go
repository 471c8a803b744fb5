package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/gin-gonic/gin"
)

// ExportItems sends the user's items as a CSV attachment.
func (h *Handlers) ExportItems(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exports.WriteCSV(c.Request.Context(), userID, &buf); err != nil {
		h.internalError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.exports.FileName()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ArchiveItems stores the CSV export in object storage and returns a
// time-limited download link.
func (h *Handlers) ArchiveItems(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	url, err := h.exports.Archive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorStorageDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
