package httpserver

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListLocations(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	locations, err := h.locations.List(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	msg, err := h.takeFlash(c)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations, "globalMessage": msg})
}

func (h *Handlers) NewLocationPage(c *gin.Context) {
	if _, ok := h.requireUserID(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) CreateLocation(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	loc, err := h.locations.Create(c.Request.Context(), userID, c.PostForm("title"))
	if err != nil {
		h.mutationError(c, err)
		return
	}

	h.flashRedirect(c, auth.Success(fmt.Sprintf("%s added!", loc.Title)), "/locations")
}

func (h *Handlers) DeleteLocation(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.locations.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.internalError(c, err)
		return
	}

	h.flashRedirect(c, auth.Success("Location deleted"), "/locations")
}
