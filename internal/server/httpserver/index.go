package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Index(c *gin.Context) {
	user, redirect, err := h.guard.GetUser(c.Request.Context(), c.Request)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if redirect != nil {
		h.sendRedirect(c, redirect)
		return
	}
	if user != nil {
		c.Set(ctxUserID, user.ID)
	}

	msg, err := h.takeFlash(c)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "globalMessage": msg})
}

// IndexHead answers the healthcheck's self-probe without touching the database.
func (h *Handlers) IndexHead(c *gin.Context) {
	c.Status(http.StatusOK)
}
