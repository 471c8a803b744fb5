package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/services"
	"github.com/gin-gonic/gin"
)

func itemFieldsFromForm(c *gin.Context) models.ItemFields {
	f := models.ItemFields{
		Title:    c.PostForm("title"),
		Amount:   c.PostForm("amount"),
		Location: c.PostForm("location"),
		Category: c.PostForm("category"),
	}
	if notes, ok := c.GetPostForm("notes"); ok && notes != "" {
		f.Notes = &notes
	}
	return f
}

// mutationError answers a failed mutation: 400 for validation, 404 for a
// missing or foreign record, 500 otherwise.
func (h *Handlers) mutationError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Errors()})
	case errors.Is(err, common.ErrorNotFound):
		notFound(c)
	default:
		h.internalError(c, err)
	}
}

func (h *Handlers) ListItems(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	items, err := h.items.List(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	msg, err := h.takeFlash(c)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":        services.GroupByCategory(items),
		"categories":    models.Categories,
		"globalMessage": msg,
	})
}

func (h *Handlers) NewItemPage(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	locations, err := h.locations.List(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": models.Categories, "locations": locations})
}

func (h *Handlers) CreateItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	item, err := h.items.Create(c.Request.Context(), userID, itemFieldsFromForm(c))
	if err != nil {
		h.mutationError(c, err)
		return
	}

	h.flashRedirect(c, auth.Success(fmt.Sprintf("%s added!", item.Title)),
		"/items#"+services.CategorySlug(item.Category))
}

func (h *Handlers) GetItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	item, err := h.items.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.mutationError(c, err)
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

	c.JSON(http.StatusOK, gin.H{
		"item":          item,
		"categories":    models.Categories,
		"locations":     locations,
		"globalMessage": msg,
	})
}

func (h *Handlers) UpdateItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	f := itemFieldsFromForm(c)
	if err := h.items.Update(c.Request.Context(), c.Param("id"), userID, f); err != nil {
		h.mutationError(c, err)
		return
	}

	h.flashRedirect(c, auth.Success(fmt.Sprintf("%s updated", f.Title)), "/items")
}

func (h *Handlers) DeleteItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.items.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.internalError(c, err)
		return
	}

	h.flashRedirect(c, auth.Success("Item deleted"), "/items")
}

// CloneItem copies an item. Cloning a missing item silently goes back to the list.
func (h *Handlers) CloneItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	clone, err := h.items.Clone(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if clone == nil {
		c.Redirect(http.StatusFound, "/items")
		return
	}

	h.flashRedirect(c, auth.Success(fmt.Sprintf("%s cloned", clone.Title)), "/items")
}

func (h *Handlers) SetNeedsMore(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	needsMore := c.PostForm("needsMore") == "true"
	if err := h.items.SetNeedsMore(c.Request.Context(), id, userID, needsMore); err != nil {
		h.mutationError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/items/"+id)
}
