package httpserver

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	msgUsernameInvalid  = "Username is invalid"
	msgPasswordRequired = "Password is required"
	msgPasswordShort    = "Password is too short"
	msgUserExists       = "A user already exists with this username"
	msgInvalidLogin     = "Invalid username or password"
)

func credentialErrors(c *gin.Context, username, password *string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"username": username, "password": password}})
}

func str(s string) *string { return &s }

// checkCredentials validates the username/password form fields and writes
// a 400 on the first failure.
func (h *Handlers) checkCredentials(c *gin.Context, username, password string) bool {
	switch {
	case !h.policy.Valid(username):
		credentialErrors(c, str(msgUsernameInvalid), nil)
	case password == "":
		credentialErrors(c, nil, str(msgPasswordRequired))
	case utf8.RuneCountInString(password) < auth.MinPasswordLength:
		credentialErrors(c, nil, str(msgPasswordShort))
	default:
		return true
	}
	return false
}

func (h *Handlers) authPage(c *gin.Context) {
	if h.guard.GetUserID(c.Request) != "" {
		c.Redirect(http.StatusFound, auth.DefaultRedirect)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirectTo": auth.SafeRedirect(c.Query("redirectTo"), auth.DefaultRedirect)})
}

func (h *Handlers) JoinPage(c *gin.Context) {
	h.authPage(c)
}

func (h *Handlers) LoginPage(c *gin.Context) {
	h.authPage(c)
}

func (h *Handlers) Join(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	redirectTo := auth.SafeRedirect(c.PostForm("redirectTo"), auth.DefaultRedirect)

	if !h.checkCredentials(c, username, password) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			credentialErrors(c, str(msgUserExists), nil)
			return
		}
		h.internalError(c, err)
		return
	}

	h.startSession(c, user.ID, false, redirectTo)
}

func (h *Handlers) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	redirectTo := auth.SafeRedirect(c.PostForm("redirectTo"), auth.DefaultRedirect)
	remember := c.PostForm("remember") == "on"

	if !h.checkCredentials(c, username, password) {
		return
	}

	user, err := h.users.VerifyLogin(c.Request.Context(), username, password)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if user == nil {
		credentialErrors(c, str(msgInvalidLogin), nil)
		return
	}

	h.startSession(c, user.ID, remember, redirectTo)
}

func (h *Handlers) startSession(c *gin.Context, userID string, remember bool, redirectTo string) {
	redirect, err := h.guard.CreateUserSession(c.Request, userID, remember, redirectTo)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Set(ctxUserID, userID)
	h.sendRedirect(c, redirect)
}

func (h *Handlers) Logout(c *gin.Context) {
	h.sendRedirect(c, h.guard.Logout())
}
