package httpserver

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	VerifyLogin(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID string, f models.ItemFields) (*models.Item, error)
	Get(ctx context.Context, id, ownerID string) (*models.Item, error)
	List(ctx context.Context, ownerID string) ([]*models.Item, error)
	Update(ctx context.Context, id, ownerID string, f models.ItemFields) error
	Delete(ctx context.Context, id, ownerID string) error
	Clone(ctx context.Context, id, ownerID string) (*models.Item, error)
	SetNeedsMore(ctx context.Context, id, ownerID string, needsMore bool) error
}

type LocationService interface {
	Create(ctx context.Context, ownerID, title string) (*models.Location, error)
	List(ctx context.Context, ownerID string) ([]*models.Location, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type ExportService interface {
	FileName() string
	WriteCSV(ctx context.Context, ownerID string, w io.Writer) error
	Archive(ctx context.Context, ownerID string) (string, error)
}

// Services groups the business services the handlers depend on.
type Services struct {
	Users     UserService
	Items     ItemService
	Locations LocationService
	Exports   ExportService
}

type Handlers struct {
	guard              *auth.Guard
	users              UserService
	items              ItemService
	locations          LocationService
	exports            ExportService
	policy             auth.UsernamePolicy
	logger             logging.Logger
	healthcheckTimeout time.Duration
	httpClient         *http.Client
}

func NewHandlers(guard *auth.Guard, svc Services, policy auth.UsernamePolicy, l logging.Logger, healthcheckTimeout time.Duration) *Handlers {
	return &Handlers{
		guard:              guard,
		users:              svc.Users,
		items:              svc.Items,
		locations:          svc.Locations,
		exports:            svc.Exports,
		policy:             policy,
		logger:             l.With("module", "handlers"),
		healthcheckTimeout: healthcheckTimeout,
		httpClient:         &http.Client{},
	}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handlers, l logging.Logger) *gin.Engine {
	r := gin.New()
	// RequestLogger wraps Recovery so a panicking request still gets its access line
	r.Use(RequestLogger(l.With("module", "access")), Recovery(l))

	r.GET("/", h.Index)
	r.HEAD("/", h.IndexHead)
	r.GET("/healthcheck", h.Healthcheck)

	r.GET("/join", h.JoinPage)
	r.POST("/join", h.Join)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	items := r.Group("/items")
	{
		items.GET("", h.ListItems)
		items.GET("/new", h.NewItemPage)
		items.POST("/new", h.CreateItem)
		items.GET("/export", h.ExportItems)
		items.POST("/export", h.ArchiveItems)
		items.GET("/:id", h.GetItem)
		items.POST("/:id", h.UpdateItem)
		items.POST("/:id/delete", h.DeleteItem)
		items.POST("/:id/clone", h.CloneItem)
		items.POST("/:id/needsmore", h.SetNeedsMore)
	}

	locations := r.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.GET("/new", h.NewLocationPage)
		locations.POST("/new", h.CreateLocation)
		locations.POST("/:id/delete", h.DeleteLocation)
	}

	return r
}

// --- helpers below ---

func (h *Handlers) sendRedirect(c *gin.Context, r *auth.Redirect) {
	if r.Cookie != nil {
		http.SetCookie(c.Writer, r.Cookie)
	}
	c.Redirect(http.StatusFound, r.Location)
}

func (h *Handlers) internalError(c *gin.Context, err error) {
	h.logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// requireUserID resolves the session user or answers with a login redirect.
func (h *Handlers) requireUserID(c *gin.Context) (string, bool) {
	id, redirect := h.guard.RequireUserID(c.Request, "")
	if redirect != nil {
		h.sendRedirect(c, redirect)
		return "", false
	}
	c.Set(ctxUserID, id)
	return id, true
}

// takeFlash pops the global message and re-commits the session so it is
// shown only once.
func (h *Handlers) takeFlash(c *gin.Context) (*auth.Message, error) {
	store := h.guard.Store()
	sess := store.Get(c.Request)

	msg := sess.TakeFlash(common.GlobalMessageKey)
	if msg == nil {
		return nil, nil
	}

	cookie, err := store.Commit(sess, 0)
	if err != nil {
		return nil, err
	}
	http.SetCookie(c.Writer, cookie)
	return msg, nil
}

// flashRedirect stores msg for the next page view and redirects to location.
func (h *Handlers) flashRedirect(c *gin.Context, msg auth.Message, location string) {
	store := h.guard.Store()
	sess := store.Get(c.Request)
	sess.Flash(common.GlobalMessageKey, msg)

	cookie, err := store.Commit(sess, 0)
	if err != nil {
		h.internalError(c, err)
		return
	}
	h.sendRedirect(c, &auth.Redirect{Location: location, Cookie: cookie})
}
