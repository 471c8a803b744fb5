package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Healthcheck verifies the database answers and the app serves its own
// index page, both within the healthcheck timeout.
func (h *Handlers) Healthcheck(c *gin.Context) {
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.healthcheckTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := h.users.CountUsers(ctx)
		return err
	})

	g.Go(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, "http://"+host+"/", nil)
		if err != nil {
			return err
		}
		resp, err := h.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("self probe status %d", resp.StatusCode)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Error(c.Request.Context(), "healthcheck failed", "error", err)
		c.String(http.StatusInternalServerError, "ERROR")
		return
	}

	c.String(http.StatusOK, "OK")
}
