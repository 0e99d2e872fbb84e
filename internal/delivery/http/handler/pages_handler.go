package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
)

// PagesHandler serves the public marketing pages.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Home(c *gin.Context) {
	h.render(c, "home.tmpl")
}

func (h *PagesHandler) About(c *gin.Context) {
	h.render(c, "about.tmpl")
}

func (h *PagesHandler) Pricing(c *gin.Context) {
	h.render(c, "pricing.tmpl")
}

func (h *PagesHandler) render(c *gin.Context, name string) {
	c.HTML(http.StatusOK, name, gin.H{
		"User":  middleware.GetSession(c).User(),
		"Flash": popFlash(c),
	})
}
