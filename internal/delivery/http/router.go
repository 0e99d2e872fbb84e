package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/handler"
	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
)

type Router struct {
	pagesHandler      *handler.PagesHandler
	authHandler       *handler.AuthHandler
	searchHandler     *handler.SearchHandler
	profileHandler    *handler.ProfileHandler
	adminHandler      *handler.AdminHandler
	sessionMiddleware *middleware.SessionMiddleware
	authMiddleware    *middleware.AuthMiddleware
	adminMiddleware   *middleware.AdminMiddleware
	templateGlob      string
}

func NewRouter(
	pagesHandler *handler.PagesHandler,
	authHandler *handler.AuthHandler,
	searchHandler *handler.SearchHandler,
	profileHandler *handler.ProfileHandler,
	adminHandler *handler.AdminHandler,
	sessionMiddleware *middleware.SessionMiddleware,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	templateGlob string,
) *Router {
	return &Router{
		pagesHandler:      pagesHandler,
		authHandler:       authHandler,
		searchHandler:     searchHandler,
		profileHandler:    profileHandler,
		adminHandler:      adminHandler,
		sessionMiddleware: sessionMiddleware,
		authMiddleware:    authMiddleware,
		adminMiddleware:   adminMiddleware,
		templateGlob:      templateGlob,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.LoadHTMLGlob(r.templateGlob)

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Every page reads the visitor session
	pages := router.Group("")
	pages.Use(r.sessionMiddleware.Load())
	{
		// Marketing pages (public)
		pages.GET("/", r.pagesHandler.Home)
		pages.GET("/about", r.pagesHandler.About)
		pages.GET("/pricing", r.pagesHandler.Pricing)

		// Auth pages (public)
		pages.GET("/login", r.authHandler.ShowLogin)
		pages.POST("/login", r.authHandler.Login)
		pages.GET("/signup", r.authHandler.ShowSignup)
		pages.POST("/signup", r.authHandler.Signup)
		pages.POST("/logout", r.authHandler.Logout)

		// User-gated pages
		protected := pages.Group("")
		protected.Use(r.authMiddleware.RequireUser())
		{
			protected.GET("/search", r.searchHandler.Search)
			protected.GET("/profile", r.profileHandler.Show)
			protected.POST("/profile", r.profileHandler.Save)
		}
	}

	// Admin portal, gated separately from the visitor session
	router.GET("/admin/login", r.adminHandler.ShowLogin)
	router.POST("/admin/login", r.adminHandler.Login)
	router.POST("/admin/logout", r.adminHandler.Logout)

	adminPages := router.Group("/admin")
	adminPages.Use(r.adminMiddleware.RequireAdmin())
	{
		adminPages.GET("/dashboard", r.adminHandler.Dashboard)
		adminPages.POST("/users", r.adminHandler.AddUser)
		adminPages.POST("/users/:id/delete", r.adminHandler.DeleteUser)
	}

	return router
}
