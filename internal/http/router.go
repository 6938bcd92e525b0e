package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bad-joke/locallibrary/internal/auth"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// formatDate renders an optional date for templates. Copies without a
// due date render as an empty string.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - everyone is anonymous
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.AnonymousUserID)
			c.Next()
		})
	}

	// Route guards. With auth disabled every page is open, including
	// the librarian ones.
	passthrough := func(c *gin.Context) { c.Next() }
	requireAuth := gin.HandlerFunc(passthrough)
	requireLibrarian := gin.HandlerFunc(passthrough)
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
		requireLibrarian = cfg.AuthMiddleware.RequireLibrarian()
	}

	// Define custom template functions
	funcMap := template.FuncMap{
		"formatDate": formatDate,
		"statusLabel": func(s entities.InstanceStatus) string {
			return s.Label()
		},
		"subtract": func(a, b int) int {
			return a - b
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	// Load HTML templates with custom functions
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	// Register auth routes if auth service is available
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController, err := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath, cfg.AuthConfig)
		if err == nil {
			authController.RegisterRoutes(router)
		}
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	catalogController := NewCatalogController(cfg.Catalog, cfg.Instances, cfg.Summary, cfg.SessionManager)
	loansController := NewLoansController(cfg.Instances, cfg.Renewals)
	adminController := NewAdminController(cfg.Catalog, cfg.Instances)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// The catalog is the site root
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog/")
	})

	// Public catalog pages
	router.GET("/catalog/", catalogController.Index)
	router.GET("/catalog/books", catalogController.BookList)
	router.GET("/catalog/book/:id", catalogController.BookDetail)
	router.GET("/catalog/authors", catalogController.AuthorList)
	router.GET("/catalog/author/:id", catalogController.AuthorDetail)

	// Loan pages
	router.GET("/catalog/mybooks", requireAuth, loansController.MyLoans)
	router.GET("/catalog/borrowed", requireLibrarian, loansController.AllLoans)
	router.GET("/catalog/bookinstance/:id/renew", requireLibrarian, loansController.RenewForm)
	router.POST("/catalog/bookinstance/:id/renew", requireLibrarian, loansController.Renew)

	// Catalog maintenance API, librarians only
	api := router.Group("/api", requireLibrarian)
	{
		api.GET("/summary", func(c *gin.Context) {
			summary, err := cfg.Summary.Summarize()
			if err != nil {
				respondInternalError(c, err, "catalog summary")
				return
			}
			c.JSON(http.StatusOK, summary)
		})

		api.POST("/genres", adminController.CreateGenre)
		api.GET("/genres", adminController.ListGenres)
		api.GET("/genres/:id", adminController.GetGenre)
		api.DELETE("/genres/:id", adminController.DeleteGenre)

		api.POST("/languages", adminController.CreateLanguage)
		api.GET("/languages", adminController.ListLanguages)
		api.DELETE("/languages/:id", adminController.DeleteLanguage)

		api.POST("/authors", adminController.CreateAuthor)
		api.GET("/authors", adminController.ListAuthors)
		api.GET("/authors/:id", adminController.GetAuthor)
		api.PUT("/authors/:id", adminController.UpdateAuthor)
		api.DELETE("/authors/:id", adminController.DeleteAuthor)

		api.POST("/books", adminController.CreateBook)
		api.GET("/books", adminController.ListBooks)
		api.GET("/books/:id", adminController.GetBook)
		api.PUT("/books/:id", adminController.UpdateBook)
		api.DELETE("/books/:id", adminController.DeleteBook)

		api.POST("/bookinstances", adminController.CreateInstance)
		api.GET("/bookinstances/:id", adminController.GetInstance)
		api.PUT("/bookinstances/:id", adminController.UpdateInstance)
		api.DELETE("/bookinstances/:id", adminController.DeleteInstance)
	}

	return router
}
