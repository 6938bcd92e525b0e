package http

import (
	"github.com/bad-joke/locallibrary/internal/auth"
	"github.com/bad-joke/locallibrary/internal/catalog"
	"github.com/bad-joke/locallibrary/internal/config"
	"github.com/bad-joke/locallibrary/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Catalog   CatalogStore
	Instances InstanceStore
	Summary   *catalog.Service
	Renewals  Renewer

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
