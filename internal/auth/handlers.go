package auth

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/bad-joke/locallibrary/internal/config"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// setupMutex serializes /setup submissions so two concurrent first-run
// requests cannot both pass the HasUsers check.
var setupMutex sync.Mutex

// catalogHome is where auth flows land when they have nowhere better
// to go.
const catalogHome = "/catalog/"

// sanitizeRedirectPath accepts only site-local paths for the post-login
// redirect; anything else (external URLs, protocol-relative tricks,
// backslash variants) falls back to the catalog home.
func sanitizeRedirectPath(path string) string {
	switch {
	case path == "":
	case !strings.HasPrefix(path, "/"):
	case strings.HasPrefix(path, "//"):
	case strings.Contains(path, "://"):
	case strings.Contains(path, "\\"):
	default:
		return path
	}
	return catalogHome
}

// AuthController serves the login, logout and first-run setup pages.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	templates      *template.Template
	config         config.Auth
	rateLimiter    *RateLimiter
}

// NewAuthController creates the controller and parses the auth page
// templates from <templatesPath>/auth. Missing templates degrade to
// JSON responses rather than failing startup.
func NewAuthController(service *Service, sessionManager *SessionManager, templatesPath string, cfg config.Auth) (*AuthController, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templatesPath, "auth", "*.html"))
	if err != nil {
		tmpl = nil
	}

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		templates:      tmpl,
		config:         cfg,
		rateLimiter: NewRateLimiter(RateLimitConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			WindowDuration:  cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
	}, nil
}

// RegisterRoutes mounts the auth endpoints at the site root.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // plain logout links in the nav
	router.GET("/setup", ac.SetupPage)
	router.POST("/setup", ac.Setup)
}

// Stop shuts down the rate limiter's cleanup goroutine.
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// renderLogin re-renders the login form, echoing the username and the
// intended destination back into the form.
func (ac *AuthController) renderLogin(c *gin.Context, username, next, errorMsg string) {
	ac.renderTemplate(c, "login.html", gin.H{
		"Title":     "Login",
		"Username":  username,
		"Next":      next,
		"CSRFToken": GetCSRFToken(c),
		"Error":     errorMsg,
	})
}

// renderSetup re-renders the setup form with the submitted identity
// fields preserved. Passwords are never echoed back.
func (ac *AuthController) renderSetup(c *gin.Context, username, email, errorMsg string) {
	ac.renderTemplate(c, "setup.html", gin.H{
		"Title":     "Initial Setup",
		"Username":  username,
		"Email":     email,
		"CSRFToken": GetCSRFToken(c),
		"Error":     errorMsg,
	})
}

// LoginPage renders the login form. Signed-in visitors go straight to
// the catalog; a database with no accounts at all goes to first-run
// setup instead.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager != nil && ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, catalogHome)
		return
	}

	if hasUsers, _ := ac.service.HasUsers(); !hasUsers {
		c.Redirect(http.StatusFound, "/setup")
		return
	}

	ac.renderLogin(c, "", sanitizeRedirectPath(c.Query("next")), c.Query("error"))
}

// Login handles the login form submission: rate limit check, credential
// check, then session creation and redirect to the requested page.
func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			ac.renderLogin(c, username, next, "Too many login attempts. Please try again later.")
			return
		}
	}

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, username)
		}

		// Same message for bad username and bad password
		msg := "Invalid username or password"
		if errors.Is(err, ErrAccountLocked) {
			msg = "Account is locked. Please try again later."
		}
		ac.renderLogin(c, username, next, msg)
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, username)
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			ac.renderLogin(c, username, next, "Failed to create session")
			return
		}
	}

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and returns to the public catalog.
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	c.Redirect(http.StatusFound, catalogHome)
}

// SetupPage renders the first-run form that creates the administrator
// account. Once any account exists the page redirects to login.
func (ac *AuthController) SetupPage(c *gin.Context) {
	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		ac.renderSetup(c, "", "", "Database error. Please try again.")
		return
	}
	if hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	ac.renderSetup(c, "", "", c.Query("error"))
}

// Setup creates the administrator account from the first-run form.
func (ac *AuthController) Setup(c *gin.Context) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	// Re-check under the mutex
	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		ac.renderSetup(c, "", "", "Database error. Please try again.")
		return
	}
	if hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if password != c.PostForm("confirm_password") {
		ac.renderSetup(c, username, email, "Passwords do not match")
		return
	}

	user, err := ac.service.CreateUser(username, email, password, entities.UserRoleAdmin)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			// Another request won the race
			c.Redirect(http.StatusFound, "/login")
			return
		}
		ac.renderSetup(c, username, email, setupErrorMessage(err))
		return
	}

	if ac.sessionManager != nil {
		_ = ac.sessionManager.CreateSession(c.Request, user)
	}

	c.Redirect(http.StatusFound, catalogHome)
}

// setupErrorMessage maps account-creation errors onto the messages
// shown in the setup form.
func setupErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 12 characters"
	case errors.Is(err, ErrPasswordTooLong):
		return "Password exceeds maximum length of 72 characters"
	case errors.Is(err, ErrUsernameRequired):
		return "Username is required"
	case errors.Is(err, ErrUsernameInvalid):
		return "Username must be 3-64 characters, alphanumeric with underscore/hyphen only"
	case errors.Is(err, ErrEmailRequired):
		return "Email is required"
	case errors.Is(err, ErrEmailInvalid):
		return "Invalid email format"
	default:
		return "Failed to create user"
	}
}

// renderTemplate renders an auth page, or answers JSON when the auth
// templates were not found on disk.
func (ac *AuthController) renderTemplate(c *gin.Context, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(http.StatusOK, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
