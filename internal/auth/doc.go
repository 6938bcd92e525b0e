// Package auth provides authentication and authorization for the
// library catalog.
//
// It supports two modes:
//   - "none": no authentication (development only); every request runs
//     as an anonymous default user
//   - "local": local user database with session cookies
//
// # Configuration
//
// Set AUTH_MODE to select the mode:
//
//	AUTH_MODE=local  # Default; requires user creation and login
//	AUTH_MODE=none   # No auth, for local development
//
// For local mode:
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Authorization
//
// Roles are ordered member < librarian < admin. The two capabilities
// the catalog cares about (renewing loans, viewing every active loan)
// are granted to librarians and admins. Route-level checks are
// applied by the HTTP shell via RequireAuth and RequireRole; the
// domain services below the shell never re-check permissions.
package auth
