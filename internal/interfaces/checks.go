package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/bad-joke/locallibrary/internal/catalog"
	catalogdb "github.com/bad-joke/locallibrary/internal/database/catalog"
	"github.com/bad-joke/locallibrary/internal/database/instances"
	"github.com/bad-joke/locallibrary/internal/http"
	"github.com/bad-joke/locallibrary/internal/loans"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// CatalogStore implementations
var _ http.CatalogStore = (*catalogdb.Repository)(nil)

// InstanceStore implementations
var _ http.InstanceStore = (*instances.Repository)(nil)

// =============================================================================
// Domain Services
// =============================================================================

// Renewal workflow persistence
var _ loans.InstanceStore = (*instances.Repository)(nil)

// Home page counters
var _ catalog.BookCounter = (*catalogdb.Repository)(nil)
var _ catalog.InstanceCounter = (*instances.Repository)(nil)

// Renewer implementations
var _ http.Renewer = (*loans.Service)(nil)
