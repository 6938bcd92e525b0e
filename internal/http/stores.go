package http

import (
	"time"

	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// This file consolidates all store interface definitions used by HTTP controllers.
// Each controller defines its own interface (Interface Segregation Principle),
// but this file provides a comprehensive view of all database operations needed.

// --- Entity Retrieval (shared across multiple controllers) ---

// BookGetter provides read access to books.
type BookGetter interface {
	GetBookByID(id uint) (*entities.Book, error)
}

// InstanceGetter provides read access to book copies.
type InstanceGetter interface {
	GetByID(id string) (*entities.BookInstance, error)
}

// --- Composite Interfaces ---

// CatalogStore combines every bibliographic operation the HTTP layer
// needs. Implemented by internal/database/catalog.Repository.
type CatalogStore interface {
	BookGetter

	// Genres
	CreateGenre(name string) (*entities.Genre, error)
	GetGenreByID(id uint) (*entities.Genre, error)
	ListGenres() ([]entities.Genre, error)
	DeleteGenre(id uint) error

	// Languages
	CreateLanguage(name string) (*entities.Language, error)
	GetLanguageByID(id uint) (*entities.Language, error)
	ListLanguages() ([]entities.Language, error)
	DeleteLanguage(id uint) error

	// Authors
	CreateAuthor(author *entities.Author) error
	GetAuthorByID(id uint) (*entities.Author, error)
	UpdateAuthor(author *entities.Author) error
	ListAuthors(page int) ([]entities.Author, database.Pagination, error)
	DeleteAuthor(id uint) error

	// Books
	CreateBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	ListBooks(page int) ([]entities.Book, database.Pagination, error)
	ListBooksByAuthor(authorID uint) ([]entities.Book, error)
	DeleteBook(id uint) error
}

// InstanceStore combines every book copy operation the HTTP layer
// needs. Implemented by internal/database/instances.Repository.
type InstanceStore interface {
	InstanceGetter

	Create(instance *entities.BookInstance) error
	Save(instance *entities.BookInstance) error
	Delete(id string) error
	UpdateStatus(id string, status entities.InstanceStatus) error
	ListForBook(bookID uint) ([]entities.BookInstance, error)
	ListLoansForBorrower(userID uint, page int) ([]entities.BookInstance, database.Pagination, error)
	ListActiveLoans(page int) ([]entities.BookInstance, database.Pagination, error)
}

// Renewer performs loan renewals. Implemented by loans.Service.
type Renewer interface {
	Renew(instanceID string, proposed time.Time) (*entities.BookInstance, error)
}

// --- Interface Documentation ---
//
// Controller-specific interfaces (defined in their respective files):
//
// catalogReader (catalog.go):
//   - Paginated book and author listings
//   - Book and author detail lookups
//
// loanLister (loans.go):
//   - Per-borrower and library-wide loan listings
//   - Copy lookup for the renewal form
//
// These interfaces follow the Interface Segregation Principle:
// each controller only depends on the methods it actually uses.
