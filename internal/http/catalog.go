package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bad-joke/locallibrary/internal/auth"
	"github.com/bad-joke/locallibrary/internal/catalog"
	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// catalogReader defines the read operations the public catalog pages need.
type catalogReader interface {
	GetBookByID(id uint) (*entities.Book, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	ListBooks(page int) ([]entities.Book, database.Pagination, error)
	ListAuthors(page int) ([]entities.Author, database.Pagination, error)
	ListBooksByAuthor(authorID uint) ([]entities.Book, error)
}

// copyLister lists the copies shown on a book's detail page.
type copyLister interface {
	ListForBook(bookID uint) ([]entities.BookInstance, error)
}

// CatalogController serves the public catalog pages: home, book and
// author listings and their detail views. All of these are reachable
// without authentication.
type CatalogController struct {
	reader   catalogReader
	copies   copyLister
	summary  *catalog.Service
	sessions *auth.SessionManager
}

// NewCatalogController creates a new catalog page controller.
func NewCatalogController(reader catalogReader, copies copyLister, summary *catalog.Service, sessions *auth.SessionManager) *CatalogController {
	return &CatalogController{
		reader:   reader,
		copies:   copies,
		summary:  summary,
		sessions: sessions,
	}
}

// Index renders the home page with catalog-wide counts and the
// per-session visit counter. The counter shown is the value before this
// visit was recorded, so a first visit displays zero.
func (cc *CatalogController) Index(c *gin.Context) {
	summary, err := cc.summary.Summarize()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading catalog summary: %s", err.Error())
		return
	}

	visits := 0
	if cc.sessions != nil {
		visits = cc.sessions.CountVisit(c.Request)
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Title":     "Local Library Home",
		"Summary":   summary,
		"NumVisits": visits,
		"Username":  auth.GetUsername(c),
		"Role":      auth.GetUserRole(c),
	})
}

// BookList renders one page of books ordered by title.
func (cc *CatalogController) BookList(c *gin.Context) {
	page := parsePageQuery(c)

	books, pagination, err := cc.reader.ListBooks(page)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "book_list", gin.H{
		"Title":      "Book List",
		"Books":      books,
		"Pagination": pagination,
		"Username":   auth.GetUsername(c),
		"Role":       auth.GetUserRole(c),
	})
}

// BookDetail renders a single book along with every copy the library
// holds, copies with the earliest due dates first.
func (cc *CatalogController) BookDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.reader.GetBookByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading book: %s", err.Error())
		return
	}

	copies, err := cc.copies.ListForBook(book.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading copies: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "book_detail", gin.H{
		"Title":    book.Title,
		"Book":     book,
		"Copies":   copies,
		"Username": auth.GetUsername(c),
		"Role":     auth.GetUserRole(c),
	})
}

// AuthorList renders one page of authors ordered by last name.
func (cc *CatalogController) AuthorList(c *gin.Context) {
	page := parsePageQuery(c)

	authors, pagination, err := cc.reader.ListAuthors(page)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "author_list", gin.H{
		"Title":      "Author List",
		"Authors":    authors,
		"Pagination": pagination,
		"Username":   auth.GetUsername(c),
		"Role":       auth.GetUserRole(c),
	})
}

// AuthorDetail renders a single author and all books credited to them.
func (cc *CatalogController) AuthorDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := cc.reader.GetAuthorByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			c.String(http.StatusNotFound, "Author not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading author: %s", err.Error())
		return
	}

	books, err := cc.reader.ListBooksByAuthor(author.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "author_detail", gin.H{
		"Title":    "Author: " + author.Name(),
		"Author":   author,
		"Books":    books,
		"Username": auth.GetUsername(c),
		"Role":     auth.GetUserRole(c),
	})
}
