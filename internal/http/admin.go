package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// AdminController is the JSON API for maintaining catalog records.
// Every route it serves sits behind the librarian capability check.
type AdminController struct {
	catalog   CatalogStore
	instances InstanceStore
}

// NewAdminController creates a new catalog maintenance controller.
func NewAdminController(catalog CatalogStore, instances InstanceStore) *AdminController {
	return &AdminController{
		catalog:   catalog,
		instances: instances,
	}
}

// parseOptionalDate parses an optional ISO date string.
// An empty string yields nil.
func parseOptionalDate(c *gin.Context, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		respondBadRequest(c, field+" must be a date in YYYY-MM-DD format")
		return nil, false
	}
	day := entities.DateOnly(parsed)
	return &day, true
}

// --- Genres ---

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGenre creates a new genre
// POST /api/genres
func (ac *AdminController) CreateGenre(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	genre, err := ac.catalog.CreateGenre(req.Name)
	if err != nil {
		respondInternalError(c, err, "create genre")
		return
	}

	respondCreated(c, genre)
}

// ListGenres returns all genres
// GET /api/genres
func (ac *AdminController) ListGenres(c *gin.Context) {
	genres, err := ac.catalog.ListGenres()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GetGenre returns a single genre
// GET /api/genres/:id
func (ac *AdminController) GetGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := ac.catalog.GetGenreByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "genre")
			return
		}
		respondInternalError(c, err, "get genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// DeleteGenre removes a genre; books keep their other genres
// DELETE /api/genres/:id
func (ac *AdminController) DeleteGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.catalog.DeleteGenre(id); err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "genre")
			return
		}
		respondInternalError(c, err, "delete genre")
		return
	}
	respondSuccess(c, "genre deleted")
}

// --- Languages ---

// CreateLanguage creates a new language
// POST /api/languages
func (ac *AdminController) CreateLanguage(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	language, err := ac.catalog.CreateLanguage(req.Name)
	if err != nil {
		respondInternalError(c, err, "create language")
		return
	}

	respondCreated(c, language)
}

// ListLanguages returns all languages
// GET /api/languages
func (ac *AdminController) ListLanguages(c *gin.Context) {
	languages, err := ac.catalog.ListLanguages()
	if err != nil {
		respondInternalError(c, err, "list languages")
		return
	}
	c.JSON(http.StatusOK, languages)
}

// DeleteLanguage removes a language; dependent books keep a null
// language reference
// DELETE /api/languages/:id
func (ac *AdminController) DeleteLanguage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.catalog.DeleteLanguage(id); err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "language")
			return
		}
		respondInternalError(c, err, "delete language")
		return
	}
	respondSuccess(c, "language deleted")
}

// --- Authors ---

type authorRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	DateOfDeath string `json:"date_of_death"`
}

// CreateAuthor creates a new author
// POST /api/authors
func (ac *AdminController) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "first_name and last_name are required")
		return
	}

	born, ok := parseOptionalDate(c, req.DateOfBirth, "date_of_birth")
	if !ok {
		return
	}
	died, ok := parseOptionalDate(c, req.DateOfDeath, "date_of_death")
	if !ok {
		return
	}

	author := &entities.Author{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: born,
		DateOfDeath: died,
	}
	if err := ac.catalog.CreateAuthor(author); err != nil {
		respondInternalError(c, err, "create author")
		return
	}

	respondCreated(c, author)
}

// ListAuthors returns one page of authors
// GET /api/authors?page=N
func (ac *AdminController) ListAuthors(c *gin.Context) {
	page := parsePageQuery(c)
	authors, pagination, err := ac.catalog.ListAuthors(page)
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authors":    authors,
		"pagination": pagination,
	})
}

// GetAuthor returns a single author
// GET /api/authors/:id
func (ac *AdminController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.catalog.GetAuthorByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// UpdateAuthor replaces an author's details
// PUT /api/authors/:id
func (ac *AdminController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "first_name and last_name are required")
		return
	}

	born, ok := parseOptionalDate(c, req.DateOfBirth, "date_of_birth")
	if !ok {
		return
	}
	died, ok := parseOptionalDate(c, req.DateOfDeath, "date_of_death")
	if !ok {
		return
	}

	author, err := ac.catalog.GetAuthorByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	author.FirstName = req.FirstName
	author.LastName = req.LastName
	author.DateOfBirth = born
	author.DateOfDeath = died

	if err := ac.catalog.UpdateAuthor(author); err != nil {
		respondInternalError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor removes an author; their books keep a null author
// reference
// DELETE /api/authors/:id
func (ac *AdminController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.catalog.DeleteAuthor(id); err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "delete author")
		return
	}
	respondSuccess(c, "author deleted")
}

// --- Books ---

type bookRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	Summary    string `json:"summary" binding:"max=1000"`
	ISBN       string `json:"isbn" binding:"max=13"`
	AuthorID   *uint  `json:"author_id"`
	LanguageID *uint  `json:"language_id"`
	GenreIDs   []uint `json:"genre_ids"`
}

// resolveGenres loads the referenced genres, rejecting unknown IDs.
func (ac *AdminController) resolveGenres(c *gin.Context, ids []uint) ([]entities.Genre, bool) {
	genres := make([]entities.Genre, 0, len(ids))
	for _, id := range ids {
		genre, err := ac.catalog.GetGenreByID(id)
		if err != nil {
			if database.IsNotFound(err) {
				respondBadRequest(c, "unknown genre id")
				return nil, false
			}
			respondInternalError(c, err, "resolve genres")
			return nil, false
		}
		genres = append(genres, *genre)
	}
	return genres, true
}

// CreateBook creates a new book with its genre associations
// POST /api/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required; summary is limited to 1000 characters and isbn to 13")
		return
	}

	genres, ok := ac.resolveGenres(c, req.GenreIDs)
	if !ok {
		return
	}

	book := &entities.Book{
		Title:      req.Title,
		Summary:    req.Summary,
		ISBN:       req.ISBN,
		AuthorID:   req.AuthorID,
		LanguageID: req.LanguageID,
		Genres:     genres,
	}
	if err := ac.catalog.CreateBook(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// ListBooks returns one page of books
// GET /api/books?page=N
func (ac *AdminController) ListBooks(c *gin.Context) {
	page := parsePageQuery(c)
	books, pagination, err := ac.catalog.ListBooks(page)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"books":      books,
		"pagination": pagination,
	})
}

// GetBook returns a single book with author, language and genres
// GET /api/books/:id
func (ac *AdminController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.catalog.GetBookByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook replaces a book's details and genre associations
// PUT /api/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required; summary is limited to 1000 characters and isbn to 13")
		return
	}

	genres, ok := ac.resolveGenres(c, req.GenreIDs)
	if !ok {
		return
	}

	book, err := ac.catalog.GetBookByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	book.Title = req.Title
	book.Summary = req.Summary
	book.ISBN = req.ISBN
	book.AuthorID = req.AuthorID
	book.LanguageID = req.LanguageID
	book.Genres = genres

	if err := ac.catalog.UpdateBook(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book; its copies become orphaned rows with a
// null book reference
// DELETE /api/books/:id
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.catalog.DeleteBook(id); err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// --- Book Instances ---

type instanceRequest struct {
	BookID     *uint  `json:"book_id"`
	Imprint    string `json:"imprint"`
	Status     string `json:"status"`
	DueBack    string `json:"due_back"`
	BorrowerID *uint  `json:"borrower_id"`
}

// CreateInstance registers a new physical copy
// POST /api/bookinstances
func (ac *AdminController) CreateInstance(c *gin.Context) {
	var req instanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	status := entities.InstanceStatus(req.Status)
	if req.Status == "" {
		status = entities.StatusMaintenance
	}
	if !entities.ValidInstanceStatuses[status] {
		respondBadRequest(c, "status must be one of m, o, a, r")
		return
	}

	dueBack, ok := parseOptionalDate(c, req.DueBack, "due_back")
	if !ok {
		return
	}

	instance := &entities.BookInstance{
		BookID:     req.BookID,
		Imprint:    req.Imprint,
		Status:     status,
		DueBack:    dueBack,
		BorrowerID: req.BorrowerID,
	}
	if err := ac.instances.Create(instance); err != nil {
		respondInternalError(c, err, "create book instance")
		return
	}

	respondCreated(c, instance)
}

// GetInstance returns a single copy with its book and borrower
// GET /api/bookinstances/:id
func (ac *AdminController) GetInstance(c *gin.Context) {
	id := c.Param("id")

	instance, err := ac.instances.GetByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "book instance")
			return
		}
		respondInternalError(c, err, "get book instance")
		return
	}
	c.JSON(http.StatusOK, instance)
}

// UpdateInstance replaces a copy's loan state
// PUT /api/bookinstances/:id
func (ac *AdminController) UpdateInstance(c *gin.Context) {
	id := c.Param("id")

	var req instanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	status := entities.InstanceStatus(req.Status)
	if req.Status != "" && !entities.ValidInstanceStatuses[status] {
		respondBadRequest(c, "status must be one of m, o, a, r")
		return
	}

	dueBack, ok := parseOptionalDate(c, req.DueBack, "due_back")
	if !ok {
		return
	}

	instance, err := ac.instances.GetByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "book instance")
			return
		}
		respondInternalError(c, err, "get book instance")
		return
	}

	instance.BookID = req.BookID
	instance.Imprint = req.Imprint
	if req.Status != "" {
		instance.Status = status
	}
	instance.DueBack = dueBack
	instance.BorrowerID = req.BorrowerID
	// Drop preloaded associations so Save writes only the copy's row
	instance.Book = nil
	instance.Borrower = nil

	if err := ac.instances.Save(instance); err != nil {
		respondInternalError(c, err, "update book instance")
		return
	}
	c.JSON(http.StatusOK, instance)
}

// DeleteInstance removes a copy permanently
// DELETE /api/bookinstances/:id
func (ac *AdminController) DeleteInstance(c *gin.Context) {
	id := c.Param("id")

	if err := ac.instances.Delete(id); err != nil {
		if database.IsNotFound(err) {
			respondNotFound(c, "book instance")
			return
		}
		respondInternalError(c, err, "delete book instance")
		return
	}
	respondSuccess(c, "book instance deleted")
}
