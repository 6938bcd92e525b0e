// Package catalog provides database operations for the bibliographic
// records: genres, languages, authors and books.
//
// Deletes follow a set-null policy: removing an author, language or
// book nullifies the references held by dependent rows instead of
// cascading. The nullify step runs explicitly inside the delete
// transaction so the behavior does not depend on the SQLite
// foreign-key pragma.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	books, page, err := repo.ListBooks(1)
package catalog

import (
	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
	"gorm.io/gorm"
)

// Repository handles all genre, language, author and book operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Genres ---

// CreateGenre creates a new genre. Genre names are unique.
func (r *Repository) CreateGenre(name string) (*entities.Genre, error) {
	genre := &entities.Genre{Name: name}
	if err := r.db.Create(genre).Error; err != nil {
		return nil, err
	}
	return genre, nil
}

// GetGenreByID retrieves a genre by ID.
func (r *Repository) GetGenreByID(id uint) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, database.AsNotFound(err)
	}
	return &genre, nil
}

// ListGenres retrieves all genres ordered by name.
func (r *Repository) ListGenres() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// DeleteGenre removes a genre and its book associations. Books keep
// their other genres.
func (r *Repository) DeleteGenre(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Genre{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

// --- Languages ---

// CreateLanguage creates a new language. Language names are unique.
func (r *Repository) CreateLanguage(name string) (*entities.Language, error) {
	language := &entities.Language{Name: name}
	if err := r.db.Create(language).Error; err != nil {
		return nil, err
	}
	return language, nil
}

// GetLanguageByID retrieves a language by ID.
func (r *Repository) GetLanguageByID(id uint) (*entities.Language, error) {
	var language entities.Language
	if err := r.db.First(&language, id).Error; err != nil {
		return nil, database.AsNotFound(err)
	}
	return &language, nil
}

// ListLanguages retrieves all languages ordered by name.
func (r *Repository) ListLanguages() ([]entities.Language, error) {
	var languages []entities.Language
	err := r.db.Order("name ASC").Find(&languages).Error
	return languages, err
}

// DeleteLanguage removes a language. Dependent books survive with a
// null language reference.
func (r *Repository) DeleteLanguage(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.Book{}).
			Where("language_id = ?", id).
			Update("language_id", nil).Error
		if err != nil {
			return err
		}
		result := tx.Delete(&entities.Language{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

// --- Authors ---

// CreateAuthor creates a new author.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

// GetAuthorByID retrieves an author by ID.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, database.AsNotFound(err)
	}
	return &author, nil
}

// UpdateAuthor persists changes to an existing author.
func (r *Repository) UpdateAuthor(author *entities.Author) error {
	return r.db.Save(author).Error
}

// CountAuthors returns the total number of authors.
func (r *Repository) CountAuthors() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Count(&count).Error
	return count, err
}

// ListAuthors returns one page of authors ordered by last then first
// name. Out-of-range pages clamp to the nearest valid page.
func (r *Repository) ListAuthors(page int) ([]entities.Author, database.Pagination, error) {
	total, err := r.CountAuthors()
	if err != nil {
		return nil, database.Pagination{}, err
	}
	pagination := database.NewPagination(page, database.DefaultPageSize, total)

	var authors []entities.Author
	err = r.db.Order("last_name ASC, first_name ASC").
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Find(&authors).Error
	return authors, pagination, err
}

// DeleteAuthor removes an author. Dependent books survive with a null
// author reference.
func (r *Repository) DeleteAuthor(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.Book{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error
		if err != nil {
			return err
		}
		result := tx.Delete(&entities.Author{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

// --- Books ---

// CreateBook creates a new book along with its genre associations.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetBookByID retrieves a book with its author, language and genres.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Language").Preload("Genres").
		First(&book, id).Error
	if err != nil {
		return nil, database.AsNotFound(err)
	}
	return &book, nil
}

// UpdateBook persists changes to an existing book, replacing its genre
// associations with the ones on the passed struct.
func (r *Repository) UpdateBook(book *entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(book).Association("Genres").Replace(book.Genres); err != nil {
			return err
		}
		return tx.Omit("Genres").Save(book).Error
	})
}

// CountBooks returns the total number of books.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// CountBooksByLanguageName counts books whose language matches the
// given name (e.g. "English").
func (r *Repository) CountBooksByLanguageName(name string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Joins("JOIN languages ON languages.id = books.language_id").
		Where("languages.name = ?", name).
		Count(&count).Error
	return count, err
}

// ListBooks returns one page of books ordered by title, with authors
// preloaded for list rendering.
func (r *Repository) ListBooks(page int) ([]entities.Book, database.Pagination, error) {
	total, err := r.CountBooks()
	if err != nil {
		return nil, database.Pagination{}, err
	}
	pagination := database.NewPagination(page, database.DefaultPageSize, total)

	var books []entities.Book
	err = r.db.Preload("Author").
		Order("title ASC").
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Find(&books).Error
	return books, pagination, err
}

// ListBooksByAuthor retrieves all books credited to one author,
// ordered by title. Used by the author detail page.
func (r *Repository) ListBooksByAuthor(authorID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("author_id = ?", authorID).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// DeleteBook removes a book. Its copies survive as orphaned rows with
// a null book reference, and the genre join rows are cleared.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.BookInstance{}).
			Where("book_id = ?", id).
			Update("book_id", nil).Error
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}
