package catalog

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_catalog_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Genre{},
		&entities.Language{},
		&entities.Author{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createAuthor(t *testing.T, repo *Repository, first, last string) *entities.Author {
	t.Helper()
	author := &entities.Author{FirstName: first, LastName: last}
	require.NoError(t, repo.CreateAuthor(author))
	return author
}

func TestRepository_Genres(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.CreateGenre("Fantasy")
	require.NoError(t, err)
	assert.NotZero(t, genre.ID)

	got, err := repo.GetGenreByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)

	// Duplicate names are rejected by the unique index
	_, err = repo.CreateGenre("Fantasy")
	assert.Error(t, err)

	_, err = repo.GetGenreByID(9999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_DeleteGenre_KeepsBooks(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	fantasy, err := repo.CreateGenre("Fantasy")
	require.NoError(t, err)
	poetry, err := repo.CreateGenre("Poetry")
	require.NoError(t, err)

	book := &entities.Book{Title: "Collected Works", Genres: []entities.Genre{*fantasy, *poetry}}
	require.NoError(t, repo.CreateBook(book))

	require.NoError(t, repo.DeleteGenre(fantasy.ID))

	got, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Poetry", got.Genres[0].Name)

	assert.ErrorIs(t, repo.DeleteGenre(fantasy.ID), database.ErrNotFound)
}

func TestRepository_DeleteLanguage_NullifiesBooks(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	french, err := repo.CreateLanguage("French")
	require.NoError(t, err)

	book := &entities.Book{Title: "Les Fleurs du mal", LanguageID: &french.ID}
	require.NoError(t, repo.CreateBook(book))

	require.NoError(t, repo.DeleteLanguage(french.ID))

	got, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LanguageID)
	assert.Nil(t, got.Language)
}

func TestRepository_DeleteAuthor_NullifiesBooks(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, repo, "Ben", "Bova")
	book := &entities.Book{Title: "Apes and Angels", AuthorID: &author.ID}
	require.NoError(t, repo.CreateBook(book))

	require.NoError(t, repo.DeleteAuthor(author.ID))

	got, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AuthorID)

	_, err = repo.GetAuthorByID(author.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_DeleteBook_OrphansCopies(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.CreateGenre("Fantasy")
	require.NoError(t, err)
	book := &entities.Book{Title: "The Name of the Wind", Genres: []entities.Genre{*genre}}
	require.NoError(t, repo.CreateBook(book))

	instance := &entities.BookInstance{BookID: &book.ID, Imprint: "Gollancz, 2014."}
	require.NoError(t, db.Create(instance).Error)

	require.NoError(t, repo.DeleteBook(book.ID))

	// The copy survives as an orphan
	var orphan entities.BookInstance
	require.NoError(t, db.First(&orphan, "id = ?", instance.ID).Error)
	assert.Nil(t, orphan.BookID)

	// The genre join rows are gone
	var joins int64
	require.NoError(t, db.Table("book_genres").Where("book_id = ?", book.ID).Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestRepository_ListAuthors_PaginatesAndSorts(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	// 13 authors: two full-ish pages at page size 10
	for i := 0; i < 13; i++ {
		createAuthor(t, repo, "First", fmt.Sprintf("Last%02d", i))
	}

	first, pagination, err := repo.ListAuthors(1)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.Equal(t, int64(13), pagination.TotalRecords)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)
	assert.Equal(t, "Last00", first[0].LastName)

	second, pagination, err := repo.ListAuthors(2)
	require.NoError(t, err)
	assert.Len(t, second, 3)
	assert.True(t, pagination.HasPrev)
	assert.False(t, pagination.HasNext)

	// Out-of-range page clamps to the last page
	clamped, pagination, err := repo.ListAuthors(50)
	require.NoError(t, err)
	assert.Len(t, clamped, 3)
	assert.Equal(t, 2, pagination.Page)
}

func TestRepository_ListBooks_OrdersByTitle(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, repo, "Patrick", "Rothfuss")
	for _, title := range []string{"Zebra", "Alpha", "Middle"} {
		require.NoError(t, repo.CreateBook(&entities.Book{Title: title, AuthorID: &author.ID}))
	}

	books, pagination, err := repo.ListBooks(1)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Alpha", books[0].Title)
	assert.Equal(t, "Middle", books[1].Title)
	assert.Equal(t, "Zebra", books[2].Title)
	assert.Equal(t, 1, pagination.TotalPages)

	// Authors come preloaded for list rendering
	require.NotNil(t, books[0].Author)
	assert.Equal(t, "Rothfuss, Patrick", books[0].Author.Name())
}

func TestRepository_ListBooksByAuthor(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	rothfuss := createAuthor(t, repo, "Patrick", "Rothfuss")
	bova := createAuthor(t, repo, "Ben", "Bova")

	require.NoError(t, repo.CreateBook(&entities.Book{Title: "The Wise Man's Fear", AuthorID: &rothfuss.ID}))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "The Name of the Wind", AuthorID: &rothfuss.ID}))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Apes and Angels", AuthorID: &bova.ID}))

	books, err := repo.ListBooksByAuthor(rothfuss.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "The Name of the Wind", books[0].Title)
}

func TestRepository_Counts(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	english, err := repo.CreateLanguage("English")
	require.NoError(t, err)
	french, err := repo.CreateLanguage("French")
	require.NoError(t, err)

	author := createAuthor(t, repo, "Isaac", "Asimov")
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Foundation", AuthorID: &author.ID, LanguageID: &english.ID}))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Fondation", AuthorID: &author.ID, LanguageID: &french.ID}))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Untagged"}))

	books, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(3), books)

	authors, err := repo.CountAuthors()
	require.NoError(t, err)
	assert.Equal(t, int64(1), authors)

	englishBooks, err := repo.CountBooksByLanguageName("English")
	require.NoError(t, err)
	assert.Equal(t, int64(1), englishBooks)
}

func TestRepository_UpdateBook_ReplacesGenres(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	fantasy, err := repo.CreateGenre("Fantasy")
	require.NoError(t, err)
	scifi, err := repo.CreateGenre("Science Fiction")
	require.NoError(t, err)

	book := &entities.Book{Title: "Original", Genres: []entities.Genre{*fantasy}}
	require.NoError(t, repo.CreateBook(book))

	book.Title = "Updated"
	book.Genres = []entities.Genre{*scifi}
	require.NoError(t, repo.UpdateBook(book))

	got, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Science Fiction", got.Genres[0].Name)
}
