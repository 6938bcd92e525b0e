package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bad-joke/locallibrary/internal/catalog"
	"github.com/bad-joke/locallibrary/internal/database"
	catalogdb "github.com/bad-joke/locallibrary/internal/database/catalog"
	"github.com/bad-joke/locallibrary/internal/database/instances"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// testEnv bundles the repositories the controller tests need.
type testEnv struct {
	db        *database.Database
	catalog   *catalogdb.Repository
	instances *instances.Repository
	summary   *catalog.Service
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	catalogRepo := catalogdb.NewRepository(db.DB)
	instanceRepo := instances.NewRepository(db.DB)

	env := &testEnv{
		db:        db,
		catalog:   catalogRepo,
		instances: instanceRepo,
		summary:   catalog.NewService(catalogRepo, instanceRepo),
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

// createTestTemplates defines minimal named templates so HTML handlers
// can render without the real template files.
func createTestTemplates() *template.Template {
	const defs = `
{{define "index"}}visits:{{.NumVisits}} books:{{.Summary.Books}} available:{{.Summary.AvailableInstances}}{{end}}
{{define "book_list"}}{{range .Books}}[{{.Title}}]{{end}} page:{{.Pagination.Page}}/{{.Pagination.TotalPages}}{{end}}
{{define "book_detail"}}{{.Book.Title}} copies:{{len .Copies}}{{end}}
{{define "author_list"}}{{range .Authors}}[{{.Name}}]{{end}} page:{{.Pagination.Page}}/{{.Pagination.TotalPages}}{{end}}
{{define "author_detail"}}{{.Author.Name}} books:{{len .Books}}{{end}}
{{define "my_loans"}}{{range .Loans}}[{{.ID}}]{{end}}{{end}}
{{define "all_loans"}}{{range .Loans}}[{{.ID}}]{{end}}{{end}}
{{define "renew_form"}}date:{{.RenewalDate}} error:{{.Error}}{{end}}
`
	return template.Must(template.New("").Parse(defs))
}

func newTestRouter() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(createTestTemplates())
	return router
}

func seedBook(t *testing.T, env *testEnv, title string) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title}
	require.NoError(t, env.catalog.CreateBook(book))
	return book
}

func TestCatalogController_Index(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	author := &entities.Author{FirstName: "Patrick", LastName: "Rothfuss"}
	require.NoError(t, env.catalog.CreateAuthor(author))
	book := seedBook(t, env, "The Name of the Wind")
	require.NoError(t, env.instances.Create(&entities.BookInstance{
		BookID: &book.ID, Status: entities.StatusAvailable,
	}))
	require.NoError(t, env.instances.Create(&entities.BookInstance{
		BookID: &book.ID, Status: entities.StatusOnLoan,
	}))

	controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
	router := newTestRouter()
	router.GET("/catalog/", controller.Index)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Visit counter is zero without a session manager
	assert.Contains(t, w.Body.String(), "visits:0")
	assert.Contains(t, w.Body.String(), "books:1")
	assert.Contains(t, w.Body.String(), "available:1")
}

func TestCatalogController_BookList(t *testing.T) {
	t.Run("lists books in title order", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		seedBook(t, env, "Zebra")
		seedBook(t, env, "Alpha")

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/books", controller.BookList)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[Alpha][Zebra] page:1/1", strings.TrimSpace(w.Body.String()))
	})

	t.Run("paginates at ten per page", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		for i := 0; i < 13; i++ {
			seedBook(t, env, "Book "+string(rune('A'+i)))
		}

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/books", controller.BookList)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/books?page=2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "page:2/2")
		assert.Equal(t, 3, strings.Count(w.Body.String(), "[Book"))
	})

	t.Run("malformed page falls back to the first", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		seedBook(t, env, "Only Book")

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/books", controller.BookList)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/books?page=banana", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "page:1/1")
	})
}

func TestCatalogController_BookDetail(t *testing.T) {
	t.Run("renders book with its copies", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		book := seedBook(t, env, "Apes and Angels")
		require.NoError(t, env.instances.Create(&entities.BookInstance{BookID: &book.ID}))

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/book/:id", controller.BookDetail)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/book/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Apes and Angels")
		assert.Contains(t, w.Body.String(), "copies:1")
	})

	t.Run("returns 404 for unknown book", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/book/:id", controller.BookDetail)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/book/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Book not found")
	})

	t.Run("returns 400 for malformed id", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/book/:id", controller.BookDetail)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/book/abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogController_AuthorDetail(t *testing.T) {
	t.Run("renders author with their books", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		author := &entities.Author{FirstName: "Ben", LastName: "Bova"}
		require.NoError(t, env.catalog.CreateAuthor(author))
		require.NoError(t, env.catalog.CreateBook(&entities.Book{Title: "Apes and Angels", AuthorID: &author.ID}))

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/author/:id", controller.AuthorDetail)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/author/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Bova, Ben")
		assert.Contains(t, w.Body.String(), "books:1")
	})

	t.Run("returns 404 for unknown author", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		controller := NewCatalogController(env.catalog, env.instances, env.summary, nil)
		router := newTestRouter()
		router.GET("/catalog/author/:id", controller.AuthorDetail)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/author/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Author not found")
	})
}
