package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bad-joke/locallibrary/internal/entities"
	"github.com/bad-joke/locallibrary/internal/loans"
)

func seedLoan(t *testing.T, env *testEnv, dueBack *time.Time) *entities.BookInstance {
	t.Helper()
	book := seedBook(t, env, "The Name of the Wind")
	instance := &entities.BookInstance{
		BookID:  &book.ID,
		Imprint: "Gollancz, 2011",
		Status:  entities.StatusOnLoan,
		DueBack: dueBack,
	}
	require.NoError(t, env.instances.Create(instance))
	return instance
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func TestLoansController_RenewForm(t *testing.T) {
	t.Run("prefills the default renewal date", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		instance := seedLoan(t, env, nil)
		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.GET("/catalog/bookinstance/:id/renew", controller.RenewForm)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/bookinstance/"+instance.ID+"/renew", nil)
		router.ServeHTTP(w, req)

		wantDate := loans.DefaultRenewalDate(time.Now()).Format("2006-01-02")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "date:"+wantDate)
	})

	t.Run("returns 404 for unknown copy", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.GET("/catalog/bookinstance/:id/renew", controller.RenewForm)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog/bookinstance/no-such-copy/renew", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Book copy not found")
	})
}

func TestLoansController_Renew(t *testing.T) {
	t.Run("accepts an in-window date and redirects", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		instance := seedLoan(t, env, nil)
		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.POST("/catalog/bookinstance/:id/renew", controller.Renew)

		proposed := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
		w := postForm(router, "/catalog/bookinstance/"+instance.ID+"/renew", url.Values{
			"renewal_date": {proposed},
		})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/borrowed", w.Header().Get("Location"))

		updated, err := env.instances.GetByID(instance.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.DueBack)
		assert.Equal(t, proposed, updated.DueBack.Format("2006-01-02"))
	})

	t.Run("rejects a date past the four week window", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		due := time.Now().AddDate(0, 0, 7)
		instance := seedLoan(t, env, &due)
		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.POST("/catalog/bookinstance/:id/renew", controller.Renew)

		proposed := time.Now().AddDate(0, 0, 35).Format("2006-01-02")
		w := postForm(router, "/catalog/bookinstance/"+instance.ID+"/renew", url.Values{
			"renewal_date": {proposed},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "renewal date is more than 4 weeks ahead")
		assert.Contains(t, w.Body.String(), "date:"+proposed)

		// The stored due date is untouched
		unchanged, err := env.instances.GetByID(instance.ID)
		require.NoError(t, err)
		require.NotNil(t, unchanged.DueBack)
		assert.Equal(t, due.Format("2006-01-02"), unchanged.DueBack.Format("2006-01-02"))
	})

	t.Run("rejects a date in the past", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		instance := seedLoan(t, env, nil)
		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.POST("/catalog/bookinstance/:id/renew", controller.Renew)

		proposed := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		w := postForm(router, "/catalog/bookinstance/"+instance.ID+"/renew", url.Values{
			"renewal_date": {proposed},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "renewal date is in the past")
	})

	t.Run("re-renders on a malformed date", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		instance := seedLoan(t, env, nil)
		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.POST("/catalog/bookinstance/:id/renew", controller.Renew)

		w := postForm(router, "/catalog/bookinstance/"+instance.ID+"/renew", url.Values{
			"renewal_date": {"not-a-date"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Enter a valid date in YYYY-MM-DD format.")
	})

	t.Run("returns 404 for unknown copy", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		controller := NewLoansController(env.instances, loans.NewService(env.instances))
		router := newTestRouter()
		router.POST("/catalog/bookinstance/:id/renew", controller.Renew)

		proposed := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
		w := postForm(router, "/catalog/bookinstance/no-such-copy/renew", url.Values{
			"renewal_date": {proposed},
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLoansController_AllLoans(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	instance := seedLoan(t, env, nil)
	require.NoError(t, env.instances.Create(&entities.BookInstance{
		Status: entities.StatusAvailable,
	}))

	controller := NewLoansController(env.instances, loans.NewService(env.instances))
	router := newTestRouter()
	router.GET("/catalog/borrowed", controller.AllLoans)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog/borrowed", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "["+instance.ID+"]")
	// Only the copy on loan shows up
	assert.Equal(t, 1, strings.Count(w.Body.String(), "["))
}
