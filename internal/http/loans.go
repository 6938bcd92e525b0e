package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bad-joke/locallibrary/internal/auth"
	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
	"github.com/bad-joke/locallibrary/internal/loans"
)

// loanLister defines the loan queries the borrowed-books pages need.
type loanLister interface {
	GetByID(id string) (*entities.BookInstance, error)
	ListLoansForBorrower(userID uint, page int) ([]entities.BookInstance, database.Pagination, error)
	ListActiveLoans(page int) ([]entities.BookInstance, database.Pagination, error)
}

// LoansController serves the borrowed-books pages and the loan renewal
// form. Route-level middleware guards access: MyLoans needs a signed-in
// user, AllLoans and the renewal endpoints need a librarian.
type LoansController struct {
	loans    loanLister
	renewals Renewer
}

// NewLoansController creates a new loans controller.
func NewLoansController(lister loanLister, renewals Renewer) *LoansController {
	return &LoansController{
		loans:    lister,
		renewals: renewals,
	}
}

// MyLoans renders the signed-in user's borrowed copies, earliest due
// date first.
func (lc *LoansController) MyLoans(c *gin.Context) {
	userID := GetUserID(c)

	page := parsePageQuery(c)
	borrowed, pagination, err := lc.loans.ListLoansForBorrower(userID, page)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading loans: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "my_loans", gin.H{
		"Title":      "My Borrowed Books",
		"Loans":      borrowed,
		"Pagination": pagination,
		"Today":      entities.DateOnly(time.Now()),
		"Username":   auth.GetUsername(c),
		"Role":       auth.GetUserRole(c),
	})
}

// AllLoans renders every copy currently on loan across the whole
// library, with borrower names, for librarians.
func (lc *LoansController) AllLoans(c *gin.Context) {
	page := parsePageQuery(c)
	borrowed, pagination, err := lc.loans.ListActiveLoans(page)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading loans: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "all_loans", gin.H{
		"Title":      "All Borrowed Books",
		"Loans":      borrowed,
		"Pagination": pagination,
		"Today":      entities.DateOnly(time.Now()),
		"Username":   auth.GetUsername(c),
		"Role":       auth.GetUserRole(c),
	})
}

// RenewForm renders the renewal form for one copy, pre-filled with a
// proposed due date three weeks out.
func (lc *LoansController) RenewForm(c *gin.Context) {
	id := c.Param("id")

	instance, err := lc.loans.GetByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			c.String(http.StatusNotFound, "Book copy not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading copy: %s", err.Error())
		return
	}

	lc.renderRenewForm(c, instance, loans.DefaultRenewalDate(time.Now()), "")
}

// Renew handles the renewal form submission. Validation failures
// re-render the form with the rejected date and a field error; nothing
// is written in that case.
func (lc *LoansController) Renew(c *gin.Context) {
	id := c.Param("id")

	proposed, perr := time.Parse(dateLayout, c.PostForm("renewal_date"))
	if perr != nil {
		instance, err := lc.loans.GetByID(id)
		if err != nil {
			if database.IsNotFound(err) {
				c.String(http.StatusNotFound, "Book copy not found")
				return
			}
			c.String(http.StatusInternalServerError, "Error loading copy: %s", err.Error())
			return
		}
		lc.renderRenewForm(c, instance, loans.DefaultRenewalDate(time.Now()), "Enter a valid date in YYYY-MM-DD format.")
		return
	}

	_, err := lc.renewals.Renew(id, proposed)
	if err != nil {
		var verr *loans.ValidationError
		if errors.As(err, &verr) {
			instance, gerr := lc.loans.GetByID(id)
			if gerr != nil {
				c.String(http.StatusInternalServerError, "Error loading copy: %s", gerr.Error())
				return
			}
			lc.renderRenewForm(c, instance, proposed, verr.Message)
			return
		}
		if database.IsNotFound(err) {
			c.String(http.StatusNotFound, "Book copy not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error renewing loan: %s", err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/catalog/borrowed")
}

func (lc *LoansController) renderRenewForm(c *gin.Context, instance *entities.BookInstance, proposed time.Time, errorMsg string) {
	c.HTML(http.StatusOK, "renew_form", gin.H{
		"Title":       "Renew Loan",
		"Instance":    instance,
		"RenewalDate": proposed.Format(dateLayout),
		"Error":       errorMsg,
		"CSRFToken":   auth.GetCSRFToken(c),
		"Username":    auth.GetUsername(c),
		"Role":        auth.GetUserRole(c),
	})
}
