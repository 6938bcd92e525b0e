// Package instances provides database operations for book copies
// (BookInstance rows): creation, status counts, loan listings and the
// due-date update used by the renewal workflow.
//
// Loan listings sort ascending by due date with null due dates last,
// so copies without a date never push real deadlines off the first
// page.
package instances

import (
	"time"

	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
	"gorm.io/gorm"
)

// dueBackAscNullsLast orders loans by due date; SQLite sorts nulls
// first by default, so the IS NULL term forces them to the end.
const dueBackAscNullsLast = "due_back IS NULL, due_back ASC"

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new copy. A UUID is assigned if the caller did not
// supply one; the identity is never reassigned afterwards.
func (r *Repository) Create(instance *entities.BookInstance) error {
	return r.db.Create(instance).Error
}

// GetByID retrieves a copy with its book and borrower preloaded.
func (r *Repository) GetByID(id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.Preload("Book").Preload("Book.Author").Preload("Borrower").
		Where("id = ?", id).
		First(&instance).Error
	if err != nil {
		return nil, database.AsNotFound(err)
	}
	return &instance, nil
}

// Count returns the total number of copies.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

// CountByStatus counts copies with the given status code.
func (r *Repository) CountByStatus(status entities.InstanceStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// ListForBook retrieves every copy of one book, due dates first.
// Used by the book detail page.
func (r *Repository) ListForBook(bookID uint) ([]entities.BookInstance, error) {
	var copies []entities.BookInstance
	err := r.db.Where("book_id = ?", bookID).
		Order(dueBackAscNullsLast).
		Find(&copies).Error
	return copies, err
}

// ListLoansForBorrower returns one page of copies currently on loan to
// the given user, ordered ascending by due date.
func (r *Repository) ListLoansForBorrower(userID uint, page int) ([]entities.BookInstance, database.Pagination, error) {
	query := r.db.Model(&entities.BookInstance{}).
		Where("borrower_id = ? AND status = ?", userID, entities.StatusOnLoan)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}
	pagination := database.NewPagination(page, database.DefaultPageSize, total)

	var loans []entities.BookInstance
	err := r.db.Preload("Book").
		Where("borrower_id = ? AND status = ?", userID, entities.StatusOnLoan).
		Order(dueBackAscNullsLast).
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Find(&loans).Error
	return loans, pagination, err
}

// ListActiveLoans returns one page of every copy currently on loan,
// regardless of borrower, ordered ascending by due date. Callers must
// hold the view-all-loans capability; that check is the HTTP shell's
// responsibility, not this layer's.
func (r *Repository) ListActiveLoans(page int) ([]entities.BookInstance, database.Pagination, error) {
	var total int64
	err := r.db.Model(&entities.BookInstance{}).
		Where("status = ?", entities.StatusOnLoan).
		Count(&total).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}
	pagination := database.NewPagination(page, database.DefaultPageSize, total)

	var loans []entities.BookInstance
	err = r.db.Preload("Book").Preload("Borrower").
		Where("status = ?", entities.StatusOnLoan).
		Order(dueBackAscNullsLast).
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Find(&loans).Error
	return loans, pagination, err
}

// UpdateDueBack overwrites the due date of one copy and nothing else.
// Status and borrower are untouched; renewal does not return a book.
func (r *Repository) UpdateDueBack(id string, dueBack time.Time) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).
		Update("due_back", dueBack)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UpdateStatus sets the status code of one copy.
func (r *Repository) UpdateStatus(id string, status entities.InstanceStatus) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Save persists all fields of an existing copy.
func (r *Repository) Save(instance *entities.BookInstance) error {
	return r.db.Save(instance).Error
}

// Delete removes a copy permanently.
func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&entities.BookInstance{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
