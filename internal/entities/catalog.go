package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstanceStatus is the loan status of a single book copy.
// The single-character codes are stored as-is in the database.
type InstanceStatus string

const (
	StatusMaintenance InstanceStatus = "m"
	StatusOnLoan      InstanceStatus = "o"
	StatusAvailable   InstanceStatus = "a"
	StatusReserved    InstanceStatus = "r"
)

// ValidInstanceStatuses is the closed set of accepted status codes.
var ValidInstanceStatuses = map[InstanceStatus]bool{
	StatusMaintenance: true,
	StatusOnLoan:      true,
	StatusAvailable:   true,
	StatusReserved:    true,
}

// Label returns the human-readable name for a status code.
func (s InstanceStatus) Label() string {
	switch s {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	default:
		return "Unknown"
	}
}

// Genre classifies books (e.g. "Science Fiction", "Military History").
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name"`
	Books     []Book    `gorm:"many2many:book_genres;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Language is the language a book is written in. A book references at
// most one language.
type Language struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Author is a book author. Deleting an author does not delete their
// books; the dependent book rows get a null author reference instead.
type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"index;size:100" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Name returns the author's display name in "Last, First" form.
func (a *Author) Name() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

// Book represents a title/work, not a physical copy. Author and
// Language references are nullable and survive deletion of the
// referenced record.
type Book struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"index;size:200" json:"title"`
	AuthorID   *uint     `gorm:"index" json:"author_id,omitempty"`
	Author     *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Summary    string    `gorm:"size:1000" json:"summary"`
	ISBN       string    `gorm:"index;size:13" json:"isbn"`
	Genres     []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	LanguageID *uint     `gorm:"index" json:"language_id,omitempty"`
	Language   *Language `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookInstance is one physical, lendable copy of a book with its own
// loan status and due date. Its identity is a random UUID assigned at
// creation and never reassigned.
type BookInstance struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	BookID     *uint          `gorm:"index" json:"book_id,omitempty"`
	Book       *Book          `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Imprint    string         `gorm:"size:200" json:"imprint"`
	DueBack    *time.Time     `json:"due_back,omitempty"`
	Status     InstanceStatus `gorm:"index;size:1;default:'m'" json:"status"`
	BorrowerID *uint          `gorm:"index" json:"borrower_id,omitempty"`
	Borrower   *User          `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a random UUID if the caller did not supply one.
func (bi *BookInstance) BeforeCreate(_ *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	return nil
}

// OverdueAt reports whether the instance's due date is strictly before
// the given day. Overdue state is derived at read time, never stored,
// so it is always consistent with the caller's clock.
func (bi *BookInstance) OverdueAt(today time.Time) bool {
	if bi.DueBack == nil {
		return false
	}
	due := DateOnly(*bi.DueBack)
	return due.Before(DateOnly(today))
}

// IsOverdue reports whether the instance is overdue right now.
func (bi *BookInstance) IsOverdue() bool {
	return bi.OverdueAt(time.Now())
}

// DateOnly truncates a timestamp to midnight of the same day, keeping
// the location. Loan due dates have day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (Genre) TableName() string {
	return "genres"
}

func (Language) TableName() string {
	return "languages"
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}

func (BookInstance) TableName() string {
	return "book_instances"
}
