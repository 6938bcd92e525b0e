// Package catalog exposes the read-only aggregate view shown on the
// home page. Counts are recomputed from the store on every call; there
// is no cache, so the numbers always reflect current persisted state.
package catalog

import "github.com/bad-joke/locallibrary/internal/entities"

// EnglishLanguageName is the language tracked by the home-page
// English-books counter.
const EnglishLanguageName = "English"

// BookCounter provides aggregate counts over books and authors.
// Implemented by internal/database/catalog.Repository.
type BookCounter interface {
	CountBooks() (int64, error)
	CountAuthors() (int64, error)
	CountBooksByLanguageName(name string) (int64, error)
}

// InstanceCounter provides aggregate counts over book copies.
// Implemented by internal/database/instances.Repository.
type InstanceCounter interface {
	Count() (int64, error)
	CountByStatus(status entities.InstanceStatus) (int64, error)
}

// Summary is the set of home-page statistics.
type Summary struct {
	Books              int64 `json:"num_books"`
	BookInstances      int64 `json:"num_instances"`
	AvailableInstances int64 `json:"num_instances_available"`
	Authors            int64 `json:"num_authors"`
	EnglishBooks       int64 `json:"num_books_english"`
}

// Service computes catalog summaries.
type Service struct {
	books     BookCounter
	instances InstanceCounter
}

// NewService creates a summary service over the two count sources.
func NewService(books BookCounter, instances InstanceCounter) *Service {
	return &Service{books: books, instances: instances}
}

// Summarize gathers all home-page counts in one pass.
func (s *Service) Summarize() (Summary, error) {
	var summary Summary
	var err error

	if summary.Books, err = s.books.CountBooks(); err != nil {
		return Summary{}, err
	}
	if summary.BookInstances, err = s.instances.Count(); err != nil {
		return Summary{}, err
	}
	if summary.AvailableInstances, err = s.instances.CountByStatus(entities.StatusAvailable); err != nil {
		return Summary{}, err
	}
	if summary.Authors, err = s.books.CountAuthors(); err != nil {
		return Summary{}, err
	}
	if summary.EnglishBooks, err = s.books.CountBooksByLanguageName(EnglishLanguageName); err != nil {
		return Summary{}, err
	}

	return summary, nil
}
