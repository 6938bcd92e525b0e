package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bad-joke/locallibrary/internal/entities"
)

type fakeBookCounter struct {
	books   int64
	authors int64
	english int64
	err     error
}

func (f *fakeBookCounter) CountBooks() (int64, error)   { return f.books, f.err }
func (f *fakeBookCounter) CountAuthors() (int64, error) { return f.authors, f.err }
func (f *fakeBookCounter) CountBooksByLanguageName(name string) (int64, error) {
	if name != EnglishLanguageName {
		return 0, nil
	}
	return f.english, f.err
}

type fakeInstanceCounter struct {
	total     int64
	byStatus  map[entities.InstanceStatus]int64
	err       error
	lastQuery entities.InstanceStatus
}

func (f *fakeInstanceCounter) Count() (int64, error) { return f.total, f.err }
func (f *fakeInstanceCounter) CountByStatus(status entities.InstanceStatus) (int64, error) {
	f.lastQuery = status
	return f.byStatus[status], f.err
}

func TestService_Summarize(t *testing.T) {
	books := &fakeBookCounter{books: 5, authors: 3, english: 4}
	instances := &fakeInstanceCounter{
		total: 7,
		byStatus: map[entities.InstanceStatus]int64{
			entities.StatusAvailable: 2,
			entities.StatusOnLoan:    5,
		},
	}

	summary, err := NewService(books, instances).Summarize()

	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.Books)
	assert.Equal(t, int64(7), summary.BookInstances)
	assert.Equal(t, int64(2), summary.AvailableInstances)
	assert.Equal(t, int64(3), summary.Authors)
	assert.Equal(t, int64(4), summary.EnglishBooks)

	// Only the available status is ever queried
	assert.Equal(t, entities.StatusAvailable, instances.lastQuery)
}

func TestService_Summarize_EmptyCatalog(t *testing.T) {
	summary, err := NewService(&fakeBookCounter{}, &fakeInstanceCounter{}).Summarize()

	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestService_Summarize_PropagatesErrors(t *testing.T) {
	boom := errors.New("db gone")

	_, err := NewService(&fakeBookCounter{err: boom}, &fakeInstanceCounter{}).Summarize()
	assert.ErrorIs(t, err, boom)

	_, err = NewService(&fakeBookCounter{}, &fakeInstanceCounter{err: boom}).Summarize()
	assert.ErrorIs(t, err, boom)
}
