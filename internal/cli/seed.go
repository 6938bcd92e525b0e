package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bad-joke/locallibrary/internal/config"
	"github.com/bad-joke/locallibrary/internal/database"
	catalogdb "github.com/bad-joke/locallibrary/internal/database/catalog"
	"github.com/bad-joke/locallibrary/internal/database/instances"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// SeedCommand fills a database with a small demo catalog: a handful of
// genres, authors, books and physical copies in various loan states.
type SeedCommand struct {
	DatabasePath string
	Verbose      bool
}

// NewSeedCommand creates a new SeedCommand
func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every created record")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Seed the database with a demo catalog for local development.\n")
		fmt.Fprintf(os.Stderr, "Safe to run once against a fresh database; duplicate runs will\n")
		fmt.Fprintf(os.Stderr, "fail on the unique genre and language names.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -db /tmp/demo.db -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the seed command
func (cmd *SeedCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Seeding demo catalog into %s\n", absDBPath)

	catalog := catalogdb.NewRepository(db.DB)
	copies := instances.NewRepository(db.DB)

	// Genres
	genreNames := []string{"Fantasy", "Science Fiction", "French Poetry"}
	genres := make(map[string]*entities.Genre, len(genreNames))
	for _, name := range genreNames {
		genre, err := catalog.CreateGenre(name)
		if err != nil {
			return fmt.Errorf("failed to create genre %q: %w", name, err)
		}
		genres[name] = genre
		if cmd.Verbose {
			fmt.Printf("  genre: %s\n", name)
		}
	}

	// Languages beyond the seeded English default
	french, err := catalog.CreateLanguage("French")
	if err != nil {
		return fmt.Errorf("failed to create language: %w", err)
	}
	english, err := englishLanguage(catalog)
	if err != nil {
		return err
	}

	// Authors
	authors := []*entities.Author{
		{FirstName: "Patrick", LastName: "Rothfuss", DateOfBirth: date(1973, 6, 6)},
		{FirstName: "Ben", LastName: "Bova", DateOfBirth: date(1932, 11, 8), DateOfDeath: date(2020, 11, 29)},
		{FirstName: "Isaac", LastName: "Asimov", DateOfBirth: date(1920, 1, 2), DateOfDeath: date(1992, 4, 6)},
		{FirstName: "Bob", LastName: "Billings"},
		{FirstName: "Jim", LastName: "Jones", DateOfBirth: date(1971, 12, 16)},
	}
	for _, author := range authors {
		if err := catalog.CreateAuthor(author); err != nil {
			return fmt.Errorf("failed to create author %s: %w", author.Name(), err)
		}
		if cmd.Verbose {
			fmt.Printf("  author: %s\n", author.Name())
		}
	}

	// Books
	books := []*entities.Book{
		{
			Title:      "The Name of the Wind (The Kingkiller Chronicle, #1)",
			Summary:    "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon. I have spent the night with Felurian and left with both my sanity and my life. I was expelled from the University at a younger age than most people are allowed in. I tread paths by moonlight that others fear to speak of during day. I have talked to Gods, loved women, and written songs that make the minstrels weep.",
			ISBN:       "9781473211896",
			AuthorID:   &authors[0].ID,
			LanguageID: &english.ID,
			Genres:     []entities.Genre{*genres["Fantasy"]},
		},
		{
			Title:      "The Wise Man's Fear (The Kingkiller Chronicle, #2)",
			Summary:    "Picking up the tale of Kvothe Kingkiller once again, we follow him into exile, into political intrigue, courtship, adventure, love and magic.",
			ISBN:       "9788401352836",
			AuthorID:   &authors[0].ID,
			LanguageID: &english.ID,
			Genres:     []entities.Genre{*genres["Fantasy"]},
		},
		{
			Title:      "Apes and Angels",
			Summary:    "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity. Humans went to the stars in a desperate crusade to save intelligent life wherever they found it.",
			ISBN:       "9780765379528",
			AuthorID:   &authors[1].ID,
			LanguageID: &english.ID,
			Genres:     []entities.Genre{*genres["Science Fiction"]},
		},
		{
			Title:      "The Death of the Necromancer",
			Summary:    "Nicholas Valiarde is a passionate, embittered nobleman with an enigmatic past. Consumed by thoughts of vengeance, he is consoled only by thoughts of the beautiful, dangerous Madeline.",
			ISBN:       "9780765303943",
			AuthorID:   &authors[3].ID,
			LanguageID: &english.ID,
			Genres:     []entities.Genre{*genres["Fantasy"]},
		},
		{
			Title:      "Test Book 1",
			Summary:    "Summary of test book 1",
			ISBN:       "4444444444444",
			AuthorID:   &authors[4].ID,
			LanguageID: &french.ID,
			Genres:     []entities.Genre{*genres["Fantasy"], *genres["French Poetry"]},
		},
	}
	for _, book := range books {
		if err := catalog.CreateBook(book); err != nil {
			return fmt.Errorf("failed to create book %q: %w", book.Title, err)
		}
		if cmd.Verbose {
			fmt.Printf("  book: %s\n", book.Title)
		}
	}

	// Copies, with a spread of statuses and due dates
	today := entities.DateOnly(time.Now())
	nextWeek := today.AddDate(0, 0, 7)
	lastWeek := today.AddDate(0, 0, -7)

	demoCopies := []*entities.BookInstance{
		{BookID: &books[0].ID, Imprint: "London Gollancz, 2014.", Status: entities.StatusAvailable},
		{BookID: &books[0].ID, Imprint: "London Gollancz, 2014.", Status: entities.StatusOnLoan, DueBack: &nextWeek},
		{BookID: &books[1].ID, Imprint: "Gollancz, 2011.", Status: entities.StatusOnLoan, DueBack: &lastWeek},
		{BookID: &books[2].ID, Imprint: "New York Tom Doherty Associates, 2016.", Status: entities.StatusAvailable},
		{BookID: &books[2].ID, Imprint: "New York Tom Doherty Associates, 2016.", Status: entities.StatusMaintenance},
		{BookID: &books[3].ID, Imprint: "New York, NY Tom Doherty Associates, LLC, 1998.", Status: entities.StatusReserved},
		{BookID: &books[4].ID, Imprint: "Imprint XXX2", Status: entities.StatusAvailable},
	}
	for _, instance := range demoCopies {
		if err := copies.Create(instance); err != nil {
			return fmt.Errorf("failed to create copy of book %d: %w", *instance.BookID, err)
		}
		if cmd.Verbose {
			fmt.Printf("  copy: %s (%s)\n", instance.ID, instance.Status.Label())
		}
	}

	fmt.Printf("Seeded %d genres, %d authors, %d books, %d copies\n",
		len(genreNames), len(authors), len(books), len(demoCopies))
	return nil
}

// englishLanguage finds the English row that database initialization
// seeds on first start.
func englishLanguage(catalog *catalogdb.Repository) (*entities.Language, error) {
	languages, err := catalog.ListLanguages()
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	for i := range languages {
		if languages[i].Name == "English" {
			return &languages[i], nil
		}
	}
	return nil, fmt.Errorf("English language row missing; database not initialized")
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
