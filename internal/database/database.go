package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bad-joke/locallibrary/internal/entities"
)

// ErrNotFound is returned by repositories when an identifier does not
// resolve to an existing record.
var ErrNotFound = errors.New("record not found")

// defaultLanguages are seeded on first start so that books entered
// without an explicit language can default to English.
var defaultLanguages = []entities.Language{
	{Name: "English"},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Genre{},
		&entities.Language{},
		&entities.Author{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedLanguages(); err != nil {
		return nil, fmt.Errorf("failed to seed languages: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedLanguages() error {
	for _, language := range defaultLanguages {
		var existing entities.Language
		result := d.DB.Where("name = ?", language.Name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&language).Error; err != nil {
				return fmt.Errorf("failed to create language %s: %w", language.Name, err)
			}
			log.Printf("Created language: %s", language.Name)
		}
	}
	return nil
}

// AsNotFound translates gorm's record-not-found error to the package
// sentinel so callers never depend on gorm directly.
func AsNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IsNotFound reports whether err means a record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
