// Package cli implements the maintenance subcommands that run outside
// the HTTP server: account creation and demo catalog seeding.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/bad-joke/locallibrary/internal/auth"
	"github.com/bad-joke/locallibrary/internal/config"
	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// CreateUserCommand creates a library account from the terminal.
// Useful for bootstrapping an admin without going through /setup, and
// for adding librarian accounts.
type CreateUserCommand struct {
	DatabasePath string
	Username     string
	Email        string
	Role         string
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("createuser", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email for the new account (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleMember), "Account role: member, librarian or admin")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s createuser [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a library account. The password is prompted interactively\n")
		fmt.Fprintf(os.Stderr, "and never echoed to the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s createuser -username alice -email alice@example.org -role librarian\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s createuser -db /data/library.db -username admin -email admin@example.org -role admin\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("username is required")
	}
	if cmd.Email == "" {
		return fmt.Errorf("email is required")
	}

	role := entities.UserRole(cmd.Role)
	switch role {
	case entities.UserRoleMember, entities.UserRoleLibrarian, entities.UserRoleAdmin:
	default:
		return fmt.Errorf("invalid role %q: must be member, librarian or admin", cmd.Role)
	}

	return nil
}

// Run executes the createuser command
func (cmd *CreateUserCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser(cmd.Username, cmd.Email, password, entities.UserRole(cmd.Role))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created %s account %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}

// promptPassword reads the password twice without echo and makes sure
// both entries match.
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimRight(string(first), "\r\n")
	if password != strings.TrimRight(string(second), "\r\n") {
		return "", fmt.Errorf("passwords do not match")
	}

	return password, nil
}
