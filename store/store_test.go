package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/store/db"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.NewDB(filepath.Join(t.TempDir(), "maktaba_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return NewStore(database.DB)
}

func createTestMember(t *testing.T, s *Store, email, regNumber string, feeBalance float64) *model.Member {
	t.Helper()

	member, err := s.CreateMember(&model.Member{
		FullName:     "Test Member",
		Email:        email,
		RegNumber:    regNumber,
		Role:         model.RoleStudent,
		PasswordHash: "not-a-real-hash",
		FeeBalance:   feeBalance,
	})
	if err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}
	return member
}

func createTestBook(t *testing.T, s *Store, isbn string, total, available int) *model.Book {
	t.Helper()

	book, err := s.CreateBook(&model.Book{
		Title:           "Things Fall Apart",
		Author:          "Chinua Achebe",
		ISBN:            isbn,
		Category:        "Fiction",
		Description:     "A novel",
		Tags:            "classic,african",
		PublishedYear:   1958,
		TotalCopies:     total,
		AvailableCopies: available,
	})
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	return book
}

func mustGetBook(t *testing.T, s *Store, id int32) *model.Book {
	t.Helper()

	book, err := s.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if book == nil {
		t.Fatalf("Book %d not found", id)
	}
	return book
}
