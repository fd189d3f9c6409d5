package validator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/store"
	"github.com/maktaba-io/maktaba/store/db"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	database, err := db.NewDB(filepath.Join(t.TempDir(), "maktaba_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return store.NewStore(database.DB)
}

func hasFieldError(verr *store.ValidationError, field string) bool {
	for _, f := range verr.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestValidateMemberCreateRequest(t *testing.T) {
	s := newTestStore(t)

	verr := ValidateMemberCreateRequest(s, &model.MemberCreateRequest{
		FullName:  "Wanjiku Kamau",
		Email:     "wanjiku@school.ac.ke",
		RegNumber: "S-001",
	})
	if verr.HasErrors() {
		t.Fatalf("Expected valid request, got %v", verr)
	}
	if verr.Op != OpMemberAdding {
		t.Errorf("Expected operation %s, got %s", OpMemberAdding, verr.Op)
	}

	verr = ValidateMemberCreateRequest(s, &model.MemberCreateRequest{
		Email:      "not-an-email",
		FeeBalance: -1,
	})
	if !hasFieldError(verr, "full_name") || !hasFieldError(verr, "email") ||
		!hasFieldError(verr, "reg_number") || !hasFieldError(verr, "fee_balance") {
		t.Errorf("Expected errors on all invalid fields, got %v", verr.Fields)
	}
}

func TestValidateMemberUpdateRequestUniqueness(t *testing.T) {
	s := newTestStore(t)

	existing, err := s.CreateMember(&model.Member{
		FullName:     "Existing Member",
		Email:        "existing@school.ac.ke",
		RegNumber:    "S-010",
		Role:         model.RoleStudent,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}
	edited, err := s.CreateMember(&model.Member{
		FullName:     "Edited Member",
		Email:        "edited@school.ac.ke",
		RegNumber:    "S-011",
		Role:         model.RoleStudent,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}

	// Taking another member's email is rejected.
	verr := ValidateMemberUpdateRequest(s, edited.ID, &model.MemberUpdateRequest{
		FullName:  edited.FullName,
		Email:     existing.Email,
		RegNumber: edited.RegNumber,
	})
	if !hasFieldError(verr, "email") {
		t.Errorf("Expected email uniqueness error, got %v", verr.Fields)
	}
	if verr.Op != OpMemberEditing {
		t.Errorf("Expected operation %s, got %s", OpMemberEditing, verr.Op)
	}

	// Keeping your own email is not a conflict.
	verr = ValidateMemberUpdateRequest(s, edited.ID, &model.MemberUpdateRequest{
		FullName:  edited.FullName,
		Email:     edited.Email,
		RegNumber: edited.RegNumber,
	})
	if verr.HasErrors() {
		t.Errorf("Expected no errors editing own record, got %v", verr.Fields)
	}
}

func TestValidateBookCreateRequest(t *testing.T) {
	s := newTestStore(t)

	verr := ValidateBookCreateRequest(s, &model.BookCreateRequest{
		Title:           "Things Fall Apart",
		Author:          "Chinua Achebe",
		ISBN:            "978-0-385-47454-2",
		Category:        "Fiction",
		PublishedYear:   1958,
		TotalCopies:     3,
		AvailableCopies: 3,
	})
	if verr.HasErrors() {
		t.Fatalf("Expected valid request, got %v", verr)
	}

	verr = ValidateBookCreateRequest(s, &model.BookCreateRequest{
		Title:           "Bad Book",
		Author:          "Somebody",
		ISBN:            "978-0-385-47454-3",
		Category:        "Fiction",
		PublishedYear:   1958,
		TotalCopies:     2,
		AvailableCopies: 5,
	})
	if !hasFieldError(verr, "available_copies") {
		t.Errorf("Expected error when available exceeds total, got %v", verr.Fields)
	}

	verr = ValidateBookCreateRequest(s, &model.BookCreateRequest{})
	for _, field := range []string{"title", "author", "isbn", "category", "published_year"} {
		if !hasFieldError(verr, field) {
			t.Errorf("Expected error on %s, got %v", field, verr.Fields)
		}
	}
}
