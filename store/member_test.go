package store

import (
	"testing"

	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
)

func TestCreateAndGetMember(t *testing.T) {
	s := newTestStore(t)
	created := createTestMember(t, s, "student@school.ac.ke", "REG-300", 50)

	member, err := s.GetMember(&model.FindMember{ID: &created.ID})
	if err != nil {
		t.Fatalf("Failed to get member: %v", err)
	}
	if member == nil {
		t.Fatal("Member not found")
	}
	if member.Email != "student@school.ac.ke" || member.RegNumber != "REG-300" {
		t.Errorf("Unexpected member: %+v", member)
	}
	if member.FeeBalance != 50 {
		t.Errorf("Expected fee balance 50, got %.2f", member.FeeBalance)
	}

	reg := "REG-300"
	member, err = s.GetMember(&model.FindMember{RegNumber: &reg})
	if err != nil {
		t.Fatalf("Failed to get member by registration number: %v", err)
	}
	if member == nil || member.ID != created.ID {
		t.Error("Expected lookup by registration number to find the member")
	}
}

func TestCreateMemberDuplicate(t *testing.T) {
	s := newTestStore(t)
	createTestMember(t, s, "dup@school.ac.ke", "REG-301", 0)

	_, err := s.CreateMember(&model.Member{
		FullName:     "Other Name",
		Email:        "dup@school.ac.ke",
		RegNumber:    "REG-302",
		Role:         model.RoleStudent,
		PasswordHash: "x",
	})
	if err == nil || !isUniqueViolation(err) {
		t.Fatalf("Expected unique violation on duplicate email, got %v", err)
	}
}

func TestUpdateMember(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "before@school.ac.ke", "REG-303", 10)

	updated, err := s.UpdateMember(member.ID, &model.MemberUpdateRequest{
		FullName:   "Renamed Member",
		Email:      "after@school.ac.ke",
		RegNumber:  "REG-303",
		FeeBalance: 0,
	})
	if err != nil {
		t.Fatalf("Failed to update member: %v", err)
	}
	if updated.Email != "after@school.ac.ke" || updated.FullName != "Renamed Member" {
		t.Errorf("Update not applied: %+v", updated)
	}
	if updated.FeeBalance != 0 {
		t.Errorf("Expected fee balance cleared, got %.2f", updated.FeeBalance)
	}

	if _, err := s.UpdateMember(9999, &model.MemberUpdateRequest{FullName: "x", Email: "x@x.com", RegNumber: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing member, got %v", err)
	}
}

func TestSetFeeBalance(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "fees@school.ac.ke", "REG-304", 0)

	updated, err := s.SetFeeBalance(member.ID, 320.75)
	if err != nil {
		t.Fatalf("Failed to set fee balance: %v", err)
	}
	if updated.FeeBalance != 320.75 {
		t.Errorf("Expected fee balance 320.75, got %.2f", updated.FeeBalance)
	}

	// The schema refuses negative balances.
	if _, err := s.SetFeeBalance(member.ID, -1); err == nil {
		t.Error("Expected error on negative fee balance")
	}
}

func TestDeleteMemberBlockedByPendingReservation(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "leaver@school.ac.ke", "REG-305", 0)
	book := createTestBook(t, s, "978-9966-25-092-4", 1, 1)

	reservation, err := s.ReserveBook(member.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}

	if err := s.DeleteMember(member.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState while a hold is pending, got %v", err)
	}

	if _, err := s.CancelReservation(reservation.ID); err != nil {
		t.Fatalf("Failed to cancel reservation: %v", err)
	}
	if err := s.DeleteMember(member.ID); err != nil {
		t.Errorf("Failed to delete member after cancel: %v", err)
	}
	if err := s.DeleteMember(member.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
