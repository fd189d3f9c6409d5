package store

import (
	"testing"
	"time"

	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
)

func borrowTestBook(t *testing.T, s *Store, memberID, bookID int32, loanPeriod time.Duration) *model.Loan {
	t.Helper()

	reservation, err := s.ReserveBook(memberID, bookID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}
	_, loan, err := s.ConfirmPickup(reservation.ID, loanPeriod)
	if err != nil {
		t.Fatalf("Failed to confirm pickup: %v", err)
	}
	return loan
}

func TestReturnLoan(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "borrower@example.com", "REG-100", 0)
	book := createTestBook(t, s, "978-9966-46-910-4", 2, 2)
	loan := borrowTestBook(t, s, member.ID, book.ID, 14*24*time.Hour)

	returned, err := s.ReturnLoan(loan.ID)
	if err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}
	if returned.Status != model.LoanReturned {
		t.Errorf("Expected status %s, got %s", model.LoanReturned, returned.Status)
	}
	if returned.ReturnedAt == nil {
		t.Error("Expected return timestamp to be set")
	}

	if got := mustGetBook(t, s, book.ID).AvailableCopies; got != 2 {
		t.Errorf("Expected 2 available copies after return, got %d", got)
	}

	if _, err := s.ReturnLoan(loan.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState on double return, got %v", err)
	}
	if got := mustGetBook(t, s, book.ID).AvailableCopies; got != 2 {
		t.Errorf("Double return must not change availability, got %d", got)
	}
}

func TestReturnLoanNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ReturnLoan(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestListLoansOverdueOnly(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "latecomer@example.com", "REG-101", 0)
	onTime := createTestBook(t, s, "978-9966-46-910-5", 1, 1)
	late := createTestBook(t, s, "978-9966-46-910-6", 1, 1)

	borrowTestBook(t, s, member.ID, onTime.ID, 14*24*time.Hour)
	overdueLoan := borrowTestBook(t, s, member.ID, late.ID, 14*24*time.Hour)

	// Push the second loan's due date into the past.
	pastDue := time.Now().AddDate(0, 0, -1).Unix()
	if _, err := s.db.Exec(`UPDATE loan SET due_date = ? WHERE id = ?`, pastDue, overdueLoan.ID); err != nil {
		t.Fatalf("Failed to backdate loan: %v", err)
	}

	loans, err := s.ListLoans(&model.FindLoan{OverdueOnly: true})
	if err != nil {
		t.Fatalf("Failed to list overdue loans: %v", err)
	}
	if len(loans) != 1 {
		t.Fatalf("Expected 1 overdue loan, got %d", len(loans))
	}
	if loans[0].ID != overdueLoan.ID {
		t.Errorf("Expected loan %d, got %d", overdueLoan.ID, loans[0].ID)
	}
	if !loans[0].Overdue(time.Now().Unix()) {
		t.Error("Expected loan to report itself overdue")
	}

	// A returned loan is never overdue.
	if _, err := s.ReturnLoan(overdueLoan.ID); err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}
	loans, err = s.ListLoans(&model.FindLoan{OverdueOnly: true})
	if err != nil {
		t.Fatalf("Failed to list overdue loans: %v", err)
	}
	if len(loans) != 0 {
		t.Errorf("Expected no overdue loans after return, got %d", len(loans))
	}
}
