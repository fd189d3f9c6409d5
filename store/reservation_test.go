package store

import (
	"sync"
	"testing"
	"time"

	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
)

func TestReserveBook(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "wanjiku@example.com", "REG-001", 0)
	book := createTestBook(t, s, "978-0-385-47454-2", 3, 3)

	reservation, err := s.ReserveBook(member.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}
	if reservation.Status != model.ReservationPending {
		t.Errorf("Expected status %s, got %s", model.ReservationPending, reservation.Status)
	}
	if reservation.MemberID != member.ID || reservation.BookID != book.ID {
		t.Errorf("Reservation references wrong member or book: %+v", reservation)
	}

	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 2 {
		t.Errorf("Expected 2 available copies after reserve, got %d", book.AvailableCopies)
	}
	if book.TotalCopies != 3 {
		t.Errorf("Total copies must not change on reserve, got %d", book.TotalCopies)
	}
}

func TestReserveBookUnavailable(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "otieno@example.com", "REG-002", 0)
	book := createTestBook(t, s, "978-0-385-47454-3", 2, 0)

	_, err := s.ReserveBook(member.ID, book.ID)
	if !errors.Is(err, ErrBookUnavailable) {
		t.Fatalf("Expected ErrBookUnavailable, got %v", err)
	}

	// The failed attempt must leave no trace.
	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 0 {
		t.Errorf("Available copies changed on failed reserve, got %d", book.AvailableCopies)
	}
	reservations, err := s.ListReservations(&model.FindReservation{BookID: &book.ID})
	if err != nil {
		t.Fatalf("Failed to list reservations: %v", err)
	}
	if len(reservations) != 0 {
		t.Errorf("Expected no reservations, got %d", len(reservations))
	}
}

func TestReserveBookDuplicate(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "akinyi@example.com", "REG-003", 0)
	book := createTestBook(t, s, "978-0-385-47454-4", 3, 3)

	if _, err := s.ReserveBook(member.ID, book.ID); err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}
	_, err := s.ReserveBook(member.ID, book.ID)
	if !errors.Is(err, ErrDuplicateReservation) {
		t.Fatalf("Expected ErrDuplicateReservation, got %v", err)
	}

	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 2 {
		t.Errorf("Duplicate attempt must not decrement, got %d available", book.AvailableCopies)
	}
}

func TestReserveBookMissingMemberOrBook(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "njeri@example.com", "REG-004", 0)
	book := createTestBook(t, s, "978-0-385-47454-5", 1, 1)

	if _, err := s.ReserveBook(9999, book.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing member, got %v", err)
	}
	if _, err := s.ReserveBook(member.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing book, got %v", err)
	}
}

func TestCancelReservationRestoresAvailability(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "kamau@example.com", "REG-005", 0)
	book := createTestBook(t, s, "978-0-385-47454-6", 3, 3)

	reservation, err := s.ReserveBook(member.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}

	cancelled, err := s.CancelReservation(reservation.ID)
	if err != nil {
		t.Fatalf("Failed to cancel reservation: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("Expected status %s, got %s", model.ReservationCancelled, cancelled.Status)
	}

	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 3 {
		t.Errorf("Expected availability restored to 3, got %d", book.AvailableCopies)
	}

	// A cancelled reservation is terminal.
	if _, err := s.CancelReservation(reservation.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState on second cancel, got %v", err)
	}
	if _, _, err := s.ConfirmPickup(reservation.ID, 14*24*time.Hour); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState on confirm after cancel, got %v", err)
	}
}

func TestConfirmPickupCreatesLoan(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "mwangi@example.com", "REG-006", 0)
	book := createTestBook(t, s, "978-0-385-47454-7", 2, 2)

	reservation, err := s.ReserveBook(member.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}

	loanPeriod := 14 * 24 * time.Hour
	confirmed, loan, err := s.ConfirmPickup(reservation.ID, loanPeriod)
	if err != nil {
		t.Fatalf("Failed to confirm pickup: %v", err)
	}
	if confirmed.Status != model.ReservationConfirmedPickup {
		t.Errorf("Expected status %s, got %s", model.ReservationConfirmedPickup, confirmed.Status)
	}
	if loan == nil {
		t.Fatal("Expected a loan to be created with the confirmation")
	}
	if loan.Status != model.LoanBorrowed {
		t.Errorf("Expected loan status %s, got %s", model.LoanBorrowed, loan.Status)
	}
	if loan.MemberID != member.ID || loan.BookID != book.ID {
		t.Errorf("Loan references wrong member or book: %+v", loan)
	}
	if loan.ReturnedAt != nil {
		t.Errorf("New loan must not have a return timestamp, got %v", *loan.ReturnedAt)
	}
	if got := loan.DueDate - loan.BorrowedAt; got != int64(loanPeriod.Seconds()) {
		t.Errorf("Expected due date %d seconds after borrow, got %d", int64(loanPeriod.Seconds()), got)
	}

	// Confirmation hands over the already-held unit; availability is unchanged.
	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 1 {
		t.Errorf("Expected 1 available copy after confirm, got %d", book.AvailableCopies)
	}

	// confirmed_pickup is terminal for the reservation.
	if _, _, err := s.ConfirmPickup(reservation.ID, loanPeriod); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState on second confirm, got %v", err)
	}
	if _, err := s.CancelReservation(reservation.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState on cancel after confirm, got %v", err)
	}
}

func TestConfirmPickupBlockedByFeeBalance(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "chebet@example.com", "REG-007", 5.00)
	book := createTestBook(t, s, "978-0-385-47454-8", 1, 1)

	reservation, err := s.ReserveBook(member.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}

	_, _, err = s.ConfirmPickup(reservation.ID, 14*24*time.Hour)
	if !errors.Is(err, ErrFeeBalanceOutstanding) {
		t.Fatalf("Expected ErrFeeBalanceOutstanding, got %v", err)
	}

	// The reservation stays pending and no loan is opened.
	got, err := s.GetReservation(&model.FindReservation{ID: &reservation.ID})
	if err != nil {
		t.Fatalf("Failed to get reservation: %v", err)
	}
	if got.Status != model.ReservationPending {
		t.Errorf("Expected status %s after blocked confirm, got %s", model.ReservationPending, got.Status)
	}
	loans, err := s.ListLoans(&model.FindLoan{MemberID: &member.ID})
	if err != nil {
		t.Fatalf("Failed to list loans: %v", err)
	}
	if len(loans) != 0 {
		t.Errorf("Expected no loans, got %d", len(loans))
	}

	// Clearing the balance unblocks the same reservation.
	if _, err := s.SetFeeBalance(member.ID, 0); err != nil {
		t.Fatalf("Failed to clear fee balance: %v", err)
	}
	if _, _, err := s.ConfirmPickup(reservation.ID, 14*24*time.Hour); err != nil {
		t.Fatalf("Failed to confirm after clearing balance: %v", err)
	}
}

func TestConcurrentReserveLastCopy(t *testing.T) {
	s := newTestStore(t)
	first := createTestMember(t, s, "baraka@example.com", "REG-008", 0)
	second := createTestMember(t, s, "zawadi@example.com", "REG-009", 0)
	book := createTestBook(t, s, "978-0-385-47454-9", 1, 1)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, memberID := range []int32{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, memberID int32) {
			defer wg.Done()
			_, results[i] = s.ReserveBook(memberID, book.ID)
		}(i, memberID)
	}
	wg.Wait()

	var won, lost int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrBookUnavailable):
			lost++
		default:
			t.Fatalf("Unexpected error from concurrent reserve: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Errorf("Expected exactly one winner and one ErrBookUnavailable, got %d winners and %d losers", won, lost)
	}

	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 0 {
		t.Errorf("Expected 0 available copies, got %d", book.AvailableCopies)
	}
}

func TestExpirePendingReservations(t *testing.T) {
	s := newTestStore(t)
	stale := createTestMember(t, s, "staleholder@example.com", "REG-010", 0)
	fresh := createTestMember(t, s, "freshholder@example.com", "REG-011", 0)
	book := createTestBook(t, s, "978-0-385-47455-0", 3, 3)

	staleReservation, err := s.ReserveBook(stale.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}
	freshReservation, err := s.ReserveBook(fresh.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}

	// Age the first hold past the cutoff.
	backdated := time.Now().AddDate(0, 0, -10).Unix()
	if _, err := s.db.Exec(`UPDATE reservation SET reserved_at = ? WHERE id = ?`, backdated, staleReservation.ID); err != nil {
		t.Fatalf("Failed to backdate reservation: %v", err)
	}

	expired, err := s.ExpirePendingReservations(time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("Failed to expire reservations: %v", err)
	}
	if expired != 1 {
		t.Errorf("Expected 1 expired reservation, got %d", expired)
	}

	got, err := s.GetReservation(&model.FindReservation{ID: &staleReservation.ID})
	if err != nil {
		t.Fatalf("Failed to get reservation: %v", err)
	}
	if got.Status != model.ReservationExpired {
		t.Errorf("Expected status %s, got %s", model.ReservationExpired, got.Status)
	}
	got, err = s.GetReservation(&model.FindReservation{ID: &freshReservation.ID})
	if err != nil {
		t.Fatalf("Failed to get reservation: %v", err)
	}
	if got.Status != model.ReservationPending {
		t.Errorf("Fresh reservation must stay %s, got %s", model.ReservationPending, got.Status)
	}

	// Only the expired hold's copy comes back.
	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 2 {
		t.Errorf("Expected 2 available copies after expiry, got %d", book.AvailableCopies)
	}
}

func TestReservationLifecycleRoundTrip(t *testing.T) {
	s := newTestStore(t)
	member := createTestMember(t, s, "roundtrip@example.com", "REG-012", 0)
	book := createTestBook(t, s, "978-0-385-47455-1", 3, 3)

	reservation, err := s.ReserveBook(member.ID, book.ID)
	if err != nil {
		t.Fatalf("Failed to reserve book: %v", err)
	}
	if got := mustGetBook(t, s, book.ID).AvailableCopies; got != 2 {
		t.Fatalf("Expected 2 available after reserve, got %d", got)
	}

	_, loan, err := s.ConfirmPickup(reservation.ID, 14*24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to confirm pickup: %v", err)
	}
	if got := mustGetBook(t, s, book.ID).AvailableCopies; got != 2 {
		t.Fatalf("Expected 2 available after confirm, got %d", got)
	}

	returned, err := s.ReturnLoan(loan.ID)
	if err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}
	if returned.Status != model.LoanReturned {
		t.Errorf("Expected loan status %s, got %s", model.LoanReturned, returned.Status)
	}
	if returned.ReturnedAt == nil {
		t.Error("Expected a return timestamp on the returned loan")
	}

	book = mustGetBook(t, s, book.ID)
	if book.AvailableCopies != 3 {
		t.Errorf("Expected all 3 copies back after return, got %d", book.AvailableCopies)
	}
	if book.AvailableCopies > book.TotalCopies {
		t.Errorf("Availability exceeds total: %d > %d", book.AvailableCopies, book.TotalCopies)
	}
}
