package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Every unit of inventory is accounted for by at most one active
// reservation or loan, so the three lifecycle operations below each run
// in a single transaction and the copy-count check is folded into the
// UPDATE itself. Two requests racing for the last copy cannot both win:
// the second conditional decrement simply matches zero rows.

// ReserveBook places a pending hold for the member on one unit of the
// book and removes that unit from availability, atomically.
func (s *Store) ReserveBook(memberID, bookID int32) (*model.Reservation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM member WHERE id = ?`, memberID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, errors.Wrapf(ErrNotFound, "member %d", memberID)
	}

	if err := tx.QueryRow(`SELECT COUNT(1) FROM catalogue WHERE id = ?`, bookID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, errors.Wrapf(ErrNotFound, "book %d", bookID)
	}

	var pending int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM reservation WHERE member_id = ? AND book_id = ? AND status = ?`,
		memberID, bookID, model.ReservationPending).Scan(&pending); err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, errors.Wrapf(ErrDuplicateReservation, "member %d already holds a pending reservation for book %d", memberID, bookID)
	}

	// Check-and-decrement in one statement; no read-then-write window.
	result, err := tx.Exec(`UPDATE catalogue SET available_copies = available_copies - 1, updated_ts = strftime('%s', 'now') WHERE id = ? AND available_copies > 0`, bookID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.Wrapf(ErrBookUnavailable, "book %d", bookID)
	}

	stmt := `
		INSERT INTO reservation (member_id, book_id, status, reserved_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, member_id, book_id, status, reserved_at, updated_ts
	`
	var reservation model.Reservation
	if err := tx.QueryRow(stmt, memberID, bookID, model.ReservationPending, time.Now().Unix()).Scan(
		&reservation.ID,
		&reservation.MemberID,
		&reservation.BookID,
		&reservation.Status,
		&reservation.ReservedAt,
		&reservation.UpdatedTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Delete(bookID)
	log.Info("Reservation created",
		zap.Int32("reservation_id", reservation.ID),
		zap.Int32("member_id", memberID),
		zap.Int32("book_id", bookID))
	return &reservation, nil
}

// ConfirmPickup transitions a pending reservation to confirmed_pickup and
// opens the loan in the same transaction, so a confirmation can never
// exist without its loan or the other way round. The copy count does not
// move here: the unit already left availability when the reservation was
// created.
func (s *Store) ConfirmPickup(reservationID int32, loanPeriod time.Duration) (*model.Reservation, *model.Loan, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var current model.Reservation
	if err := tx.QueryRow(`SELECT id, member_id, book_id, status, reserved_at, updated_ts FROM reservation WHERE id = ?`, reservationID).Scan(
		&current.ID,
		&current.MemberID,
		&current.BookID,
		&current.Status,
		&current.ReservedAt,
		&current.UpdatedTs,
	); err != nil {
		if isNoRows(err) {
			return nil, nil, errors.Wrapf(ErrNotFound, "reservation %d", reservationID)
		}
		return nil, nil, err
	}

	if !current.Status.CanTransitionTo(model.ReservationConfirmedPickup) {
		return nil, nil, errors.Wrapf(ErrInvalidState, "reservation %d is %s, not %s", reservationID, current.Status, model.ReservationPending)
	}

	var feeBalance float64
	if err := tx.QueryRow(`SELECT fee_balance FROM member WHERE id = ?`, current.MemberID).Scan(&feeBalance); err != nil {
		if isNoRows(err) {
			return nil, nil, errors.Wrapf(ErrNotFound, "member %d", current.MemberID)
		}
		return nil, nil, err
	}
	if feeBalance > 0 {
		return nil, nil, errors.Wrapf(ErrFeeBalanceOutstanding, "member %d owes %.2f", current.MemberID, feeBalance)
	}

	// Status guard repeated in the WHERE clause: the transition is only
	// taken from pending.
	var reservation model.Reservation
	if err := tx.QueryRow(`
		UPDATE reservation
		SET status = ?, updated_ts = strftime('%s', 'now')
		WHERE id = ? AND status = ?
		RETURNING id, member_id, book_id, status, reserved_at, updated_ts`,
		model.ReservationConfirmedPickup, reservationID, model.ReservationPending,
	).Scan(
		&reservation.ID,
		&reservation.MemberID,
		&reservation.BookID,
		&reservation.Status,
		&reservation.ReservedAt,
		&reservation.UpdatedTs,
	); err != nil {
		if isNoRows(err) {
			return nil, nil, errors.Wrapf(ErrInvalidState, "reservation %d left pending state", reservationID)
		}
		return nil, nil, err
	}

	now := time.Now()
	var loan model.Loan
	if err := tx.QueryRow(`
		INSERT INTO loan (member_id, book_id, borrowed_at, due_date, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, member_id, book_id, borrowed_at, due_date, returned_at, status`,
		reservation.MemberID, reservation.BookID, now.Unix(), now.Add(loanPeriod).Unix(), model.LoanBorrowed,
	).Scan(
		&loan.ID,
		&loan.MemberID,
		&loan.BookID,
		&loan.BorrowedAt,
		&loan.DueDate,
		&loan.ReturnedAt,
		&loan.Status,
	); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	log.Info("Reservation confirmed for pickup",
		zap.Int32("reservation_id", reservation.ID),
		zap.Int32("loan_id", loan.ID),
		zap.Int32("member_id", reservation.MemberID),
		zap.Int32("book_id", reservation.BookID))
	return &reservation, &loan, nil
}

// CancelReservation transitions a pending reservation to cancelled and
// gives the held unit back to the catalogue, atomically.
func (s *Store) CancelReservation(reservationID int32) (*model.Reservation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current model.Reservation
	if err := tx.QueryRow(`SELECT id, member_id, book_id, status FROM reservation WHERE id = ?`, reservationID).Scan(
		&current.ID,
		&current.MemberID,
		&current.BookID,
		&current.Status,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrNotFound, "reservation %d", reservationID)
		}
		return nil, err
	}

	if !current.Status.CanTransitionTo(model.ReservationCancelled) {
		return nil, errors.Wrapf(ErrInvalidState, "reservation %d is %s, not %s", reservationID, current.Status, model.ReservationPending)
	}

	var reservation model.Reservation
	if err := tx.QueryRow(`
		UPDATE reservation
		SET status = ?, updated_ts = strftime('%s', 'now')
		WHERE id = ? AND status = ?
		RETURNING id, member_id, book_id, status, reserved_at, updated_ts`,
		model.ReservationCancelled, reservationID, model.ReservationPending,
	).Scan(
		&reservation.ID,
		&reservation.MemberID,
		&reservation.BookID,
		&reservation.Status,
		&reservation.ReservedAt,
		&reservation.UpdatedTs,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrInvalidState, "reservation %d left pending state", reservationID)
		}
		return nil, err
	}

	// The guard keeps available_copies inside [0, total_copies]; matching
	// zero rows here means the inventory accounting is broken.
	result, err := tx.Exec(`UPDATE catalogue SET available_copies = available_copies + 1, updated_ts = strftime('%s', 'now') WHERE id = ? AND available_copies < total_copies`, reservation.BookID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.Errorf("book %d already at full availability while cancelling reservation %d", reservation.BookID, reservationID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Delete(reservation.BookID)
	log.Info("Reservation cancelled",
		zap.Int32("reservation_id", reservation.ID),
		zap.Int32("book_id", reservation.BookID))
	return &reservation, nil
}

// ExpirePendingReservations moves every pending reservation older than
// cutoff to expired and releases the held copies, in one transaction.
// Returns the number of reservations expired.
func (s *Store) ExpirePendingReservations(cutoff time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Give each touched book back as many copies as it has lapsed holds.
	if _, err := tx.Exec(`
		UPDATE catalogue
		SET available_copies = available_copies + (
			SELECT COUNT(1) FROM reservation r
			WHERE r.book_id = catalogue.id AND r.status = ? AND r.reserved_at < ?
		), updated_ts = strftime('%s', 'now')
		WHERE id IN (
			SELECT book_id FROM reservation WHERE status = ? AND reserved_at < ?
		)`,
		model.ReservationPending, cutoff.Unix(), model.ReservationPending, cutoff.Unix(),
	); err != nil {
		return 0, err
	}

	result, err := tx.Exec(`
		UPDATE reservation
		SET status = ?, updated_ts = strftime('%s', 'now')
		WHERE status = ? AND reserved_at < ?`,
		model.ReservationExpired, model.ReservationPending, cutoff.Unix(),
	)
	if err != nil {
		return 0, err
	}
	expired, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if expired > 0 {
		// Cheap full invalidation: expiry touches an unknown set of books.
		s.BookCache.Range(func(key, _ any) bool {
			s.BookCache.Delete(key)
			return true
		})
		log.Info("Expired pending reservations", zap.Int64("count", expired))
	}
	return expired, nil
}

func (s *Store) GetReservation(find *model.FindReservation) (*model.Reservation, error) {
	list, err := s.ListReservations(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListReservations(find *model.FindReservation) ([]*model.Reservation, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.MemberID; v != nil {
		where, args = append(where, "member_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "book_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}
	if find.ActiveOnly {
		where = append(where, "status IN (?, ?)")
		args = append(args, model.ReservationPending, model.ReservationConfirmedPickup)
	}

	query := `
		SELECT
			id,
			member_id,
			book_id,
			status,
			reserved_at,
			updated_ts
		FROM reservation
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY reserved_at DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Reservation, 0)
	for rows.Next() {
		var reservation model.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.MemberID,
			&reservation.BookID,
			&reservation.Status,
			&reservation.ReservedAt,
			&reservation.UpdatedTs,
		); err != nil {
			return nil, err
		}
		if !reservation.Status.Valid() {
			return nil, errors.Errorf("reservation %d has unknown status %q", reservation.ID, reservation.Status)
		}
		list = append(list, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
