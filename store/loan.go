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

// Loans are only ever opened inside ConfirmPickup; this file owns the
// borrowed -> returned half of the lifecycle.

// ReturnLoan closes a borrowed loan and gives the unit back to the
// catalogue, atomically. Returning an already-returned loan fails with
// ErrInvalidState and mutates nothing.
func (s *Store) ReturnLoan(loanID int32) (*model.Loan, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current model.Loan
	if err := tx.QueryRow(`SELECT id, member_id, book_id, status FROM loan WHERE id = ?`, loanID).Scan(
		&current.ID,
		&current.MemberID,
		&current.BookID,
		&current.Status,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrNotFound, "loan %d", loanID)
		}
		return nil, err
	}

	if current.Status != model.LoanBorrowed {
		return nil, errors.Wrapf(ErrInvalidState, "loan %d is %s, not %s", loanID, current.Status, model.LoanBorrowed)
	}

	var loan model.Loan
	if err := tx.QueryRow(`
		UPDATE loan
		SET status = ?, returned_at = ?
		WHERE id = ? AND status = ?
		RETURNING id, member_id, book_id, borrowed_at, due_date, returned_at, status`,
		model.LoanReturned, time.Now().Unix(), loanID, model.LoanBorrowed,
	).Scan(
		&loan.ID,
		&loan.MemberID,
		&loan.BookID,
		&loan.BorrowedAt,
		&loan.DueDate,
		&loan.ReturnedAt,
		&loan.Status,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrInvalidState, "loan %d left borrowed state", loanID)
		}
		return nil, err
	}

	result, err := tx.Exec(`UPDATE catalogue SET available_copies = available_copies + 1, updated_ts = strftime('%s', 'now') WHERE id = ? AND available_copies < total_copies`, loan.BookID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.Errorf("book %d already at full availability while returning loan %d", loan.BookID, loanID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Delete(loan.BookID)
	log.Info("Loan returned",
		zap.Int32("loan_id", loan.ID),
		zap.Int32("book_id", loan.BookID))
	return &loan, nil
}

func (s *Store) GetLoan(find *model.FindLoan) (*model.Loan, error) {
	list, err := s.ListLoans(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListLoans(find *model.FindLoan) ([]*model.Loan, error) {
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
	if find.OverdueOnly {
		where = append(where, "status = ? AND due_date < ?")
		args = append(args, model.LoanBorrowed, time.Now().Unix())
	}

	query := `
		SELECT
			id,
			member_id,
			book_id,
			borrowed_at,
			due_date,
			returned_at,
			status
		FROM loan
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY borrowed_at DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Debug("Error querying loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Loan, 0)
	for rows.Next() {
		var loan model.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.MemberID,
			&loan.BookID,
			&loan.BorrowedAt,
			&loan.DueDate,
			&loan.ReturnedAt,
			&loan.Status,
		); err != nil {
			return nil, err
		}
		list = append(list, &loan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
