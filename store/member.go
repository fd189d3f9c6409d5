package store

import (
	"fmt"
	"strings"

	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Store) GetMember(find *model.FindMember) (*model.Member, error) {
	if find.ID != nil {
		if cache, ok := s.MemberCache.Load(*find.ID); ok {
			return cache.(*model.Member), nil
		}
	}

	list, err := s.ListMembers(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	member := list[0]
	s.MemberCache.Store(member.ID, member)
	return member, nil
}

func (s *Store) ListMembers(find *model.FindMember) ([]*model.Member, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}
	if v := find.RegNumber; v != nil {
		where, args = append(where, "reg_number = ?"), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "role = ?"), append(args, *v)
	}
	if v := find.Search; v != nil {
		pattern := "%" + *v + "%"
		where = append(where, "(full_name LIKE ? OR email LIKE ? OR reg_number LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	// Here will return password_hash, so need to be careful.
	// Use response.MemberResponse before sending to a client.
	query := `
		SELECT
			id,
			created_ts,
			updated_ts,
			full_name,
			email,
			reg_number,
			role,
			password_hash,
			fee_balance
		FROM member
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Debug("Error querying members", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Member, 0)
	for rows.Next() {
		var member model.Member
		if err := rows.Scan(
			&member.ID,
			&member.CreatedTs,
			&member.UpdatedTs,
			&member.FullName,
			&member.Email,
			&member.RegNumber,
			&member.Role,
			&member.PasswordHash,
			&member.FeeBalance,
		); err != nil {
			return nil, err
		}
		list = append(list, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) CreateMember(create *model.Member) (*model.Member, error) {
	fields := []string{"`full_name`", "`email`", "`reg_number`", "`role`", "`password_hash`", "`fee_balance`"}
	placeholder := []string{"?", "?", "?", "?", "?", "?"}
	args := []any{create.FullName, create.Email, create.RegNumber, create.Role, create.PasswordHash, create.FeeBalance}
	stmt := "INSERT INTO member (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(placeholder, ", ") + ") RETURNING id, created_ts, updated_ts, full_name, email, reg_number, role, password_hash, fee_balance"

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var member model.Member
	if err := tx.QueryRow(stmt, args...).Scan(
		&member.ID,
		&member.CreatedTs,
		&member.UpdatedTs,
		&member.FullName,
		&member.Email,
		&member.RegNumber,
		&member.Role,
		&member.PasswordHash,
		&member.FeeBalance,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.MemberCache.Store(member.ID, &member)
	return &member, nil
}

func (s *Store) UpdateMember(id int32, update *model.MemberUpdateRequest) (*model.Member, error) {
	stmt := `
		UPDATE member
		SET
			full_name = ?,
			email = ?,
			reg_number = ?,
			fee_balance = ?,
			updated_ts = strftime('%s', 'now')
		WHERE id = ?
		RETURNING id, created_ts, updated_ts, full_name, email, reg_number, role, password_hash, fee_balance
	`

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var member model.Member
	if err := tx.QueryRow(stmt,
		update.FullName,
		update.Email,
		update.RegNumber,
		update.FeeBalance,
		id,
	).Scan(
		&member.ID,
		&member.CreatedTs,
		&member.UpdatedTs,
		&member.FullName,
		&member.Email,
		&member.RegNumber,
		&member.Role,
		&member.PasswordHash,
		&member.FeeBalance,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrNotFound, "member %d", id)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.MemberCache.Store(member.ID, &member)
	return &member, nil
}

// SetFeeBalance replaces the member's outstanding balance. The schema
// rejects negative values.
func (s *Store) SetFeeBalance(id int32, balance float64) (*model.Member, error) {
	stmt := `
		UPDATE member
		SET fee_balance = ?, updated_ts = strftime('%s', 'now')
		WHERE id = ?
		RETURNING id, created_ts, updated_ts, full_name, email, reg_number, role, password_hash, fee_balance
	`

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var member model.Member
	if err := tx.QueryRow(stmt, balance, id).Scan(
		&member.ID,
		&member.CreatedTs,
		&member.UpdatedTs,
		&member.FullName,
		&member.Email,
		&member.RegNumber,
		&member.Role,
		&member.PasswordHash,
		&member.FeeBalance,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrNotFound, "member %d", id)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.MemberCache.Store(member.ID, &member)
	return &member, nil
}

// DeleteMember removes a member along with their resolved history.
// Deletion is refused while the member still holds pending reservations
// or open loans.
func (s *Store) DeleteMember(id int32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pending int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM reservation WHERE member_id = ? AND status = ?`, id, model.ReservationPending).Scan(&pending); err != nil {
		return err
	}
	if pending > 0 {
		return errors.Wrapf(ErrInvalidState, "member %d has %d pending reservations", id, pending)
	}

	var borrowed int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM loan WHERE member_id = ? AND status = ?`, id, model.LoanBorrowed).Scan(&borrowed); err != nil {
		return err
	}
	if borrowed > 0 {
		return errors.Wrapf(ErrInvalidState, "member %d has %d open loans", id, borrowed)
	}

	result, err := tx.Exec(`DELETE FROM member WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "member %d", id)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.MemberCache.Delete(id)
	log.Info("Member deleted", zap.Int32("member_id", id))
	return nil
}
