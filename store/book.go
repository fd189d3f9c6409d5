package store

import (
	"fmt"
	"strings"

	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Store) GetBook(find *model.FindBook) (*model.Book, error) {
	if find.ID != nil {
		if cache, ok := s.BookCache.Load(*find.ID); ok {
			return cache.(*model.Book), nil
		}
	}

	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	book := list[0]
	s.BookCache.Store(book.ID, book)
	return book, nil
}

func (s *Store) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.ISBN; v != nil {
		where, args = append(where, "isbn = ?"), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = ?"), append(args, *v)
	}
	if v := find.Tag; v != nil {
		// Tags column is comma-delimited text; match a whole tag.
		where = append(where, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+*v+",%")
	}
	if v := find.Search; v != nil {
		pattern := "%" + *v + "%"
		where = append(where, "(title LIKE ? OR author LIKE ? OR isbn LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	query := `
		SELECT
			id,
			created_ts,
			updated_ts,
			title,
			author,
			isbn,
			category,
			description,
			tags,
			published_year,
			image_url,
			total_copies,
			available_copies
		FROM catalogue
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Debug("Error querying books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		var book model.Book
		// The ordering of scan targets must match the query columns
		if err := rows.Scan(
			&book.ID,
			&book.CreatedTs,
			&book.UpdatedTs,
			&book.Title,
			&book.Author,
			&book.ISBN,
			&book.Category,
			&book.Description,
			&book.Tags,
			&book.PublishedYear,
			&book.ImageURL,
			&book.TotalCopies,
			&book.AvailableCopies,
		); err != nil {
			return nil, err
		}
		list = append(list, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) CreateBook(create *model.Book) (*model.Book, error) {
	fields := []string{"`title`", "`author`", "`isbn`", "`category`", "`description`", "`tags`", "`published_year`", "`image_url`", "`total_copies`", "`available_copies`"}
	placeholder := []string{"?", "?", "?", "?", "?", "?", "?", "?", "?", "?"}
	args := []any{create.Title, create.Author, create.ISBN, create.Category, create.Description, create.Tags, create.PublishedYear, create.ImageURL, create.TotalCopies, create.AvailableCopies}
	stmt := "INSERT INTO catalogue (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(placeholder, ", ") + ") RETURNING id, created_ts, updated_ts, title, author, isbn, category, description, tags, published_year, image_url, total_copies, available_copies"

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var book model.Book
	if err := tx.QueryRow(stmt, args...).Scan(
		&book.ID,
		&book.CreatedTs,
		&book.UpdatedTs,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Category,
		&book.Description,
		&book.Tags,
		&book.PublishedYear,
		&book.ImageURL,
		&book.TotalCopies,
		&book.AvailableCopies,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Store(book.ID, &book)
	return &book, nil
}

func (s *Store) UpdateBook(id int32, update *model.BookUpdateRequest) (*model.Book, error) {
	stmt := `
		UPDATE catalogue
		SET
			title = ?,
			author = ?,
			isbn = ?,
			category = ?,
			description = ?,
			tags = ?,
			published_year = ?,
			image_url = ?,
			total_copies = ?,
			available_copies = ?,
			updated_ts = strftime('%s', 'now')
		WHERE id = ?
		RETURNING id, created_ts, updated_ts, title, author, isbn, category, description, tags, published_year, image_url, total_copies, available_copies
	`

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var book model.Book
	if err := tx.QueryRow(stmt,
		update.Title,
		update.Author,
		update.ISBN,
		update.Category,
		update.Description,
		update.Tags,
		update.PublishedYear,
		update.ImageURL,
		update.TotalCopies,
		update.AvailableCopies,
		id,
	).Scan(
		&book.ID,
		&book.CreatedTs,
		&book.UpdatedTs,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Category,
		&book.Description,
		&book.Tags,
		&book.PublishedYear,
		&book.ImageURL,
		&book.TotalCopies,
		&book.AvailableCopies,
	); err != nil {
		if isNoRows(err) {
			return nil, errors.Wrapf(ErrNotFound, "book %d", id)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Store(book.ID, &book)
	return &book, nil
}

// DeleteBook removes a catalogue entry along with its resolved history.
// Deletion is refused while pending reservations or open loans still
// reference the book.
func (s *Store) DeleteBook(id int32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pending int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM reservation WHERE book_id = ? AND status = ?`, id, model.ReservationPending).Scan(&pending); err != nil {
		return err
	}
	if pending > 0 {
		return errors.Wrapf(ErrInvalidState, "book %d has %d pending reservations", id, pending)
	}

	var borrowed int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM loan WHERE book_id = ? AND status = ?`, id, model.LoanBorrowed).Scan(&borrowed); err != nil {
		return err
	}
	if borrowed > 0 {
		return errors.Wrapf(ErrInvalidState, "book %d has %d open loans", id, borrowed)
	}

	result, err := tx.Exec(`DELETE FROM catalogue WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "book %d", id)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.BookCache.Delete(id)
	log.Info("Book deleted", zap.Int32("book_id", id))
	return nil
}
