package store // import "github.com/maktaba-io/maktaba/store"

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type Store struct {
	db *sql.DB

	MemberCache        sync.Map // map[int32]*model.Member
	BookCache          sync.Map // map[int32]*model.Book
	systemSettingCache sync.Map // map[string]*model.SystemSetting
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches sqlite unique-constraint failures without
// depending on driver error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
