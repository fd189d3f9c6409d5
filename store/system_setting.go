package store

import (
	"database/sql"
	"encoding/json"

	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/util"
	"github.com/pkg/errors"
)

func (s *Store) GetSystemSetting(name string) (*model.SystemSetting, error) {
	if cache, ok := s.systemSettingCache.Load(name); ok {
		return cache.(*model.SystemSetting), nil
	}

	setting := &model.SystemSetting{}
	stmt := `SELECT name, value, description FROM system_setting WHERE name = ?`
	if err := s.db.QueryRow(stmt, name).Scan(&setting.Name, &setting.Value, &setting.Description); err != nil {
		return nil, err
	}

	s.systemSettingCache.Store(name, setting)
	return setting, nil
}

func (s *Store) UpsertSystemSetting(setting *model.SystemSetting) (*model.SystemSetting, error) {
	stmt := `
		INSERT INTO system_setting (name, value, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE
		SET value = EXCLUDED.value, description = EXCLUDED.description
		RETURNING name, value, description
	`
	newSetting := &model.SystemSetting{}
	if err := s.db.QueryRow(stmt, setting.Name, setting.Value, setting.Description).Scan(
		&newSetting.Name,
		&newSetting.Value,
		&newSetting.Description,
	); err != nil {
		return nil, err
	}

	s.systemSettingCache.Store(newSetting.Name, newSetting)
	return newSetting, nil
}

// GetOrInitSystemSecuritySetting returns the persisted security setting,
// generating and storing a fresh JWT secret on first run.
func (s *Store) GetOrInitSystemSecuritySetting() (*model.SystemSettingSecurity, error) {
	setting, err := s.GetSystemSetting(model.SettingTypeSecurity)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(err, "failed to get security setting")
		}

		secret, err := util.RandomString(32)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate JWT secret")
		}
		value, err := json.Marshal(&model.SystemSettingSecurity{JWTSecret: secret})
		if err != nil {
			return nil, err
		}
		setting, err = s.UpsertSystemSetting(&model.SystemSetting{
			Name:        model.SettingTypeSecurity,
			Value:       string(value),
			Description: "Security settings",
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to store security setting")
		}
		log.Info("Generated new JWT secret")
	}

	return setting.GetSecurity()
}
