package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	SettingTypeSecurity = "security"
)

type SystemSetting struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type SystemSettingSecurity struct {
	// JWTSecret signs access tokens. Generated once and persisted so
	// sessions survive restarts.
	JWTSecret string `json:"jwt_secret"`
}

func (s *SystemSetting) GetSecurity() (*SystemSettingSecurity, error) {
	if s.Name != SettingTypeSecurity {
		return nil, errors.Errorf("setting %s is not a security setting", s.Name)
	}
	security := &SystemSettingSecurity{}
	if err := json.Unmarshal([]byte(s.Value), security); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal security setting")
	}
	return security, nil
}
