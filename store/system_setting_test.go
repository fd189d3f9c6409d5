package store

import (
	"testing"

	"github.com/maktaba-io/maktaba/model"
)

func TestGetOrInitSystemSecuritySetting(t *testing.T) {
	s := newTestStore(t)

	security, err := s.GetOrInitSystemSecuritySetting()
	if err != nil {
		t.Fatalf("Failed to init security setting: %v", err)
	}
	if security.JWTSecret == "" {
		t.Fatal("JWT secret is empty")
	}

	// The generated secret is persisted, not regenerated per call.
	again, err := s.GetOrInitSystemSecuritySetting()
	if err != nil {
		t.Fatalf("Failed to get security setting: %v", err)
	}
	if again.JWTSecret != security.JWTSecret {
		t.Errorf("Expected stable JWT secret, got %q then %q", security.JWTSecret, again.JWTSecret)
	}
}

func TestUpsertSystemSetting(t *testing.T) {
	s := newTestStore(t)

	setting, err := s.UpsertSystemSetting(&model.SystemSetting{
		Name:        "library-name",
		Value:       "Maktaba Secondary School Library",
		Description: "Display name",
	})
	if err != nil {
		t.Fatalf("Failed to upsert setting: %v", err)
	}
	if setting.Value != "Maktaba Secondary School Library" {
		t.Errorf("Unexpected value: %s", setting.Value)
	}

	updated, err := s.UpsertSystemSetting(&model.SystemSetting{
		Name:  "library-name",
		Value: "Renamed Library",
	})
	if err != nil {
		t.Fatalf("Failed to upsert setting: %v", err)
	}
	if updated.Value != "Renamed Library" {
		t.Errorf("Expected upsert to overwrite, got %s", updated.Value)
	}

	got, err := s.GetSystemSetting("library-name")
	if err != nil {
		t.Fatalf("Failed to get setting: %v", err)
	}
	if got.Value != "Renamed Library" {
		t.Errorf("Expected Renamed Library, got %s", got.Value)
	}
}
