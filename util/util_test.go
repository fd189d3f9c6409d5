package util

import "testing"

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Reg Number", "reg_number"},
		{"FULL NAME", "full_name"},
		{"  fee_balance  ", "fee_balance"},
		{"Email", "email"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SnakeCase(tt.in); got != tt.want {
			t.Errorf("SnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wanjiku Kamau", "Wanjiku"},
		{"Cher", "Cher"},
		{"  Otieno  Ouma ", "Otieno"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FirstName(tt.in); got != tt.want {
			t.Errorf("FirstName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("student@school.ac.ke") {
		t.Error("Expected valid email to pass")
	}
	if ValidateEmail("not-an-email") {
		t.Error("Expected invalid email to fail")
	}
	if ValidateEmail("") {
		t.Error("Expected empty email to fail")
	}
}

func TestHasPrefixes(t *testing.T) {
	if !HasPrefixes("/api/v1/books", "/api/v1/book", "/api/v1/member") {
		t.Error("Expected prefix match")
	}
	if HasPrefixes("/healthcheck", "/api/v1") {
		t.Error("Expected no prefix match")
	}
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(32)
	if err != nil {
		t.Fatalf("Failed to generate random string: %v", err)
	}
	if len(s) != 32 {
		t.Errorf("Expected length 32, got %d", len(s))
	}
	other, err := RandomString(32)
	if err != nil {
		t.Fatalf("Failed to generate random string: %v", err)
	}
	if s == other {
		t.Error("Two generated strings are identical")
	}
}
