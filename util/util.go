package util // import "github.com/maktaba-io/maktaba/util"

import (
	"crypto/rand"
	"math/big"
	"net/mail"
	"strconv"
	"strings"
)

// ConvertStringToInt32 converts a string to int32.
func ConvertStringToInt32(src string) (int32, error) {
	parsed, err := strconv.ParseInt(src, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(parsed), nil
}

// HasPrefixes returns true if the string s has any of the given prefixes.
func HasPrefixes(src string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

// ValidateEmail validates the email.
func ValidateEmail(email string) bool {
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	return true
}

// FirstName returns everything before the first space of a full name.
func FirstName(fullName string) string {
	fullName = strings.TrimSpace(fullName)
	if i := strings.IndexByte(fullName, ' '); i >= 0 {
		return fullName[:i]
	}
	return fullName
}

// SnakeCase lowercases a header name and joins its words with
// underscores: "Reg Number" -> "reg_number".
func SnakeCase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "_")
}

var letters = []rune("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// RandomString returns a random string with length n.
func RandomString(n int) (string, error) {
	b := make([]rune, n)
	for i := range b {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		b[i] = letters[index.Int64()]
	}
	return string(b), nil
}
