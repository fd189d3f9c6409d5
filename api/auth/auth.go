package auth // import "github.com/maktaba-io/maktaba/api/auth"

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
)

const (
	// AccessTokenCookieName is the cookie carrying the access token.
	AccessTokenCookieName = "maktaba.access-token"
	// AccessTokenDuration is the default session lifetime.
	AccessTokenDuration = 7 * 24 * time.Hour

	issuer = "maktaba"
)

// ClaimsMessage is the JWT payload for an access token.
type ClaimsMessage struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token identifying the member.
func GenerateAccessToken(member *model.Member, expireTime time.Time, secret []byte) (string, error) {
	claims := &ClaimsMessage{
		Email: member.Email,
		Role:  string(member.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(int64(member.ID), 10),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expireTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken verifies the signature and returns the claims.
func ParseAccessToken(tokenString string, secret []byte) (*ClaimsMessage, error) {
	claims := &ClaimsMessage{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// MemberID extracts the subject as an int32 member id.
func (c *ClaimsMessage) MemberID() (int32, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "invalid token subject")
	}
	return int32(id), nil
}
