package v1

import (
	"net/http"
	"strings"

	"github.com/maktaba-io/maktaba/api/auth"
	"github.com/maktaba-io/maktaba/http/request"
	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AuthInterceptor struct {
	store  *store.Store
	secret string
}

func NewAuthInterceptor(store *store.Store, secret string) *AuthInterceptor {
	return &AuthInterceptor{store: store, secret: secret}
}

func (m *AuthInterceptor) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isUnauthorizedAllowed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		clientIP := request.FindClientIP(r)

		member, err := m.authenticate(getAccessToken(r))
		if err != nil {
			log.Debug("Failed to authenticate member",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", r.UserAgent()),
				zap.Error(err),
			)
			response.Unauthorized(w, r)
			return
		}

		if isOnlyForStaffAllowedPath(r.Method, r.URL.Path) && !member.Role.IsStaff() {
			response.Forbidden(w, r)
			return
		}

		next.ServeHTTP(w, request.WithMember(r, member))
	})
}

func (m *AuthInterceptor) authenticate(accessToken string) (*model.Member, error) {
	if accessToken == "" {
		return nil, errors.New("no access token provided")
	}
	claims, err := auth.ParseAccessToken(accessToken, []byte(m.secret))
	if err != nil {
		return nil, err
	}

	memberID, err := claims.MemberID()
	if err != nil {
		return nil, errors.Wrap(err, "malformed ID in the token")
	}
	member, err := m.store.GetMember(&model.FindMember{ID: &memberID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get member")
	}
	if member == nil {
		return nil, errors.Errorf("member not found with ID: %d", memberID)
	}

	return member, nil
}

func getAccessToken(r *http.Request) string {
	// Check the HTTP Authorization header first
	authorizationHeaders := r.Header.Get("Authorization")
	// Check bearer token
	if authorizationHeaders != "" {
		splitToken := strings.Split(authorizationHeaders, "Bearer ")
		if len(splitToken) == 2 {
			return splitToken[1]
		}
	}

	// Check the cookie header
	var accessToken string
	for _, cookie := range r.Cookies() {
		if cookie.Name == auth.AccessTokenCookieName {
			accessToken = cookie.Value
		}
	}
	return accessToken
}
