package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maktaba-io/maktaba/api/auth"
	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var signin model.MemberSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&signin); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	member, err := h.store.GetMember(&model.FindMember{Email: &signin.Email})
	if err != nil {
		log.Error("Failed to get member", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if member == nil {
		log.Warn("Member not found", zap.String("email", signin.Email))
		response.Unauthorized(w, r)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(signin.Password)); err != nil {
		log.Warn("Password mismatch", zap.String("email", signin.Email))
		response.BadRequest(w, r, errors.New("invalid password"))
		return
	}

	expireTime := time.Now().Add(auth.AccessTokenDuration)
	if signin.NeverExpire {
		// Set the expire time to 100 years.
		expireTime = time.Now().Add(100 * 365 * 24 * time.Hour)
	}

	accessToken, err := auth.GenerateAccessToken(member, expireTime, []byte(h.secret))
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	w.Header().Set("Set-Cookie", buildAccessTokenCookie(accessToken, expireTime, r.Header.Get("Origin")))
	response.OK(w, r, response.MemberResponse(member))
}

func buildAccessTokenCookie(accessToken string, expireTime time.Time, origin string) string {
	attrs := []string{
		fmt.Sprintf("%s=%s", auth.AccessTokenCookieName, accessToken),
		"Path=/",
		"HttpOnly",
	}
	if expireTime.IsZero() {
		attrs = append(attrs, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	} else {
		attrs = append(attrs, "Expires="+expireTime.Format(time.RFC1123))
	}

	if strings.HasPrefix(origin, "https://") {
		attrs = append(attrs, "Secure")
		attrs = append(attrs, "SameSite=None")
	} else {
		attrs = append(attrs, "SameSite=Lax")
	}
	return strings.Join(attrs, "; ")
}
