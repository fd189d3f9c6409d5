package request //import "github.com/maktaba-io/maktaba/http/request"

import (
	"context"
	"net/http"

	"github.com/maktaba-io/maktaba/model"
)

type ContextKey int

const (
	MemberIDContextKey ContextKey = iota
	MemberEmailContextKey
	MemberRoleContextKey
)

// WithMember stores the authenticated member's identity on the request
// context.
func WithMember(r *http.Request, member *model.Member) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, MemberIDContextKey, member.ID)
	ctx = context.WithValue(ctx, MemberEmailContextKey, member.Email)
	ctx = context.WithValue(ctx, MemberRoleContextKey, string(member.Role))
	return r.WithContext(ctx)
}

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

// GetMemberID returns the authenticated member id, or zero.
func GetMemberID(r *http.Request) int32 {
	if v := r.Context().Value(MemberIDContextKey); v != nil {
		if value, valid := v.(int32); valid {
			return value
		}
	}
	return 0
}

func GetMemberEmail(r *http.Request) string {
	return getContextStringValue(r, MemberEmailContextKey)
}

func GetMemberRole(r *http.Request) model.Role {
	return model.Role(getContextStringValue(r, MemberRoleContextKey))
}
