package response

import (
	"github.com/maktaba-io/maktaba/model"
)

// MemberResponse strips the password hash before a member leaves the
// server.
func MemberResponse(member *model.Member) *model.Member {
	return &model.Member{
		ID:         member.ID,
		CreatedTs:  member.CreatedTs,
		UpdatedTs:  member.UpdatedTs,
		FullName:   member.FullName,
		Email:      member.Email,
		RegNumber:  member.RegNumber,
		Role:       member.Role,
		FeeBalance: member.FeeBalance,
	}
}

func MemberListResponse(members []*model.Member) []*model.Member {
	response := make([]*model.Member, 0, len(members))
	for _, member := range members {
		response = append(response, MemberResponse(member))
	}
	return response
}
