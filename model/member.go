package model

// Role is the type of a member role.
type Role string

const (
	// RoleAdmin is the super-admin role.
	RoleAdmin Role = "ADMIN"
	// RoleStaff is the librarian role.
	RoleStaff Role = "STAFF"
	// RoleStudent is the student member role.
	RoleStudent Role = "STUDENT"
)

func (e Role) String() string {
	switch e {
	case RoleAdmin:
		return "ADMIN"
	case RoleStaff:
		return "STAFF"
	case RoleStudent:
		return "STUDENT"
	}
	return "STUDENT"
}

// IsStaff reports whether the role may use the management surface.
func (e Role) IsStaff() bool {
	return e == RoleAdmin || e == RoleStaff
}

type Member struct {
	ID int32 `json:"id"`

	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`

	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	RegNumber    string  `json:"reg_number"`
	Role         Role    `json:"role"`
	PasswordHash string  `json:"password_hash"`
	FeeBalance   float64 `json:"fee_balance"`
}

type FindMember struct {
	ID        *int32  `json:"id"`
	Email     *string `json:"email"`
	RegNumber *string `json:"reg_number"`
	Role      *Role   `json:"role"`

	// Search matches full name, email or registration number.
	Search *string `json:"search"`

	// The maximum number of members to return.
	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}

type MemberCreateRequest struct {
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	RegNumber  string  `json:"reg_number"`
	FeeBalance float64 `json:"fee_balance"`
}

type MemberUpdateRequest struct {
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	RegNumber  string  `json:"reg_number"`
	FeeBalance float64 `json:"fee_balance"`
}

type MemberSigninRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NeverExpire bool   `json:"never_expire"`
}

type FeeUpdateRequest struct {
	FeeBalance float64 `json:"fee_balance"`
}
