package validator // import "github.com/maktaba-io/maktaba/validator"

import (
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/store"
	"github.com/maktaba-io/maktaba/util"
)

// Operation tags let the caller route field errors to the form that
// produced them.
const (
	OpMemberAdding  = "memberAdding"
	OpMemberEditing = "memberEditing"
)

func ValidateMemberCreateRequest(s *store.Store, create *model.MemberCreateRequest) *store.ValidationError {
	verr := store.NewValidationError(OpMemberAdding)
	if create == nil {
		return verr.Add("request", "is empty")
	}
	validateMemberFields(verr, create.FullName, create.Email, create.RegNumber, create.FeeBalance)
	if verr.HasErrors() {
		return verr
	}

	if member, _ := s.GetMember(&model.FindMember{Email: &create.Email}); member != nil {
		verr.Add("email", "already exists")
	}
	if member, _ := s.GetMember(&model.FindMember{RegNumber: &create.RegNumber}); member != nil {
		verr.Add("reg_number", "already exists")
	}
	return verr
}

func ValidateMemberUpdateRequest(s *store.Store, id int32, update *model.MemberUpdateRequest) *store.ValidationError {
	verr := store.NewValidationError(OpMemberEditing)
	if update == nil {
		return verr.Add("request", "is empty")
	}
	validateMemberFields(verr, update.FullName, update.Email, update.RegNumber, update.FeeBalance)
	if verr.HasErrors() {
		return verr
	}

	// Uniqueness checks must not trip over the member being edited.
	if member, _ := s.GetMember(&model.FindMember{Email: &update.Email}); member != nil && member.ID != id {
		verr.Add("email", "already exists")
	}
	if member, _ := s.GetMember(&model.FindMember{RegNumber: &update.RegNumber}); member != nil && member.ID != id {
		verr.Add("reg_number", "already exists")
	}
	return verr
}

func validateMemberFields(verr *store.ValidationError, fullName, email, regNumber string, feeBalance float64) {
	if fullName == "" {
		verr.Add("full_name", "is required")
	}
	if email == "" {
		verr.Add("email", "is required")
	} else if !util.ValidateEmail(email) {
		verr.Add("email", "is not a valid email address")
	}
	if regNumber == "" {
		verr.Add("reg_number", "is required")
	}
	if feeBalance < 0 {
		verr.Add("fee_balance", "must be a non-negative number")
	}
}
