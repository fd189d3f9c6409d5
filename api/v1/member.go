package v1

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"

	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/http/request"
	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/store"
	"github.com/maktaba-io/maktaba/util"
	"github.com/maktaba-io/maktaba/validator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	student := model.RoleStudent
	find := &model.FindMember{Role: &student}
	if v := request.QueryStringParam(r, "search", ""); v != "" {
		find.Search = &v
	}
	limit := request.QueryIntParam(r, "limit", 50)
	offset := request.QueryIntParam(r, "offset", 0)
	find.Limit = &limit
	find.Offset = &offset

	members, err := h.store.ListMembers(find)
	if err != nil {
		log.Error("Error listing members", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, response.MemberListResponse(members))
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var create model.MemberCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if verr := validator.ValidateMemberCreateRequest(h.store, &create); verr.HasErrors() {
		response.ValidationFailed(w, r, verr)
		return
	}

	// Initial credential convention: first name + registration number.
	// The member is expected to change it after first sign-in.
	generatedPassword := util.FirstName(create.FullName) + create.RegNumber
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(generatedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	member, err := h.store.CreateMember(&model.Member{
		FullName:     create.FullName,
		Email:        create.Email,
		RegNumber:    create.RegNumber,
		Role:         model.RoleStudent,
		PasswordHash: string(passwordHash),
		FeeBalance:   create.FeeBalance,
	})
	if err != nil {
		log.Error("Failed to create member", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, response.MemberResponse(member))
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	var update model.MemberUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if verr := validator.ValidateMemberUpdateRequest(h.store, id, &update); verr.HasErrors() {
		response.ValidationFailed(w, r, verr)
		return
	}

	member, err := h.store.UpdateMember(id, &update)
	if err != nil {
		log.Error("Failed to update member", zap.Int32("member_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.OK(w, r, response.MemberResponse(member))
}

func (h *Handler) setFeeBalance(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	var update model.FeeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if update.FeeBalance < 0 {
		response.BadRequest(w, r, errors.New("fee balance must be non-negative"))
		return
	}

	member, err := h.store.SetFeeBalance(id, update.FeeBalance)
	if err != nil {
		log.Error("Failed to update fee balance", zap.Int32("member_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.OK(w, r, response.MemberResponse(member))
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	// Staff accounts are not managed from the members surface.
	member, err := h.store.GetMember(&model.FindMember{ID: &id})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if member == nil {
		response.NotFound(w, r)
		return
	}
	if member.Role != model.RoleStudent {
		response.BadRequest(w, r, errors.New("only student members can be deleted from this surface"))
		return
	}

	if err := h.store.DeleteMember(id); err != nil {
		log.Error("Failed to delete member", zap.Int32("member_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// importMembers accepts a CSV upload and creates one member per row.
// Row failures are isolated; the report carries per-row messages.
func (h *Handler) importMembers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Opts.MaxUploadSize << 20); err != nil {
		log.Error("Max upload size exceeded", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	file, _, err := r.FormFile("import_file")
	if err != nil {
		response.BadRequest(w, r, errors.New("import_file is required"))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		response.BadRequest(w, r, errors.New("could not read the uploaded file"))
		return
	}

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			response.BadRequest(w, r, errors.Wrap(err, "malformed CSV"))
			return
		}
		rows = append(rows, row)
	}

	report, err := h.store.ImportMembers(header, rows)
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			response.ValidationFailed(w, r, verr)
			return
		}
		log.Error("Failed to import members", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, report)
}
