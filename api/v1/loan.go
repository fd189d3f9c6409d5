package v1

import (
	"net/http"

	"github.com/maktaba-io/maktaba/http/request"
	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errInvalidLoanStatus = errors.New("invalid loan status")

func (h *Handler) listLoans(w http.ResponseWriter, r *http.Request) {
	find := &model.FindLoan{}
	if v := request.QueryStringParam(r, "status", ""); v != "" {
		status := model.LoanStatus(v)
		if !status.Valid() {
			response.BadRequest(w, r, errInvalidLoanStatus)
			return
		}
		find.Status = &status
	}
	limit := request.QueryIntParam(r, "limit", 50)
	offset := request.QueryIntParam(r, "offset", 0)
	find.Limit = &limit
	find.Offset = &offset

	loans, err := h.store.ListLoans(find)
	if err != nil {
		log.Error("Error listing loans", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, loans)
}

// listOverdueLoans feeds the fines screen.
func (h *Handler) listOverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.store.ListLoans(&model.FindLoan{OverdueOnly: true})
	if err != nil {
		log.Error("Error listing overdue loans", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, loans)
}

func (h *Handler) returnLoan(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	loan, err := h.store.ReturnLoan(id)
	if err != nil {
		log.Warn("Failed to return loan", zap.Int32("loan_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.OK(w, r, loan)
}
