package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/http/request"
	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"go.uber.org/zap"
)

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	find := &model.FindReservation{ActiveOnly: true}
	// Students only see their own reservations.
	if !request.GetMemberRole(r).IsStaff() {
		memberID := request.GetMemberID(r)
		find.MemberID = &memberID
		find.ActiveOnly = false
	}
	limit := request.QueryIntParam(r, "limit", 50)
	offset := request.QueryIntParam(r, "offset", 0)
	find.Limit = &limit
	find.Offset = &offset

	reservations, err := h.store.ListReservations(find)
	if err != nil {
		log.Error("Error listing reservations", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, reservations)
}

// createReservation places a hold for the signed-in member.
func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	var create model.ReservationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	memberID := request.GetMemberID(r)
	reservation, err := h.store.ReserveBook(memberID, create.BookID)
	if err != nil {
		log.Warn("Failed to reserve book",
			zap.Int32("member_id", memberID),
			zap.Int32("book_id", create.BookID),
			zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.Created(w, r, reservation)
}

// confirmPickup is staff-only: it moves a pending reservation to
// confirmed_pickup and opens the loan.
func (h *Handler) confirmPickup(w http.ResponseWriter, r *http.Request) {
	if !request.GetMemberRole(r).IsStaff() {
		response.Forbidden(w, r)
		return
	}

	id := request.RouteInt32Param(r, "id")
	loanPeriod := time.Duration(config.Opts.LoanPeriodDays) * 24 * time.Hour

	reservation, loan, err := h.store.ConfirmPickup(id, loanPeriod)
	if err != nil {
		log.Warn("Failed to confirm pickup", zap.Int32("reservation_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{
		"reservation": reservation,
		"loan":        loan,
	})
}

// cancelReservation releases a pending hold. Members may only cancel
// their own; staff may cancel any.
func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	if !request.GetMemberRole(r).IsStaff() {
		reservation, err := h.store.GetReservation(&model.FindReservation{ID: &id})
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if reservation == nil || reservation.MemberID != request.GetMemberID(r) {
			response.NotFound(w, r)
			return
		}
	}

	reservation, err := h.store.CancelReservation(id)
	if err != nil {
		log.Warn("Failed to cancel reservation", zap.Int32("reservation_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.OK(w, r, reservation)
}
