package v1

import (
	"net/http"

	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/store"
	"github.com/pkg/errors"
)

// respondStoreError maps the store's error taxonomy onto HTTP statuses.
// Business-rule failures keep their message; anything unexpected becomes
// a generic 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w, r)
	case errors.Is(err, store.ErrInvalidState),
		errors.Is(err, store.ErrBookUnavailable),
		errors.Is(err, store.ErrDuplicateReservation),
		errors.Is(err, store.ErrFeeBalanceOutstanding):
		response.BadRequest(w, r, err)
	default:
		response.ServerError(w, r, err)
	}
}
