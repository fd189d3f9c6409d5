package v1

import (
	"net/http"

	"github.com/maktaba-io/maktaba/middleware"
	"github.com/maktaba-io/maktaba/store"
	"github.com/gorilla/mux"
)

type Handler struct {
	store *store.Store
	// For JWT
	secret string
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(store *store.Store, secret string) *Handler {
	return &Handler{
		store:  store,
		secret: secret,
	}
}

func Server(router *mux.Router, handler *Handler) {
	sr := router.PathPrefix("/api/v1").Subrouter()
	middleware := middleware.NewMiddleware(handler.store)
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.LoggingRequest)
	sr.Use(NewAuthInterceptor(handler.store, handler.secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/signin", handler.signIn).Methods(http.MethodPost)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/book", handler.createBook).Methods(http.MethodPost)
	sr.HandleFunc("/book/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/book/{id}", handler.updateBook).Methods(http.MethodPut)
	sr.HandleFunc("/book/{id}", handler.deleteBook).Methods(http.MethodDelete)

	sr.HandleFunc("/members", handler.listMembers).Methods(http.MethodGet)
	sr.HandleFunc("/member", handler.createMember).Methods(http.MethodPost)
	sr.HandleFunc("/member/{id}", handler.updateMember).Methods(http.MethodPut)
	sr.HandleFunc("/member/{id}", handler.deleteMember).Methods(http.MethodDelete)
	sr.HandleFunc("/member/{id}/fee", handler.setFeeBalance).Methods(http.MethodPut)
	sr.HandleFunc("/members/import", handler.importMembers).Methods(http.MethodPost)

	sr.HandleFunc("/reservations", handler.listReservations).Methods(http.MethodGet)
	sr.HandleFunc("/reservations", handler.createReservation).Methods(http.MethodPost)
	sr.HandleFunc("/reservation/{id}/confirm", handler.confirmPickup).Methods(http.MethodPost)
	sr.HandleFunc("/reservation/{id}/cancel", handler.cancelReservation).Methods(http.MethodPost)

	sr.HandleFunc("/loans", handler.listLoans).Methods(http.MethodGet)
	sr.HandleFunc("/loans/overdue", handler.listOverdueLoans).Methods(http.MethodGet)
	sr.HandleFunc("/loan/{id}/return", handler.returnLoan).Methods(http.MethodPost)
}
