package model

// ReservationStatus is a closed enumeration. Persisted values are the
// lowercase strings below; anything else read back from the database is
// rejected at scan time.
type ReservationStatus string

const (
	// ReservationPending is the only non-terminal state: the copy is held,
	// waiting for physical pickup.
	ReservationPending ReservationStatus = "pending"
	// ReservationConfirmedPickup means the member collected the book and a
	// loan was opened. Terminal for the reservation.
	ReservationConfirmedPickup ReservationStatus = "confirmed_pickup"
	// ReservationCancelled releases the held copy. Terminal.
	ReservationCancelled ReservationStatus = "cancelled"
	// ReservationExpired releases the held copy after the hold window
	// lapses. Terminal.
	ReservationExpired ReservationStatus = "expired"
)

// Valid reports whether the value is one of the declared statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmedPickup, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ReservationStatus) Terminal() bool {
	return s.Valid() && s != ReservationPending
}

// CanTransitionTo reports whether s -> next is a legal lifecycle move.
// Only pending -> {confirmed_pickup, cancelled, expired} exist.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return s == ReservationPending && next.Valid() && next != ReservationPending
}

// Reservation is a hold placed by a member on one unit of a book.
// Creating one decrements the book's available copies; cancelling or
// expiring it gives the unit back.
type Reservation struct {
	ID int32 `json:"id"`

	MemberID int32 `json:"member_id"`
	BookID   int32 `json:"book_id"`

	Status     ReservationStatus `json:"status"`
	ReservedAt int64             `json:"reserved_at"`
	UpdatedTs  int64             `json:"updated_ts"`
}

type FindReservation struct {
	ID       *int32             `json:"id"`
	MemberID *int32             `json:"member_id"`
	BookID   *int32             `json:"book_id"`
	Status   *ReservationStatus `json:"status"`

	// ActiveOnly narrows to pending and confirmed_pickup, the states the
	// management screen works with.
	ActiveOnly bool `json:"active_only"`

	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}

type ReservationCreateRequest struct {
	BookID int32 `json:"book_id"`
}
