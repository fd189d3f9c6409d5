package model

// LoanStatus is a closed enumeration over the borrowing lifecycle.
type LoanStatus string

const (
	LoanBorrowed LoanStatus = "borrowed"
	LoanReturned LoanStatus = "returned"
)

func (s LoanStatus) Valid() bool {
	return s == LoanBorrowed || s == LoanReturned
}

// Loan is an active borrowing record. One is created, atomically, when a
// pending reservation is confirmed for pickup; returning it gives the
// unit back to the catalogue.
type Loan struct {
	ID int32 `json:"id"`

	MemberID int32 `json:"member_id"`
	BookID   int32 `json:"book_id"`

	BorrowedAt int64      `json:"borrowed_at"`
	DueDate    int64      `json:"due_date"`
	ReturnedAt *int64     `json:"returned_at"`
	Status     LoanStatus `json:"status"`
}

// Overdue reports whether the loan is still out past its due date.
func (l *Loan) Overdue(now int64) bool {
	return l.Status == LoanBorrowed && l.DueDate < now
}

type FindLoan struct {
	ID       *int32      `json:"id"`
	MemberID *int32      `json:"member_id"`
	BookID   *int32      `json:"book_id"`
	Status   *LoanStatus `json:"status"`

	// OverdueOnly narrows to borrowed loans whose due date has passed.
	OverdueOnly bool `json:"overdue_only"`

	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}
