package validator

import (
	"time"

	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/store"
)

const (
	OpBookAdding  = "bookAdding"
	OpBookEditing = "bookEditing"
)

func ValidateBookCreateRequest(s *store.Store, create *model.BookCreateRequest) *store.ValidationError {
	verr := store.NewValidationError(OpBookAdding)
	if create == nil {
		return verr.Add("request", "is empty")
	}
	validateBookFields(verr, create.Title, create.Author, create.ISBN, create.Category, create.PublishedYear, create.TotalCopies, create.AvailableCopies)
	if verr.HasErrors() {
		return verr
	}

	if book, _ := s.GetBook(&model.FindBook{ISBN: &create.ISBN}); book != nil {
		verr.Add("isbn", "already exists")
	}
	return verr
}

func ValidateBookUpdateRequest(s *store.Store, id int32, update *model.BookUpdateRequest) *store.ValidationError {
	verr := store.NewValidationError(OpBookEditing)
	if update == nil {
		return verr.Add("request", "is empty")
	}
	validateBookFields(verr, update.Title, update.Author, update.ISBN, update.Category, update.PublishedYear, update.TotalCopies, update.AvailableCopies)
	if verr.HasErrors() {
		return verr
	}

	if book, _ := s.GetBook(&model.FindBook{ISBN: &update.ISBN}); book != nil && book.ID != id {
		verr.Add("isbn", "already exists")
	}
	return verr
}

func validateBookFields(verr *store.ValidationError, title, author, isbn, category string, publishedYear, totalCopies, availableCopies int) {
	if title == "" {
		verr.Add("title", "is required")
	}
	if author == "" {
		verr.Add("author", "is required")
	}
	if isbn == "" {
		verr.Add("isbn", "is required")
	}
	if category == "" {
		verr.Add("category", "is required")
	}
	if publishedYear < 1000 || publishedYear > time.Now().Year()+1 {
		verr.Add("published_year", "is out of range")
	}
	if totalCopies < 0 {
		verr.Add("total_copies", "must be a non-negative integer")
	}
	if availableCopies < 0 {
		verr.Add("available_copies", "must be a non-negative integer")
	} else if availableCopies > totalCopies {
		verr.Add("available_copies", "cannot exceed total copies")
	}
}
