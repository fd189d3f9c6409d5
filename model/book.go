package model // import "github.com/maktaba-io/maktaba/model"

import "strings"

// Book is a catalogue entry. TotalCopies counts the units the library
// owns; AvailableCopies counts the units not held by an active
// reservation or loan. 0 <= AvailableCopies <= TotalCopies always.
type Book struct {
	ID int32 `json:"id"`

	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`

	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Tags            string `json:"tags"`
	PublishedYear   int    `json:"published_year"`
	ImageURL        string `json:"image_url"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// TagList splits the comma-delimited tags column.
func (b *Book) TagList() []string {
	if b.Tags == "" {
		return nil
	}
	parts := strings.Split(b.Tags, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

type FindBook struct {
	ID       *int32  `json:"id"`
	ISBN     *string `json:"isbn"`
	Category *string `json:"category"`
	Tag      *string `json:"tag"`

	// Search matches title, author or ISBN.
	Search *string `json:"search"`

	// The maximum number of books to return.
	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}

type BookCreateRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Tags            string `json:"tags"`
	PublishedYear   int    `json:"published_year"`
	ImageURL        string `json:"image_url"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

type BookUpdateRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Tags            string `json:"tags"`
	PublishedYear   int    `json:"published_year"`
	ImageURL        string `json:"image_url"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}
