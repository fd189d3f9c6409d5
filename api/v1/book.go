package v1

import (
	"encoding/json"
	"net/http"

	"github.com/maktaba-io/maktaba/http/request"
	"github.com/maktaba-io/maktaba/http/response"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/validator"
	"go.uber.org/zap"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{}
	if v := request.QueryStringParam(r, "search", ""); v != "" {
		find.Search = &v
	}
	if v := request.QueryStringParam(r, "category", ""); v != "" {
		find.Category = &v
	}
	if v := request.QueryStringParam(r, "tag", ""); v != "" {
		find.Tag = &v
	}
	limit := request.QueryIntParam(r, "limit", 50)
	offset := request.QueryIntParam(r, "offset", 0)
	find.Limit = &limit
	find.Offset = &offset

	books, err := h.store.ListBooks(find)
	if err != nil {
		log.Error("Error listing books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		log.Error("Error getting book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var create model.BookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if verr := validator.ValidateBookCreateRequest(h.store, &create); verr.HasErrors() {
		response.ValidationFailed(w, r, verr)
		return
	}

	book, err := h.store.CreateBook(&model.Book{
		Title:           create.Title,
		Author:          create.Author,
		ISBN:            create.ISBN,
		Category:        create.Category,
		Description:     create.Description,
		Tags:            create.Tags,
		PublishedYear:   create.PublishedYear,
		ImageURL:        create.ImageURL,
		TotalCopies:     create.TotalCopies,
		AvailableCopies: create.AvailableCopies,
	})
	if err != nil {
		log.Error("Failed to create book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, book)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	var update model.BookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if verr := validator.ValidateBookUpdateRequest(h.store, id, &update); verr.HasErrors() {
		response.ValidationFailed(w, r, verr)
		return
	}

	book, err := h.store.UpdateBook(id, &update)
	if err != nil {
		log.Error("Failed to update book", zap.Int32("book_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.OK(w, r, book)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt32Param(r, "id")

	if err := h.store.DeleteBook(id); err != nil {
		log.Error("Failed to delete book", zap.Int32("book_id", id), zap.Error(err))
		respondStoreError(w, r, err)
		return
	}

	response.NoContent(w, r)
}
