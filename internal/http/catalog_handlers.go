package http

import (
	"net/http"
	"strconv"

	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"

	"github.com/gorilla/mux"
)

// ListBooks handles GET /api/books
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseBookFilter(r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, logger.OpListBooks, err)
		return
	}

	page, err := h.catalog.ListBooks(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListBooks, err)
		return
	}
	h.respond(w, r, logger.OpListBooks, http.StatusOK, page)
}

// GetBook handles GET /api/books/{id}
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.GetBook(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, logger.OpGetBook, err)
		return
	}
	h.respond(w, r, logger.OpGetBook, http.StatusOK, book)
}

// CreateBook handles POST /api/admin/books
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var input models.BookInput
	if err := h.decodeBody(w, r, &input); err != nil {
		h.writeServiceError(w, r, logger.OpWriteBook, err)
		return
	}

	book, err := h.catalog.CreateBook(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, logger.OpWriteBook, err)
		return
	}
	h.respond(w, r, logger.OpWriteBook, http.StatusCreated, book)
}

// UpdateBook handles PUT /api/admin/books/{id}
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var input models.BookInput
	if err := h.decodeBody(w, r, &input); err != nil {
		h.writeServiceError(w, r, logger.OpWriteBook, err)
		return
	}

	book, err := h.catalog.UpdateBook(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		h.writeServiceError(w, r, logger.OpWriteBook, err)
		return
	}
	h.respond(w, r, logger.OpWriteBook, http.StatusOK, book)
}

// DeleteBook handles DELETE /api/admin/books/{id}
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteBook(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, logger.OpWriteBook, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListReferences handles GET /api/{kind}. With all=true the whole, unpaginated
// list is returned.
func (h *Handler) ListReferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind := models.ReferenceKind(mux.Vars(r)["kind"])
	query := r.URL.Query()

	if all, _ := strconv.ParseBool(query.Get("all")); all {
		refs, err := h.catalog.AllReferences(ctx, kind)
		if err != nil {
			h.writeServiceError(w, r, logger.OpListReferences, err)
			return
		}
		h.respond(w, r, logger.OpListReferences, http.StatusOK, refs)
		return
	}

	params, err := models.ParseListParams(query)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListReferences, err)
		return
	}

	page, err := h.catalog.ListReferences(ctx, kind, params)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListReferences, err)
		return
	}
	h.respond(w, r, logger.OpListReferences, http.StatusOK, page)
}

// GetReference handles GET /api/{kind}/{id}
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ref, err := h.catalog.GetReference(r.Context(), models.ReferenceKind(vars["kind"]), vars["id"])
	if err != nil {
		h.writeServiceError(w, r, logger.OpListReferences, err)
		return
	}
	h.respond(w, r, logger.OpListReferences, http.StatusOK, ref)
}

// CreateReference handles POST /api/admin/{kind}
func (h *Handler) CreateReference(w http.ResponseWriter, r *http.Request) {
	var input models.ReferenceInput
	if err := h.decodeBody(w, r, &input); err != nil {
		h.writeServiceError(w, r, logger.OpWriteReference, err)
		return
	}

	ref, err := h.catalog.CreateReference(r.Context(), models.ReferenceKind(mux.Vars(r)["kind"]), input)
	if err != nil {
		h.writeServiceError(w, r, logger.OpWriteReference, err)
		return
	}
	h.respond(w, r, logger.OpWriteReference, http.StatusCreated, ref)
}

// UpdateReference handles PUT /api/admin/{kind}/{id}
func (h *Handler) UpdateReference(w http.ResponseWriter, r *http.Request) {
	var input models.ReferenceInput
	if err := h.decodeBody(w, r, &input); err != nil {
		h.writeServiceError(w, r, logger.OpWriteReference, err)
		return
	}

	vars := mux.Vars(r)
	ref, err := h.catalog.UpdateReference(r.Context(), models.ReferenceKind(vars["kind"]), vars["id"], input)
	if err != nil {
		h.writeServiceError(w, r, logger.OpWriteReference, err)
		return
	}
	h.respond(w, r, logger.OpWriteReference, http.StatusOK, ref)
}

// DeleteReference handles DELETE /api/admin/{kind}/{id}
func (h *Handler) DeleteReference(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.catalog.DeleteReference(r.Context(), models.ReferenceKind(vars["kind"]), vars["id"]); err != nil {
		h.writeServiceError(w, r, logger.OpWriteReference, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
