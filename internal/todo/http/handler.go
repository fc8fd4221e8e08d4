package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/tada/internal/access"
	"github.com/AlibekovAA/tada/internal/common/constants"
	"github.com/AlibekovAA/tada/internal/common/dto"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/common/mapper"
	"github.com/AlibekovAA/tada/internal/todo/domain"
	"github.com/AlibekovAA/tada/internal/todo/service"
)

type Handler struct {
	todos      *service.TodoService
	errHandler *commonhttp.ErrorHandler
}

func NewHandler(todos *service.TodoService, log *logger.Logger) *Handler {
	return &Handler{todos: todos, errHandler: commonhttp.NewErrorHandler(log)}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	result, err := h.todos.ListForOwner(r.Context(), access.MustPrincipal(r).ID, page)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.TodoPageToDTO(result))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), service.CreateInput{
		Title:     req.Title,
		Completed: req.Completed,
	}, access.MustPrincipal(r).ID)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, mapper.TodoToDTO(todo))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.Get(r.Context(), id, access.MustPrincipal(r).ID)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.TodoToDTO(todo))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathTodoID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	todo, err := h.todos.Update(r.Context(), id, mapper.TodoPatchFromDTO(req), access.MustPrincipal(r).ID)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.TodoToDTO(todo))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathTodoID(w, r)
	if !ok {
		return
	}

	if err := h.todos.Delete(r.Context(), id, access.MustPrincipal(r).ID); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathTodoID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	id := chi.URLParam(r, "id")
	if err := commonhttp.ValidateUUID(id); err != nil {
		h.errHandler.HandleError(w, r, err)
		return "", false
	}
	return domain.ID(id), true
}

func pageFromQuery(r *http.Request) (domain.PageRequest, error) {
	page := domain.PageRequest{Page: constants.DefaultPageIndex, Size: constants.DefaultPageSize}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, commonerrors.ErrValidation.WithMessage("page must be a non-negative integer")
		}
		page.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return page, commonerrors.ErrValidation.WithMessage("size must be a positive integer")
		}
		page.Size = n
	}
	if page.Page > page.Normalize().MaxPage() {
		return page, commonerrors.ErrValidation.WithMessage("page is out of range")
	}
	return page, nil
}
