package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/tada/internal/access"
	"github.com/AlibekovAA/tada/internal/common/dto"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/common/mapper"
	"github.com/AlibekovAA/tada/internal/user/domain"
	"github.com/AlibekovAA/tada/internal/user/service"
)

type Handler struct {
	accounts   *service.AccountService
	errHandler *commonhttp.ErrorHandler
	log        *logger.Logger
}

func NewHandler(accounts *service.AccountService, log *logger.Logger) *Handler {
	return &Handler{
		accounts:   accounts,
		errHandler: commonhttp.NewErrorHandler(log),
		log:        log,
	}
}

// PublicRoutes mounts the unauthenticated account endpoints.
func (h *Handler) PublicRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/register", h.register)
}

// UserRoutes mounts the self-service endpoints. The caller is the principal.
func (h *Handler) UserRoutes(r chi.Router, passwordLimit func(http.Handler) http.Handler) {
	r.Get("/me", h.me)
	r.Put("/me", h.updateMe)
	r.Delete("/me", h.deleteMe)
	r.With(passwordLimit).Put("/change-password", h.changePassword)
}

// AdminRoutes mounts user management. Role gating happens before these.
func (h *Handler) AdminRoutes(r chi.Router, passwordLimit func(http.Handler) http.Handler) {
	r.Get("/users", h.listUsers)
	r.Post("/users", h.createUser)
	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/", h.getUser)
		r.Delete("/", h.deleteUser)
		r.Put("/roles", h.updateRoles)
		r.With(passwordLimit).Put("/password", h.resetPassword)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, mapper.UserToDTO(user))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal := access.MustPrincipal(r)

	user, err := h.accounts.GetUser(r.Context(), principal.ID)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToDTO(user))
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	principal := access.MustPrincipal(r)

	var req dto.UpdateProfileRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), principal.ID, domain.ProfilePatch{Username: req.Username})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToDTO(user))
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	principal := access.MustPrincipal(r)

	if err := h.accounts.DeleteUser(r.Context(), principal.ID); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	principal := access.MustPrincipal(r)

	var req dto.ChangePasswordRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), principal.ID, req.OldPassword, req.NewPassword); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.UsersToDTO(users))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	user, err := h.accounts.CreateWithRoles(r.Context(), service.CreateInput{
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	admin := access.MustPrincipal(r)
	h.log.WithFields(r.Context(), logger.Fields{
		"admin_id": string(admin.ID),
		"user_id":  string(user.ID),
		"action":   "admin_create_user",
	}).Info("admin created user")

	commonhttp.WriteJSON(w, http.StatusCreated, mapper.UserToDTO(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToDTO(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteUser(r.Context(), id); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRolesRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	if req.Roles == nil {
		h.errHandler.HandleError(w, r, commonerrors.ErrValidation.WithMessage("roles is required"))
		return
	}

	user, err := h.accounts.UpdateRoles(r.Context(), id, *req.Roles)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToDTO(user))
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	var req dto.ResetPasswordRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	id := chi.URLParam(r, "id")
	if err := commonhttp.ValidateUUID(id); err != nil {
		h.errHandler.HandleError(w, r, err)
		return "", false
	}
	return domain.ID(id), true
}
