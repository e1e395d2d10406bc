package rest

import (
	"net/http"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/service"
	"github.com/go-chi/chi/v5"
)

const msgUserNotFound = "User not found"

type UserHandler struct {
	users service.UserService
	log   logger.Logger
}

func NewUserHandler(users service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type profileUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type adminUserUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=user admin"`
}

type userResponse struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
	Token string      `json:"token,omitempty"`
}

func toUserResponse(u *entity.User, token string) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	res, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(res.User, res.Token))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(res.User, res.Token))
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondMessage(w, http.StatusOK, "Password reset email sent")
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	if err := h.users.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondMessage(w, http.StatusOK, "Password has been reset successfully")
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetProfile(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u, ""))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	res, err := h.users.UpdateProfile(r.Context(), currentUser(r).ID, service.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(res.User, res.Token))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req adminUserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	upd := service.AdminUserUpdate{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		upd.Role = &role
	}
	u, err := h.users.AdminUpdate(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u, ""))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, msgUserNotFound)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}
