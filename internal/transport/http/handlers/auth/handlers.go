package authhandler

import (
	"context"
	"errors"
	"net/http"
	"unicode"

	"github.com/go-chi/chi/v5"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
	ChangePassword(ctx context.Context, userID, newPassword string) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/password", h.HandleChangePassword)
	r.Get("/auth/me", h.HandleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, auth.ErrInactiveUser):
		api.Fail(w, http.StatusForbidden, "inactive_user", "la cuenta está desactivada", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, session, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload changePasswordRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	if err := validateNewPassword(payload.NewPassword); err != nil {
		v := shared.NewValidator()
		v.Add("newPassword", err.Error())
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.ChangePassword(r.Context(), user.UserID, payload.NewPassword); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "password_changed"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": user.UserID, "email": user.Email, "role": user.Role}, middleware.GetRequestID(r.Context()))
}

var errWeakPassword = errors.New("debe tener al menos 8 caracteres, con mayúscula, minúscula y número")

func validateNewPassword(password string) error {
	if len(password) < 8 {
		return errWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return errWeakPassword
	}
	return nil
}
