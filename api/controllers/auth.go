package controllers

import (
	"net/http"
	"time"

	"github.com/grocerlane/gateway/api/middleware"
	"github.com/grocerlane/gateway/api/responses"
	"github.com/grocerlane/gateway/api/validators"
	"github.com/grocerlane/gateway/internal/auth"
	"github.com/grocerlane/gateway/internal/cart"
	"github.com/grocerlane/gateway/internal/notify"
	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/grocerlane/gateway/pkg/auth/session"
	"github.com/grocerlane/gateway/pkg/logger"
)

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Account   session.Record `json:"account"`
}

type registerRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,store_email"`
	ContactNumber string `json:"contactNumber" validate:"omitempty,contact_number"`
	Address       string `json:"address"`
	Password      string `json:"password" validate:"required,store_password"`
}

type profileUpdateRequest struct {
	Email         *string `json:"email" validate:"omitempty,store_email"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,contact_number"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,store_password"`
}

type restoreRequest struct {
	Password string `json:"password" validate:"required"`
}

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Identifier, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loginResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Account:   result.Account,
		})
	}
}

func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec, err := svc.Register(r.Context(), upstream.RegisterInput{
			Name:          body.Name,
			Email:         body.Email,
			ContactNumber: body.ContactNumber,
			Address:       body.Address,
			Password:      body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rec)
	}
}

// AuthLogout revokes the session and discards its cart and pending toasts.
func AuthLogout(svc auth.Service, carts cart.Service, toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)
		userID := middleware.UserIDFromContext(ctx)

		if err := svc.Logout(ctx, sessionID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if carts != nil {
			carts.Drop(sessionID)
		}
		if toasts != nil {
			toasts.Clear(sessionID)
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed out"})
	}
}

func AuthProfile(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Profile(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func AuthProfileUpdate(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rec, err := svc.UpdateProfile(ctx,
			middleware.SessionIDFromContext(ctx),
			middleware.UserIDFromContext(ctx),
			upstream.ProfileUpdate{
				Email:         body.Email,
				Address:       body.Address,
				ContactNumber: body.ContactNumber,
			})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func AuthChangePassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body changePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err := svc.ChangePassword(ctx, middleware.UserIDFromContext(ctx), upstream.PasswordChange{
			OldPassword: body.OldPassword,
			NewPassword: body.NewPassword,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password changed"})
	}
}

func AuthDeactivate(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rec, err := svc.Deactivate(ctx,
			middleware.SessionIDFromContext(ctx),
			middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func AuthRestore(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body restoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rec, err := svc.Restore(ctx,
			middleware.SessionIDFromContext(ctx),
			middleware.UserIDFromContext(ctx),
			body.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}
