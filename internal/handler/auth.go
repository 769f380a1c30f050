// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/middleware"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/render"
	"github.com/tntware/catalog-admin/internal/session"
)

// AuthHandler handles login, logout and password changes against the
// catalog backend.
type AuthHandler struct {
	api      *api.Client
	renderer *render.Renderer
	store    *session.Store
	bus      *notify.Bus
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(client *api.Client, renderer *render.Renderer, store *session.Store, bus *notify.Bus) *AuthHandler {
	return &AuthHandler{api: client, renderer: renderer, store: store, bus: bus}
}

// LoginFormData holds data for the login template.
type LoginFormData struct {
	Email string
	Error string
}

// LoginForm displays the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.store.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, middleware.ProductsPath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, LoginFormData{})
}

// Login processes the login form.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, LoginFormData{Error: "Invalid form data"})
		return
	}

	form := LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if msg := ValidateForm(form); msg != "" {
		h.renderLogin(w, r, LoginFormData{Email: form.Email, Error: msg})
		return
	}

	identity, err := h.api.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		slog.Warn("login failed", "email", form.Email, "error", err)
		h.renderLogin(w, r, LoginFormData{
			Email: form.Email,
			Error: api.UserMessage(err, "Login failed. Please try again."),
		})
		return
	}

	if err := h.store.SetIdentity(r.Context(), identity.Token, identity.User); err != nil {
		slog.Error("failed to store identity", "error", err)
		h.renderLogin(w, r, LoginFormData{Email: form.Email, Error: "Login failed. Please try again."})
		return
	}

	slog.Info("user logged in", "user_id", identity.User.ID, "role", identity.User.Role)
	notifySuccess(w, r, h.bus, middleware.ProductsPath, "Login Successful", "Welcome back, "+identity.User.Name)
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ChangePasswordData holds data for the change-password template.
type ChangePasswordData struct {
	Error string
}

// ChangePasswordForm displays the change-password page.
func (h *AuthHandler) ChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	h.renderChangePassword(w, r, ChangePasswordData{})
}

// ChangePassword processes the change-password form.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderChangePassword(w, r, ChangePasswordData{Error: "Invalid form data"})
		return
	}

	form := ChangePasswordForm{
		OldPassword:     r.PostFormValue("old_password"),
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if msg := ValidateForm(form); msg != "" {
		h.renderChangePassword(w, r, ChangePasswordData{Error: msg})
		return
	}

	err := h.api.ChangePassword(r.Context(), form.OldPassword, form.NewPassword, form.ConfirmPassword)
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		h.renderChangePassword(w, r, ChangePasswordData{
			Error: api.UserMessage(err, "Failed to change password."),
		})
		return
	}

	notifySuccess(w, r, h.bus, middleware.ProductsPath, "Password Changed", "Your password has been updated.")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, data LoginFormData) {
	err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Login",
		Data:  data,
	})
	if err != nil {
		slog.Error("failed to render login page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) renderChangePassword(w http.ResponseWriter, r *http.Request, data ChangePasswordData) {
	err := h.renderer.Render(w, r, "auth/change_password", render.TemplateData{
		Title:       "Change Password",
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	})
	if err != nil {
		slog.Error("failed to render change password page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
