// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/debounce"
	"github.com/tntware/catalog-admin/internal/listsync"
	"github.com/tntware/catalog-admin/internal/middleware"
	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/render"
	"github.com/tntware/catalog-admin/internal/session"
)

// UsersPath is the user management list page. Admin only.
const UsersPath = "/dashboard/users"

// UsersHandler handles user management pages. Routes using it sit
// behind middleware.RequireAdmin; the backend also excludes the
// requesting account from the list it returns.
type UsersHandler struct {
	api      *api.Client
	renderer *render.Renderer
	store    *session.Store
	bus      *notify.Bus
	syncs    *listsync.Registry
	perPage  int
	timeout  time.Duration
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(client *api.Client, renderer *render.Renderer, store *session.Store,
	bus *notify.Bus, syncs *listsync.Registry, perPage int, timeout time.Duration) *UsersHandler {
	return &UsersHandler{
		api:      client,
		renderer: renderer,
		store:    store,
		bus:      bus,
		syncs:    syncs,
		perPage:  perPage,
		timeout:  timeout,
	}
}

func (h *UsersHandler) sync(r *http.Request) *listsync.Synchronizer[model.User] {
	key := h.store.SessionID(r.Context()) + ":users"
	token := h.store.Token(r.Context())
	return listsync.For(h.syncs, key, func() *listsync.Synchronizer[model.User] {
		s := listsync.New(func(ctx context.Context, q listsync.Query) (listsync.Result[model.User], error) {
			list, err := h.api.ListUsers(api.ContextWithToken(ctx, token), q.Page, q.Search)
			if err != nil {
				return listsync.Result[model.User]{}, err
			}
			return listsync.Result[model.User]{Items: list.Items, Total: list.Total}, nil
		})
		s.EnableDebouncedSearch(debounce.DefaultQuiet, h.timeout)
		return s
	})
}

// UserListData holds data for the user list template.
type UserListData struct {
	Users      []model.User
	Search     string
	Pagination Pagination
	LoadFailed bool
}

// List displays the paginated user list.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	sync := h.sync(r)
	params := r.URL.Query()

	var snap listsync.Snapshot[model.User]
	if params.Has("q") || params.Has("page") {
		snap = sync.Apply(r.Context(), ParsePageParam(r), params.Get("q"), "")
	} else {
		snap = sync.Refresh(r.Context())
	}

	if snap.Err != nil {
		if handleUnauthorized(w, r, h.store, snap.Err) {
			return
		}
		slog.Error("failed to load users", "error", snap.Err)
		h.bus.Error(r.Context(), "Failed to Load Users",
			api.UserMessage(snap.Err, "Failed to load users."))
	}

	preserved := make(map[string][]string)
	if snap.Query.Search != "" {
		preserved["q"] = []string{snap.Query.Search}
	}

	data := UserListData{
		Users:      snap.Items,
		Search:     snap.Query.Search,
		Pagination: BuildPagination(snap.Query.Page, snap.Total, h.perPage, UsersPath, preserved),
		LoadFailed: snap.State == listsync.StateFailed,
	}
	h.render(w, r, "dashboard/users", "Users", data)
}

// Search feeds a raw keystroke-level search value into the debouncer.
func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	h.sync(r).UpdateSearch(r.PostFormValue("q"))
	w.WriteHeader(http.StatusAccepted)
}

// UserFormData holds data for the user form template.
type UserFormData struct {
	User   model.User
	Roles  []string
	IsEdit bool
	Error  string
}

// NewForm displays the user creation form.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, UserFormData{Roles: model.ValidRoles})
}

// Create processes the user creation form. Password is required here,
// unlike on edit.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.bus, UsersPath+"/new") {
		return
	}

	form := UserForm{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
		Password: r.PostFormValue("password"),
	}
	submitted := model.User{Name: form.Name, Email: form.Email, Role: form.Role}

	msg := ValidateForm(form)
	if msg == "" && form.Password == "" {
		msg = "Password is required"
	}
	if msg != "" {
		h.renderForm(w, r, UserFormData{User: submitted, Roles: model.ValidRoles, Error: msg})
		return
	}

	err := h.api.CreateUser(r.Context(), api.UserInput{
		Name:     form.Name,
		Email:    form.Email,
		Role:     form.Role,
		Password: &form.Password,
	})
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to create user", "error", err)
		h.renderForm(w, r, UserFormData{
			User:  submitted,
			Roles: model.ValidRoles,
			Error: api.UserMessage(err, "Failed to create user."),
		})
		return
	}

	q := h.sync(r).CurrentQuery()
	notifySuccess(w, r, h.bus, listURL(UsersPath, q.Page, q.Search, ""),
		"User Created", form.Name+" has been created.")
}

// EditForm displays the user edit form.
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.api.GetUser(r.Context(), id)
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to load user", "error", err, "user_id", id)
		notifyError(w, r, h.bus, UsersPath, "Failed to Load User",
			api.UserMessage(err, "Failed to load user."))
		return
	}
	h.renderForm(w, r, UserFormData{User: user, Roles: model.ValidRoles, IsEdit: true})
}

// Update processes the user edit form. A blank password means "keep the
// current password" and is omitted from the request entirely.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.bus, UsersPath) {
		return
	}

	form := UserForm{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
		Password: r.PostFormValue("password"),
	}
	submitted := model.User{ID: id, Name: form.Name, Email: form.Email, Role: form.Role}

	if msg := ValidateForm(form); msg != "" {
		h.renderForm(w, r, UserFormData{User: submitted, Roles: model.ValidRoles, IsEdit: true, Error: msg})
		return
	}

	input := api.UserInput{
		Name:  form.Name,
		Email: form.Email,
		Role:  form.Role,
	}
	if form.Password != "" {
		input.Password = &form.Password
	}

	if err := h.api.UpdateUser(r.Context(), id, input); err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to update user", "error", err, "user_id", id)
		h.renderForm(w, r, UserFormData{
			User:   submitted,
			Roles:  model.ValidRoles,
			IsEdit: true,
			Error:  api.UserMessage(err, "Failed to update user."),
		})
		return
	}

	q := h.sync(r).CurrentQuery()
	notifySuccess(w, r, h.bus, listURL(UsersPath, q.Page, q.Search, ""),
		"User Updated", form.Name+" has been updated.")
}

// Delete removes a user and returns to the list.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := h.sync(r).CurrentQuery()
	backTo := listURL(UsersPath, q.Page, q.Search, "")

	if err := h.api.DeleteUser(r.Context(), id); err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to delete user", "error", err, "user_id", id)
		notifyError(w, r, h.bus, backTo, "Failed to Delete User",
			api.UserMessage(err, "Failed to delete user."))
		return
	}

	notifySuccess(w, r, h.bus, backTo, "User Deleted", "The user has been deleted.")
}

func (h *UsersHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:       title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	})
	if err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *UsersHandler) renderForm(w http.ResponseWriter, r *http.Request, data UserFormData) {
	title := "New User"
	if data.IsEdit {
		title = "Edit User"
	}
	h.render(w, r, "dashboard/user_form", title, data)
}
