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
	"github.com/tntware/catalog-admin/internal/cache"
	"github.com/tntware/catalog-admin/internal/debounce"
	"github.com/tntware/catalog-admin/internal/listsync"
	"github.com/tntware/catalog-admin/internal/middleware"
	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/render"
	"github.com/tntware/catalog-admin/internal/session"
)

// CategoriesPath is the category list page.
const CategoriesPath = "/dashboard/categories"

// CategoriesHandler handles category management pages.
type CategoriesHandler struct {
	api      *api.Client
	renderer *render.Renderer
	store    *session.Store
	bus      *notify.Bus
	syncs    *listsync.Registry
	catCache *cache.Categories
	perPage  int
	timeout  time.Duration
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(client *api.Client, renderer *render.Renderer, store *session.Store,
	bus *notify.Bus, syncs *listsync.Registry, catCache *cache.Categories,
	perPage int, timeout time.Duration) *CategoriesHandler {
	return &CategoriesHandler{
		api:      client,
		renderer: renderer,
		store:    store,
		bus:      bus,
		syncs:    syncs,
		catCache: catCache,
		perPage:  perPage,
		timeout:  timeout,
	}
}

// sync returns this session's category list synchronizer, creating it
// on first use. The bearer token is bound into the fetch closure so
// debounced background fetches authenticate without a request context.
func (h *CategoriesHandler) sync(r *http.Request) *listsync.Synchronizer[model.Category] {
	key := h.store.SessionID(r.Context()) + ":categories"
	token := h.store.Token(r.Context())
	return listsync.For(h.syncs, key, func() *listsync.Synchronizer[model.Category] {
		s := listsync.New(func(ctx context.Context, q listsync.Query) (listsync.Result[model.Category], error) {
			list, err := h.api.ListCategories(api.ContextWithToken(ctx, token), q.Page, q.Search)
			if err != nil {
				return listsync.Result[model.Category]{}, err
			}
			return listsync.Result[model.Category]{Items: list.Items, Total: list.Total}, nil
		})
		s.EnableDebouncedSearch(debounce.DefaultQuiet, h.timeout)
		return s
	})
}

// CategoryListData holds data for the category list template.
type CategoryListData struct {
	Categories []model.Category
	Search     string
	Pagination Pagination
	LoadFailed bool
}

// List displays the paginated category list. Explicit query parameters
// reconcile into the synchronizer; a bare GET re-fetches at the current
// query state (this is how the page reloads after a debounced search
// settles).
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	sync := h.sync(r)
	params := r.URL.Query()

	var snap listsync.Snapshot[model.Category]
	if params.Has("q") || params.Has("page") {
		snap = sync.Apply(r.Context(), ParsePageParam(r), params.Get("q"), "")
	} else {
		snap = sync.Refresh(r.Context())
	}

	if snap.Err != nil {
		if handleUnauthorized(w, r, h.store, snap.Err) {
			return
		}
		slog.Error("failed to load categories", "error", snap.Err)
		h.bus.Error(r.Context(), "Failed to Load Categories",
			api.UserMessage(snap.Err, "Failed to load categories."))
	}

	preserved := make(map[string][]string)
	if snap.Query.Search != "" {
		preserved["q"] = []string{snap.Query.Search}
	}

	data := CategoryListData{
		Categories: snap.Items,
		Search:     snap.Query.Search,
		Pagination: BuildPagination(snap.Query.Page, snap.Total, h.perPage, CategoriesPath, preserved),
		LoadFailed: snap.State == listsync.StateFailed,
	}
	h.render(w, r, "dashboard/categories", "Categories", data)
}

// Search feeds a raw keystroke-level search value into the debouncer.
// The page's script calls this on every input event and reloads the
// list once the quiet period has passed.
func (h *CategoriesHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	h.sync(r).UpdateSearch(r.PostFormValue("q"))
	w.WriteHeader(http.StatusAccepted)
}

// CategoryFormData holds data for the category form template.
type CategoryFormData struct {
	Category model.Category
	IsEdit   bool
	Error    string
}

// NewForm displays the category creation form.
func (h *CategoriesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, CategoryFormData{})
}

// Create processes the category creation form.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.bus, CategoriesPath+"/new") {
		return
	}

	form := CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	submitted := model.Category{Name: form.Name, Description: form.Description}

	if msg := ValidateForm(form); msg != "" {
		h.renderForm(w, r, CategoryFormData{Category: submitted, Error: msg})
		return
	}

	err := h.api.CreateCategory(r.Context(), api.CategoryInput{
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to create category", "error", err)
		h.renderForm(w, r, CategoryFormData{
			Category: submitted,
			Error:    api.UserMessage(err, "Failed to create category."),
		})
		return
	}

	h.catCache.Invalidate(r.Context())
	q := h.sync(r).CurrentQuery()
	notifySuccess(w, r, h.bus, listURL(CategoriesPath, q.Page, q.Search, ""),
		"Category Created", form.Name+" has been created.")
}

// EditForm displays the category edit form.
func (h *CategoriesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := h.api.GetCategory(r.Context(), id)
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to load category", "error", err, "category_id", id)
		notifyError(w, r, h.bus, CategoriesPath, "Failed to Load Category",
			api.UserMessage(err, "Failed to load category."))
		return
	}
	h.renderForm(w, r, CategoryFormData{Category: category, IsEdit: true})
}

// Update processes the category edit form.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.bus, CategoriesPath) {
		return
	}

	form := CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	submitted := model.Category{ID: id, Name: form.Name, Description: form.Description}

	if msg := ValidateForm(form); msg != "" {
		h.renderForm(w, r, CategoryFormData{Category: submitted, IsEdit: true, Error: msg})
		return
	}

	err := h.api.UpdateCategory(r.Context(), id, api.CategoryInput{
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to update category", "error", err, "category_id", id)
		h.renderForm(w, r, CategoryFormData{
			Category: submitted,
			IsEdit:   true,
			Error:    api.UserMessage(err, "Failed to update category."),
		})
		return
	}

	h.catCache.Invalidate(r.Context())
	q := h.sync(r).CurrentQuery()
	notifySuccess(w, r, h.bus, listURL(CategoriesPath, q.Page, q.Search, ""),
		"Category Updated", form.Name+" has been updated.")
}

// Delete removes a category and refreshes the list.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := h.sync(r).CurrentQuery()
	backTo := listURL(CategoriesPath, q.Page, q.Search, "")

	if err := h.api.DeleteCategory(r.Context(), id); err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to delete category", "error", err, "category_id", id)
		notifyError(w, r, h.bus, backTo, "Failed to Delete Category",
			api.UserMessage(err, "Failed to delete category."))
		return
	}

	h.catCache.Invalidate(r.Context())
	notifySuccess(w, r, h.bus, backTo, "Category Deleted", "The category has been deleted.")
}

func (h *CategoriesHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
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

func (h *CategoriesHandler) renderForm(w http.ResponseWriter, r *http.Request, data CategoryFormData) {
	title := "New Category"
	if data.IsEdit {
		title = "Edit Category"
	}
	h.render(w, r, "dashboard/category_form", title, data)
}
