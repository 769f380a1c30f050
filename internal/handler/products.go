// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/cache"
	"github.com/tntware/catalog-admin/internal/debounce"
	"github.com/tntware/catalog-admin/internal/images"
	"github.com/tntware/catalog-admin/internal/listsync"
	"github.com/tntware/catalog-admin/internal/middleware"
	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/render"
	"github.com/tntware/catalog-admin/internal/session"
)

// ProductsPath is the product list page. Role-denied users land here.
const ProductsPath = middleware.ProductsPath

// maxProductFormMemory bounds in-memory multipart parsing; ten images
// at 5MB each plus form fields fit comfortably.
const maxProductFormMemory = 64 << 20

// ProductsHandler handles product management pages.
type ProductsHandler struct {
	api        *api.Client
	renderer   *render.Renderer
	store      *session.Store
	bus        *notify.Bus
	syncs      *listsync.Registry
	catCache   *cache.Categories
	fetchImage images.FetchFunc
	assetBase  string
	perPage    int
	timeout    time.Duration
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(client *api.Client, renderer *render.Renderer, store *session.Store,
	bus *notify.Bus, syncs *listsync.Registry, catCache *cache.Categories,
	fetchImage images.FetchFunc, assetBase string, perPage int, timeout time.Duration) *ProductsHandler {
	return &ProductsHandler{
		api:        client,
		renderer:   renderer,
		store:      store,
		bus:        bus,
		syncs:      syncs,
		catCache:   catCache,
		fetchImage: fetchImage,
		assetBase:  assetBase,
		perPage:    perPage,
		timeout:    timeout,
	}
}

// sync returns this session's product list synchronizer, creating it on
// first use. The bearer token is bound into the fetch closure so
// debounced background fetches authenticate without a request context.
func (h *ProductsHandler) sync(r *http.Request) *listsync.Synchronizer[model.Product] {
	key := h.store.SessionID(r.Context()) + ":products"
	token := h.store.Token(r.Context())
	return listsync.For(h.syncs, key, func() *listsync.Synchronizer[model.Product] {
		s := listsync.New(func(ctx context.Context, q listsync.Query) (listsync.Result[model.Product], error) {
			list, err := h.api.ListProducts(api.ContextWithToken(ctx, token), q.Page, q.Search, q.Filter)
			if err != nil {
				return listsync.Result[model.Product]{}, err
			}
			return listsync.Result[model.Product]{Items: list.Items, Total: list.Total}, nil
		})
		s.EnableDebouncedSearch(debounce.DefaultQuiet, h.timeout)
		return s
	})
}

// categoryOptions loads the category dropdown entries, returning an
// empty list (with a log line) if the lookup fails. The filter and the
// form still render without options.
func (h *ProductsHandler) categoryOptions(ctx context.Context) []model.CategoryOption {
	categories, err := h.catCache.All(ctx)
	if err != nil {
		slog.Error("failed to load category options", "error", err)
		return nil
	}
	return model.Options(categories)
}

// ProductListData holds data for the product list template.
type ProductListData struct {
	Products   []model.Product
	Search     string
	CategoryID string
	Categories []model.CategoryOption
	// CategoryNames maps category id to display name for the table;
	// unresolvable ids map to themselves.
	CategoryNames map[string]string
	// Previews maps product id to its deduplicated image carousel.
	Previews   map[string]*images.Preview
	Pagination Pagination
	LoadFailed bool
}

// List displays the paginated, searchable, category-filterable product
// list. Explicit query parameters reconcile into the synchronizer; a
// bare GET re-fetches at the current query state.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	sync := h.sync(r)
	params := r.URL.Query()

	var snap listsync.Snapshot[model.Product]
	if params.Has("q") || params.Has("category") || params.Has("page") {
		snap = sync.Apply(r.Context(), ParsePageParam(r), params.Get("q"), params.Get("category"))
	} else {
		snap = sync.Refresh(r.Context())
	}

	if snap.Err != nil {
		if handleUnauthorized(w, r, h.store, snap.Err) {
			return
		}
		slog.Error("failed to load products", "error", snap.Err)
		h.bus.Error(r.Context(), "Failed to Load Products",
			api.UserMessage(snap.Err, "Failed to load products."))
	}

	preserved := make(map[string][]string)
	if snap.Query.Search != "" {
		preserved["q"] = []string{snap.Query.Search}
	}
	if snap.Query.Filter != "" {
		preserved["category"] = []string{snap.Query.Filter}
	}

	options := h.categoryOptions(r.Context())
	names := make(map[string]string, len(options))
	for _, opt := range options {
		names[opt.ID] = opt.Name
	}
	previews := make(map[string]*images.Preview, len(snap.Items))
	for i := range snap.Items {
		p := &snap.Items[i]
		if _, ok := names[p.CategoryID]; !ok {
			names[p.CategoryID] = p.CategoryID
		}
		previews[p.ID] = images.NewPreview(p.AllImageURLs())
	}

	data := ProductListData{
		Products:      snap.Items,
		Search:        snap.Query.Search,
		CategoryID:    snap.Query.Filter,
		Categories:    options,
		CategoryNames: names,
		Previews:      previews,
		Pagination:    BuildPagination(snap.Query.Page, snap.Total, h.perPage, ProductsPath, preserved),
		LoadFailed:    snap.State == listsync.StateFailed,
	}
	h.render(w, r, "dashboard/products", "Products", data)
}

// Search feeds a raw keystroke-level search value into the debouncer.
func (h *ProductsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	h.sync(r).UpdateSearch(r.PostFormValue("q"))
	w.WriteHeader(http.StatusAccepted)
}

// ProductFormData holds data for the product form template.
type ProductFormData struct {
	Product    model.Product
	SalesPrice string
	CostPrice  string
	Categories []model.CategoryOption
	Existing   []model.ImageRef
	MaxImages  int
	IsEdit     bool
	Error      string
}

// NewForm displays the product creation form.
func (h *ProductsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, ProductFormData{
		Categories: h.categoryOptions(r.Context()),
		MaxImages:  images.MaxImages,
	})
}

// Create processes the product creation form, staging any uploaded
// images and submitting everything as one multipart request.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, manager, data, ok := h.parseProductForm(w, r, false)
	if !ok {
		return
	}

	input, msg := buildProductInput(form)
	if msg != "" {
		data.Error = msg
		h.renderForm(w, r, data)
		return
	}

	uploads := manager.BuildUploads(r.Context(), h.fetchImage)
	if err := h.api.CreateProduct(r.Context(), input, uploads); err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to create product", "error", err)
		data.Error = api.UserMessage(err, "Failed to create product.")
		h.renderForm(w, r, data)
		return
	}

	q := h.sync(r).CurrentQuery()
	notifySuccess(w, r, h.bus, listURL(ProductsPath, q.Page, q.Search, q.Filter),
		"Product Created", form.Name+" has been created.")
}

// EditForm displays the product edit form with its persisted images.
func (h *ProductsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.api.GetProduct(r.Context(), id)
	if err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to load product", "error", err, "product_id", id)
		notifyError(w, r, h.bus, ProductsPath, "Failed to Load Product",
			api.UserMessage(err, "Failed to load product."))
		return
	}

	manager := images.NewManager()
	manager.LoadPersisted(&product, h.assetBase)

	h.renderForm(w, r, ProductFormData{
		Product:    product,
		SalesPrice: model.FormatPrice(product.SalesPrice),
		CostPrice:  model.FormatPrice(product.CostPrice),
		Categories: h.categoryOptions(r.Context()),
		Existing:   manager.Persisted(),
		MaxImages:  images.MaxImages,
		IsEdit:     true,
	})
}

// Update processes the product edit form. The backend replaces the
// product's image set with whatever the request carries, so kept
// persisted images are re-downloaded and sent alongside new uploads.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form, manager, data, ok := h.parseProductForm(w, r, true)
	if !ok {
		return
	}
	data.Product.ID = id

	input, msg := buildProductInput(form)
	if msg != "" {
		data.Error = msg
		h.renderForm(w, r, data)
		return
	}

	uploads := manager.BuildUploads(r.Context(), h.fetchImage)
	if err := h.api.UpdateProduct(r.Context(), id, input, uploads); err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to update product", "error", err, "product_id", id)
		data.Error = api.UserMessage(err, "Failed to update product.")
		h.renderForm(w, r, data)
		return
	}

	q := h.sync(r).CurrentQuery()
	notifySuccess(w, r, h.bus, listURL(ProductsPath, q.Page, q.Search, q.Filter),
		"Product Updated", form.Name+" has been updated.")
}

// Delete removes a product and returns to the list.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := h.sync(r).CurrentQuery()
	backTo := listURL(ProductsPath, q.Page, q.Search, q.Filter)

	if err := h.api.DeleteProduct(r.Context(), id); err != nil {
		if handleUnauthorized(w, r, h.store, err) {
			return
		}
		slog.Error("failed to delete product", "error", err, "product_id", id)
		notifyError(w, r, h.bus, backTo, "Failed to Delete Product",
			api.UserMessage(err, "Failed to delete product."))
		return
	}

	notifySuccess(w, r, h.bus, backTo, "Product Deleted", "The product has been deleted.")
}

// parseProductForm parses the multipart product form into the validated
// field set and an image manager holding kept persisted paths plus
// newly staged uploads. On a handled failure it has already written the
// response and returns ok=false.
func (h *ProductsHandler) parseProductForm(w http.ResponseWriter, r *http.Request, isEdit bool) (ProductForm, *images.Manager, ProductFormData, bool) {
	if err := r.ParseMultipartForm(maxProductFormMemory); err != nil {
		notifyError(w, r, h.bus, ProductsPath, "Error", "Invalid form data")
		return ProductForm{}, nil, ProductFormData{}, false
	}

	form := ProductForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		CategoryID:  r.PostFormValue("category_id"),
		SalesPrice:  r.PostFormValue("sales_price"),
		CostPrice:   r.PostFormValue("cost_price"),
	}

	manager := images.NewManager()
	if isEdit {
		manager.KeepPersisted(r.PostForm["existing"], h.assetBase)
	}

	data := ProductFormData{
		Product: model.Product{
			Name:        form.Name,
			Description: form.Description,
			CategoryID:  form.CategoryID,
		},
		SalesPrice: form.SalesPrice,
		CostPrice:  form.CostPrice,
		Categories: h.categoryOptions(r.Context()),
		Existing:   manager.Persisted(),
		MaxImages:  images.MaxImages,
		IsEdit:     isEdit,
	}

	if msg := ValidateForm(form); msg != "" {
		data.Error = msg
		h.renderForm(w, r, data)
		return ProductForm{}, nil, ProductFormData{}, false
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			if err := h.stageUpload(manager, header); err != nil {
				data.Error = err.Error()
				h.renderForm(w, r, data)
				return ProductForm{}, nil, ProductFormData{}, false
			}
		}
	}

	return form, manager, data, true
}

// stageUpload reads one uploaded file and stages it, surfacing the
// manager's validation errors (type, size, capacity) unchanged.
func (h *ProductsHandler) stageUpload(manager *images.Manager, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return errors.New("Failed to read uploaded file.")
	}
	defer func() {
		_ = file.Close()
	}()

	// Read one byte past the limit so oversized files are detected
	// without buffering arbitrarily large bodies.
	payload, err := io.ReadAll(io.LimitReader(file, images.MaxFileSize+1))
	if err != nil {
		return errors.New("Failed to read uploaded file.")
	}

	contentType := header.Header.Get("Content-Type")
	_, err = manager.AddStaged(header.Filename, contentType, payload)
	return err
}

// buildProductInput converts validated form fields into the API input,
// parsing the price strings to decimals.
func buildProductInput(form ProductForm) (api.ProductInput, string) {
	sales, err := decimal.NewFromString(form.SalesPrice)
	if err != nil {
		return api.ProductInput{}, "Sales price must be a non-negative amount with at most 2 decimals"
	}

	cost := decimal.Zero
	if form.CostPrice != "" {
		cost, err = decimal.NewFromString(form.CostPrice)
		if err != nil {
			return api.ProductInput{}, "Cost price must be a non-negative amount with at most 2 decimals"
		}
	}

	return api.ProductInput{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		SalesPrice:  sales,
		CostPrice:   cost,
	}, ""
}

func (h *ProductsHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
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

func (h *ProductsHandler) renderForm(w http.ResponseWriter, r *http.Request, data ProductFormData) {
	title := "New Product"
	if data.IsEdit {
		title = "Edit Product"
	}
	h.render(w, r, "dashboard/product_form", title, data)
}
