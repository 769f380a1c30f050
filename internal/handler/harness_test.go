// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/cache"
	"github.com/tntware/catalog-admin/internal/listsync"
	"github.com/tntware/catalog-admin/internal/middleware"
	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/render"
	"github.com/tntware/catalog-admin/internal/session"
	"github.com/tntware/catalog-admin/internal/testutil"
	"github.com/tntware/catalog-admin/web"
)

// recordedRequest captures one request the fake backend received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Header http.Header
}

// testBackend is a fake catalog backend that records every request and
// delegates responses to a per-test handler.
type testBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
		Header: r.Header.Clone(),
	})
	b.mu.Unlock()

	// Hand the handler a body it can re-read.
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	if b.handler != nil {
		b.handler(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// Requests returns a copy of the recorded requests.
func (b *testBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestsTo returns recorded requests matching method and path.
func (b *testBackend) RequestsTo(method, path string) []recordedRequest {
	var out []recordedRequest
	for _, req := range b.Requests() {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// testApp wires the full dashboard (router, renderer, session, fake
// backend) for handler tests. The HTTP client carries a cookie jar and
// does not follow redirects, so tests can assert on Location headers.
type testApp struct {
	t             *testing.T
	server        *httptest.Server
	backend       *testBackend
	backendServer *httptest.Server
	client        *http.Client
}

// backendDown closes the fake backend so requests fail at the transport.
func (a *testApp) backendDown() {
	a.backendServer.Close()
}

func newTestApp(t *testing.T, backendHandler http.HandlerFunc) *testApp {
	t.Helper()

	backend := &testBackend{handler: backendHandler}
	backendServer := httptest.NewServer(backend)
	t.Cleanup(backendServer.Close)

	sessionManager := testutil.NewSessionManager()
	identities := session.NewStore(sessionManager)
	flashes := notify.NewFlashSink(sessionManager)
	bus := notify.NewBus()
	bus.Subscribe(flashes.Store)

	client := api.New(backendServer.URL, 5*time.Second, identities)

	catCache := cache.NewCategories(cache.NewMemory(time.Minute), time.Minute,
		func(ctx context.Context) ([]model.Category, error) {
			return client.AllCategories(ctx)
		})

	syncs := listsync.NewRegistry(time.Minute)
	t.Cleanup(syncs.Close)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("accessing templates: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:  templatesFS,
		Flashes:      flashes,
		AssetBaseURL: "https://assets.example.com/",
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}

	fetchImage := func(ctx context.Context, url string) ([]byte, string, error) {
		return []byte("fake-image-bytes"), "image/jpeg", nil
	}

	const perPage = 10
	timeout := 5 * time.Second
	authHandler := NewAuthHandler(client, renderer, identities, bus)
	productsHandler := NewProductsHandler(client, renderer, identities, bus, syncs,
		catCache, fetchImage, "https://assets.example.com/", perPage, timeout)
	categoriesHandler := NewCategoriesHandler(client, renderer, identities, bus, syncs,
		catCache, perPage, timeout)
	usersHandler := NewUsersHandler(client, renderer, identities, bus, syncs, perPage, timeout)

	r := chi.NewRouter()
	r.Use(sessionManager.LoadAndSave)

	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)

	// Test-only identity seeding, standing in for a real login.
	r.Get("/test/seed/{role}", func(w http.ResponseWriter, req *http.Request) {
		user := model.User{ID: "u1", Name: "Test User", Email: "test@example.com", Role: chi.URLParam(req, "role")}
		if err := identities.SetIdentity(req.Context(), "test-token", user); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(identities))
		r.Use(middleware.LoadUser(identities))

		r.Post("/logout", authHandler.Logout)
		r.Get("/dashboard/password", authHandler.ChangePasswordForm)
		r.Post("/dashboard/password", authHandler.ChangePassword)

		registerTestCRUD(r, "/dashboard/products", productsHandler.List, productsHandler.Search,
			productsHandler.NewForm, productsHandler.Create, productsHandler.EditForm,
			productsHandler.Update, productsHandler.Delete)
		registerTestCRUD(r, "/dashboard/categories", categoriesHandler.List, categoriesHandler.Search,
			categoriesHandler.NewForm, categoriesHandler.Create, categoriesHandler.EditForm,
			categoriesHandler.Update, categoriesHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(bus))
			registerTestCRUD(r, "/dashboard/users", usersHandler.List, usersHandler.Search,
				usersHandler.NewForm, usersHandler.Create, usersHandler.EditForm,
				usersHandler.Update, usersHandler.Delete)
		})
	})

	appServer := httptest.NewServer(r)
	t.Cleanup(appServer.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testApp{
		t:             t,
		server:        appServer,
		backend:       backend,
		backendServer: backendServer,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func registerTestCRUD(r chi.Router, base string, list, search, newForm, create, editForm, update, del http.HandlerFunc) {
	r.Get(base, list)
	r.Post(base+"/search", search)
	r.Get(base+"/new", newForm)
	r.Post(base, create)
	r.Get(base+"/{id}/edit", editForm)
	r.Post(base+"/{id}", update)
	r.Post(base+"/{id}/delete", del)
}

// loginAs seeds an authenticated session with the given role.
func (a *testApp) loginAs(role string) {
	a.t.Helper()
	resp, err := a.client.Get(a.server.URL + "/test/seed/" + role)
	if err != nil {
		a.t.Fatalf("seeding identity: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusNoContent {
		a.t.Fatalf("seeding identity: status %d", resp.StatusCode)
	}
}

// get issues a GET and returns the response with its body read.
func (a *testApp) get(path string) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		a.t.Fatalf("GET %s: %v", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

// postForm issues a POST with urlencoded form data.
func (a *testApp) postForm(path string, form url.Values) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		a.t.Fatalf("POST %s: %v", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

// postMultipart issues a POST with a prebuilt multipart body.
func (a *testApp) postMultipart(path, contentType string, body io.Reader) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.Post(a.server.URL+path, contentType, body)
	if err != nil {
		a.t.Fatalf("POST %s: %v", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("reading body: %v", err)
	}
	return resp, string(respBody)
}
