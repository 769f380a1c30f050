// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/cache"
	"github.com/tntware/catalog-admin/internal/config"
	"github.com/tntware/catalog-admin/internal/handler"
	"github.com/tntware/catalog-admin/internal/images"
	"github.com/tntware/catalog-admin/internal/listsync"
	"github.com/tntware/catalog-admin/internal/logging"
	"github.com/tntware/catalog-admin/internal/middleware"
	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/render"
	"github.com/tntware/catalog-admin/internal/session"
	"github.com/tntware/catalog-admin/internal/version"
	"github.com/tntware/catalog-admin/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	Search   http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers the standard resource routes.
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	r.Get(base, h.List)
	r.Post(base+"/search", h.Search)
	r.Get(base+"/new", h.NewForm)
	r.Post(base, h.Create)
	r.Get(base+"/{id}/edit", h.EditForm)
	r.Post(base+"/{id}", h.Update)
	r.Post(base+"/{id}/delete", h.Delete)
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("catalog-admin %s (built: %s)\n", info, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel)
	slog.Info("starting catalog admin",
		"version", appVersion,
		"commit", appGitCommit,
		"env", cfg.Env,
		"api", cfg.APIBaseURL)

	// Notification bus: toasts land in the session flash store and are
	// mirrored into the log.
	bus := notify.NewBus()
	bus.Subscribe(logging.NotificationSink(logger))

	// Session store
	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0o755); err != nil {
		return fmt.Errorf("creating session data directory: %w", err)
	}
	db, err := session.OpenDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("opening session database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing session database", "error", err)
		}
	}(db)

	sessionManager := session.New(db, cfg.IsDevelopment())
	identities := session.NewStore(sessionManager)
	flashes := notify.NewFlashSink(sessionManager)
	bus.Subscribe(flashes.Store)

	// Backend API client. The identity store is its token source.
	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, identities)

	// Category cache: Redis when configured, in-memory otherwise.
	var cacheStore cache.Store
	if cfg.UseRedisCache() {
		cacheStore, err = cache.NewRedis(cfg.RedisURL, cfg.CachePrefix, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("category cache using redis")
	} else {
		cacheStore = cache.NewMemory(cfg.CacheTTL)
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	catCache := cache.NewCategories(cacheStore, cfg.CacheTTL, func(ctx context.Context) ([]model.Category, error) {
		return client.AllCategories(ctx)
	})

	// Per-session list synchronizers, swept after a day of inactivity.
	syncs := listsync.NewRegistry(24 * time.Hour)
	defer syncs.Close()

	// Renderer over the embedded templates.
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("accessing templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:  templatesFS,
		Flashes:      flashes,
		AssetBaseURL: cfg.AssetBaseURL,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Handlers
	fetchImage := images.NewHTTPFetch(cfg.RequestTimeout)
	authHandler := handler.NewAuthHandler(client, renderer, identities, bus)
	productsHandler := handler.NewProductsHandler(client, renderer, identities, bus, syncs,
		catCache, fetchImage, cfg.AssetBaseURL, cfg.ItemsPerPage, cfg.RequestTimeout)
	categoriesHandler := handler.NewCategoriesHandler(client, renderer, identities, bus, syncs,
		catCache, cfg.ItemsPerPage, cfg.RequestTimeout)
	usersHandler := handler.NewUsersHandler(client, renderer, identities, bus,
		syncs, cfg.ItemsPerPage, cfg.RequestTimeout)

	loginLimiter := middleware.NewLoginLimiter(1, 5)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment()))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("accessing static assets: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public routes
	r.Get("/login", authHandler.LoginForm)
	r.With(loginLimiter.Middleware).Post("/login", authHandler.Login)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, middleware.ProductsPath, http.StatusSeeOther)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(identities))
		r.Use(middleware.LoadUser(identities))

		r.Post("/logout", authHandler.Logout)
		r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, middleware.ProductsPath, http.StatusSeeOther)
		})
		r.Get("/dashboard/password", authHandler.ChangePasswordForm)
		r.Post("/dashboard/password", authHandler.ChangePassword)

		registerCRUD(r, "/dashboard/products", crudHandlers{
			List:     productsHandler.List,
			Search:   productsHandler.Search,
			NewForm:  productsHandler.NewForm,
			Create:   productsHandler.Create,
			EditForm: productsHandler.EditForm,
			Update:   productsHandler.Update,
			Delete:   productsHandler.Delete,
		})
		registerCRUD(r, "/dashboard/categories", crudHandlers{
			List:     categoriesHandler.List,
			Search:   categoriesHandler.Search,
			NewForm:  categoriesHandler.NewForm,
			Create:   categoriesHandler.Create,
			EditForm: categoriesHandler.EditForm,
			Update:   categoriesHandler.Update,
			Delete:   categoriesHandler.Delete,
		})

		// User management is admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(bus))
			registerCRUD(r, "/dashboard/users", crudHandlers{
				List:     usersHandler.List,
				Search:   usersHandler.Search,
				NewForm:  usersHandler.NewForm,
				Create:   usersHandler.Create,
				EditForm: usersHandler.EditForm,
				Update:   usersHandler.Update,
				Delete:   usersHandler.Delete,
			})
		})
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		slog.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	slog.Info("server listening", "addr", cfg.ServerAddr())
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
