// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
)

// ProductsPath is the default landing page, where role-gate failures
// are redirected.
const ProductsPath = "/dashboard/products"

// Allowed reports whether role is in the allowed set. Roles are flat,
// not hierarchical: an admin-only route does not open up to sales and
// vice versa.
func Allowed(role string, allowedRoles ...string) bool {
	for _, allowed := range allowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// RequireRoles gates a route on the current user's role. A user
// outside the allowed set receives exactly one access-denied
// notification and is redirected to the products list; no error page
// is ever rendered.
func RequireRoles(bus *notify.Bus, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if !Allowed(user.Role, allowedRoles...) {
				slog.Warn("access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
				)
				bus.Error(r.Context(), "Access Denied",
					"You do not have permission to access this page.")
				http.Redirect(w, r, ProductsPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route on the admin role.
func RequireAdmin(bus *notify.Bus) func(http.Handler) http.Handler {
	return RequireRoles(bus, model.RoleAdmin)
}
