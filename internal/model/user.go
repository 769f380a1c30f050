// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the catalog domain models exchanged with the
// backend API: Category, Product, User and their image references.
package model

import "time"

// User roles understood by the backend.
const (
	RoleAdmin = "admin"
	RoleSales = "sales"
)

// ValidRoles contains all roles accepted on user forms.
var ValidRoles = []string{RoleAdmin, RoleSales}

// User represents a dashboard user account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RoleLabel returns a human-readable label for the user's role.
func (u *User) RoleLabel() string {
	switch u.Role {
	case RoleAdmin:
		return "Admin"
	case RoleSales:
		return "Sales"
	default:
		return u.Role
	}
}
