// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// price: a non-negative decimal with at most two fraction digits.
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // required is a separate rule
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return false
		}
		return !d.IsNegative() && d.Exponent() >= -2
	})
	return v
}

// CategoryForm carries the category create/edit form fields.
type CategoryForm struct {
	Name        string `validate:"required"`
	Description string
}

// ProductForm carries the product create/edit form fields. Prices stay
// strings here; they are parsed to decimals only after validation.
type ProductForm struct {
	Name        string `validate:"required"`
	Description string
	CategoryID  string `validate:"required"`
	SalesPrice  string `validate:"required,price"`
	CostPrice   string `validate:"omitempty,price"`
}

// UserForm carries the user create/edit form fields. Password is
// required on create; on edit a blank password means "keep current".
type UserForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Role     string `validate:"required,oneof=admin sales"`
	Password string `validate:"omitempty,min=6"`
}

// LoginForm carries the login form fields.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// ChangePasswordForm carries the change-password form fields.
type ChangePasswordForm struct {
	OldPassword     string `validate:"required"`
	NewPassword     string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

// fieldMessages maps struct field + rule to a user-facing message.
var fieldMessages = map[string]string{
	"Name.required":            "Name is required",
	"Email.required":           "Email is required",
	"Email.email":              "Please enter a valid email address",
	"Role.required":            "Role is required",
	"Role.oneof":               "Role must be Admin or Sales",
	"Password.min":             "Password must be at least 6 characters",
	"Password.required":        "Password is required",
	"CategoryID.required":      "Category is required",
	"SalesPrice.required":      "Sales price is required",
	"SalesPrice.price":         "Sales price must be a non-negative amount with at most 2 decimals",
	"CostPrice.price":          "Cost price must be a non-negative amount with at most 2 decimals",
	"OldPassword.required":     "Current password is required",
	"NewPassword.required":     "New password is required",
	"NewPassword.min":          "New password must be at least 6 characters",
	"ConfirmPassword.required": "Please confirm the new password",
	"ConfirmPassword.eqfield":  "Passwords do not match",
}

// ValidateForm validates a form struct and returns the first user-facing
// error message, or "" when the form is valid.
func ValidateForm(form any) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form data"
	}

	fe := verrs[0]
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return strings.TrimSpace(fe.Field() + " is invalid")
}
