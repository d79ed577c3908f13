package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a form field name to a human-readable message.
type FieldErrors map[string]string

// Fields returns the names of the failing fields in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProductNotFoundError is returned when a product with the given ID does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

// Error implements the error interface for ProductNotFoundError.
func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}

// ValidationError carries the per-field messages of a rejected product form.
type ValidationError struct {
	Fields FieldErrors
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthorizationError is returned when an actor may not perform a gated operation.
type AuthorizationError struct {
	// Unauthenticated is true when the actor has not logged in at all.
	Unauthenticated bool
	Message         string
}

// Error implements the error interface for AuthorizationError.
func (e *AuthorizationError) Error() string {
	return e.Message
}

// InjectedFaultError is the deliberate listing failure triggered by BugMarker.
type InjectedFaultError struct {
	Keyword string
}

// Error implements the error interface for InjectedFaultError.
func (e *InjectedFaultError) Error() string {
	return fmt.Sprintf("intentional bug triggered by keyword %s", BugMarker)
}

// NewProductNotFoundError creates a new ProductNotFoundError.
func NewProductNotFoundError(id int64) error {
	return &ProductNotFoundError{ProductID: id}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(fields FieldErrors) error {
	return &ValidationError{Fields: fields}
}

// NewLoginRequiredError is returned for anonymous callers of a gated operation.
func NewLoginRequiredError() error {
	return &AuthorizationError{Unauthenticated: true, Message: "login required."}
}

// NewForbiddenError is returned when the actor lacks the required role.
func NewForbiddenError() error {
	return &AuthorizationError{Message: "insufficient permissions."}
}

// IsProductNotFoundError checks if an error is a ProductNotFoundError.
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsAuthorizationError checks if an error is an AuthorizationError.
func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsInjectedFaultError checks if an error is an InjectedFaultError.
func IsInjectedFaultError(err error) bool {
	var ife *InjectedFaultError
	return errors.As(err, &ife)
}
