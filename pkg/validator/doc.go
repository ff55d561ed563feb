// Package validator provides declarative field validation for form input.
// Rules are composed with Apply; failures come back as ValidationErrors, a
// plain value the caller renders inline per field rather than a fault.
package validator
