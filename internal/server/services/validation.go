package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

var (
	itemFields     = []string{"title", "amount", "notes", "location", "category"}
	locationFields = []string{"title"}
)

// ValidationError reports the first invalid form field.
type ValidationError struct {
	Field   string
	Message string
	fields  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

// Errors returns every field of the form keyed to nil except the failing
// one, which carries its message.
func (e *ValidationError) Errors() map[string]*string {
	m := make(map[string]*string, len(e.fields))
	for _, f := range e.fields {
		m[f] = nil
	}
	msg := e.Message
	m[e.Field] = &msg
	return m
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateItem checks fields in form order and stops at the first failure.
func ValidateItem(f models.ItemFields) error {
	fail := func(field, msg string) error {
		return &ValidationError{Field: field, Message: msg, fields: itemFields}
	}

	switch {
	case blank(f.Title):
		return fail("title", "Title is required")
	case blank(f.Amount):
		return fail("amount", "Amount is required")
	case f.Notes != nil && !utf8.ValidString(*f.Notes):
		return fail("notes", "Notes should be text")
	case blank(f.Location):
		return fail("location", "Location is required")
	case blank(f.Category):
		return fail("category", "Category is required")
	case !models.IsCategory(f.Category):
		return fail("category", "Category is invalid")
	}
	return nil
}

func ValidateLocation(title string) error {
	if blank(title) {
		return &ValidationError{Field: "title", Message: "Title is required", fields: locationFields}
	}
	return nil
}
