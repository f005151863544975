package services

import (
	"strings"

	"github.com/taskflow/core/internal/domain/entities"
)

// requiredText trims s and rejects values that are blank once trimmed
func requiredText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", entities.Validation("%s cannot be blank", field)
	}
	return s, nil
}

// validDate rejects the zero day; a nil date is allowed
func validDate(d *entities.Date) error {
	if d != nil && d.IsZero() {
		return entities.ErrInvalidDate
	}
	return nil
}
