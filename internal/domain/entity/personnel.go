package entity

import (
	"strings"
	"time"
)

// Personnel is a person known to the directory
type Personnel struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Role        string    `bson:"role"`
	Description string    `bson:"description"`
	Photo       string    `bson:"photo"`
	IsActive    bool      `bson:"isActive"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// PersonnelSummary holds the display fields attached to populated records
type PersonnelSummary struct {
	ID    string
	Name  string
	Role  string
	Photo string
}

// Summary returns the display fields of p
func (p *Personnel) Summary() *PersonnelSummary {
	if p == nil {
		return nil
	}
	return &PersonnelSummary{
		ID:    p.ID,
		Name:  p.Name,
		Role:  p.Role,
		Photo: p.Photo,
	}
}

// Validate checks the fields required to store a person
func (p *Personnel) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(p.Role) == "" {
		errs = append(errs, FieldError{Field: "role", Message: "is required"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// DeleteMode selects how the directory removes a person
type DeleteMode string

const (
	// DeleteSoft marks the person inactive and keeps the document
	DeleteSoft DeleteMode = "soft"
	// DeleteHard removes the person permanently
	DeleteHard DeleteMode = "hard"
)

// ParseDeleteMode maps a query value to a DeleteMode, defaulting to soft
func ParseDeleteMode(value string) (DeleteMode, error) {
	switch DeleteMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", DeleteSoft:
		return DeleteSoft, nil
	case DeleteHard:
		return DeleteHard, nil
	default:
		return "", NewValidationError("mode", "must be soft or hard")
	}
}
