package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingName    = errors.New("name is required")
	ErrMissingEmail   = errors.New("email is required")
	ErrMissingPhone   = errors.New("phone is required")
	ErrMissingCity    = errors.New("city is required")
	ErrMissingCountry = errors.New("country is required")
)

// User is the single entity managed by the directory.
type User struct {
	ID             int64
	Name           string
	Email          string
	Phone          string
	City           string
	Country        string
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile carries the mutable fields submitted on create and update.
type Profile struct {
	Name           string
	Email          string
	Phone          string
	City           string
	Country        string
	ProfilePicture *string
}

// FieldError names the field whose presence check failed.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// NewUser builds an unsaved user ensuring required fields are present.
func NewUser(profile Profile) (*User, error) {
	user := &User{}
	if err := user.Replace(profile); err != nil {
		return nil, err
	}
	return user, nil
}

// Replace overwrites every mutable field with the submitted values as given.
// A nil or empty picture clears the stored reference.
func (u *User) Replace(profile Profile) error {
	next := *u
	next.Name = profile.Name
	next.Email = profile.Email
	next.Phone = profile.Phone
	next.City = profile.City
	next.Country = profile.Country
	next.ProfilePicture = normalizePicture(profile.ProfilePicture)
	if err := next.Validate(); err != nil {
		return err
	}
	*u = next
	return nil
}

// Validate re-applies the presence invariants. Only empty values count as missing;
// content is not checked. All missing fields are reported.
func (u *User) Validate() error {
	checks := []struct {
		field string
		value string
		err   error
	}{
		{"name", u.Name, ErrMissingName},
		{"email", u.Email, ErrMissingEmail},
		{"phone", u.Phone, ErrMissingPhone},
		{"city", u.City, ErrMissingCity},
		{"country", u.Country, ErrMissingCountry},
	}
	var errs []error
	for _, c := range checks {
		if c.value == "" {
			errs = append(errs, &FieldError{Field: c.field, Err: c.err})
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy safe to hand across layers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.ProfilePicture != nil {
		picture := *u.ProfilePicture
		clone.ProfilePicture = &picture
	}
	return &clone
}

// MissingFields lists the field names reported by a validation error.
func MissingFields(err error) []string {
	var fields []string
	collectFields(err, &fields)
	return fields
}

func collectFields(err error, fields *[]string) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			collectFields(inner, fields)
		}
		return
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		*fields = append(*fields, fieldErr.Field)
	}
}

func normalizePicture(picture *string) *string {
	if picture == nil {
		return nil
	}
	if *picture == "" {
		return nil
	}
	stored := *picture
	return &stored
}
