package mapper

import (
	"time"

	userdomain "github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
)

// User represents the transport-level user payload.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserForm is the multipart/urlencoded body accepted on create and update.
type UserForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	City    string `form:"city"`
	Country string `form:"country"`
}

// ToProfile converts a submitted form plus an optional stored picture name.
func ToProfile(form UserForm, picture *string) userdomain.Profile {
	return userdomain.Profile{
		Name:           form.Name,
		Email:          form.Email,
		Phone:          form.Phone,
		City:           form.City,
		Country:        form.Country,
		ProfilePicture: picture,
	}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		City:           user.City,
		Country:        user.Country,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// FromDomainUsers converts a slice of domain users; the result is never nil.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
