package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Company         string    `json:"company,omitempty"`
	JobTitle        string    `json:"jobTitle,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	LinkedInURL     string    `json:"linkedinUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the optional user fields a PUT may change.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Company         *string `json:"company"`
	JobTitle        *string `json:"jobTitle"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profileImageUrl"`
	LinkedInURL     *string `json:"linkedinUrl"`
}

// Apply copies the non-nil fields of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Company, p.Company)
	set(&u.JobTitle, p.JobTitle)
	set(&u.Bio, p.Bio)
	set(&u.ProfileImageURL, p.ProfileImageURL)
	set(&u.LinkedInURL, p.LinkedInURL)
}
