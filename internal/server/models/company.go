// Package models holds the server's canonical data types.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Address is the structured company address. Older clients send a single
// string, which lands in Street.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func (a *Address) UnmarshalJSON(b []byte) error {
	var legacy string
	if err := json.Unmarshal(b, &legacy); err == nil {
		*a = Address{Street: strings.TrimSpace(legacy)}
		return nil
	}

	type plain Address
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Address(p)
	return nil
}

// Format joins the non-empty parts with ", ".
func (a Address) Format() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.Zip, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type SocialMedia struct {
	LinkedIn  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

type ContactPerson struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Company is a published business profile. Each user owns at most one.
type Company struct {
	ID             int64           `json:"id"`
	OwnerID        int64           `json:"ownerId"`
	Name           string          `json:"name"`
	Industry       string          `json:"industry"`
	Description    string          `json:"description"`
	ContactEmail   string          `json:"contactEmail"`
	ContactPhone   string          `json:"contactPhone"`
	Website        string          `json:"website"`
	Address        Address         `json:"address"`
	Logo           string          `json:"logo,omitempty"`
	SocialMedia    SocialMedia     `json:"socialMedia"`
	ContactPersons []ContactPerson `json:"contactPersons"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CompanyInput is the writable part of a Company, as sent by clients.
type CompanyInput struct {
	Name           string          `json:"name"`
	Industry       string          `json:"industry"`
	Description    string          `json:"description"`
	ContactEmail   string          `json:"contactEmail"`
	ContactPhone   string          `json:"contactPhone"`
	Website        string          `json:"website"`
	Address        Address         `json:"address"`
	Logo           string          `json:"logo"`
	SocialMedia    SocialMedia     `json:"socialMedia"`
	ContactPersons []ContactPerson `json:"contactPersons"`
}

// ApplyTo overwrites the writable fields of c with the input.
func (in CompanyInput) ApplyTo(c *Company) {
	c.Name = strings.TrimSpace(in.Name)
	c.Industry = in.Industry
	c.Description = in.Description
	c.ContactEmail = in.ContactEmail
	c.ContactPhone = in.ContactPhone
	c.Website = in.Website
	c.Address = in.Address
	c.Logo = in.Logo
	c.SocialMedia = in.SocialMedia
	c.ContactPersons = in.ContactPersons
	if c.ContactPersons == nil {
		c.ContactPersons = []ContactPerson{}
	}
}
