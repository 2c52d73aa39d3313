package request

import "strings"

type Address struct {
	Label      string `json:"label"      validate:"max=50"`
	FullName   string `json:"fullName"   validate:"required,max=150"`
	Phone      string `json:"phone"      validate:"max=30"`
	Street     string `json:"street"     validate:"required,max=255"`
	City       string `json:"city"       validate:"max=100"`
	State      string `json:"state"      validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country"    validate:"max=100"`
}

// Normalize trims every field and defaults an empty label to Home.
func (a Address) Normalize() Address {
	a.Label = strings.TrimSpace(a.Label)
	if a.Label == "" {
		a.Label = "Home"
	}
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	return a
}
