package models

import "time"

// Rôles
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string    `json:"user_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Address struct {
	ID         string `json:"id"`
	ProfileID  string `json:"profile_id"`
	Label      string `json:"label,omitempty"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Street     string `json:"street"`
	Street2    string `json:"street_2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// ShippingAddress est l'adresse saisie au checkout, figée sur la
// commande. Complète = prénom, nom, rue, code postal, ville, pays.
type ShippingAddress struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Street     string `json:"street"`
	Street2    string `json:"street_2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a ShippingAddress) IsComplete() bool {
	return a.FirstName != "" && a.LastName != "" && a.Street != "" &&
		a.PostalCode != "" && a.City != "" && a.Country != ""
}
