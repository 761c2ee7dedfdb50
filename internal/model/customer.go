// Package model defines the plain customer record captured by the form.
package model

// Notification is how the customer wants to be contacted.
type Notification string

const (
	NotifyEmail Notification = "email"
	NotifyText  Notification = "text"
)

// Notifications lists the selectable notification methods in display order.
var Notifications = []Notification{NotifyEmail, NotifyText}

// AddressType tags an address as home or work.
type AddressType string

const (
	AddressHome AddressType = "home"
	AddressWork AddressType = "work"
)

// AddressTypes lists the selectable address types in display order.
var AddressTypes = []AddressType{AddressHome, AddressWork}

// EmailGroup is the email address and its confirmation.
type EmailGroup struct {
	Email        string `json:"email"`
	ConfirmEmail string `json:"confirmEmail"`
}

// Address is one postal address owned by a Customer.
type Address struct {
	AddressType AddressType `json:"addressType"`
	Street1     string      `json:"street1"`
	Street2     string      `json:"street2"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Zip         string      `json:"zip"`
}

// Customer is the full record as submitted from the form.
type Customer struct {
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	EmailGroup   EmailGroup   `json:"emailGroup"`
	Phone        string       `json:"phone"`
	Notification Notification `json:"notification"`
	Rating       *float64     `json:"rating"`
	SendCatalog  bool         `json:"sendCatalog"`
	Addresses    []Address    `json:"addresses"`
}
