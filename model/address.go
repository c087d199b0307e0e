package models

type Address struct {
	ID                int64  `json:"id"`
	UserID            string `json:"-"`
	Street            string `json:"street"`
	City              string `json:"city"`
	State             string `json:"state"`
	PostalCode        string `json:"postalCode"`
	Country           string `json:"country"`
	IsDefaultShipping bool   `json:"isDefaultShipping"`
	IsDefaultBilling  bool   `json:"isDefaultBilling"`
}
