package models

type Subscription struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	BillingDay int     `json:"billing_day"`
	Owner      Payer   `json:"owner"`
}
