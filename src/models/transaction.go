package models

import "time"

type Payer string

const (
	PayerA     Payer = "A"
	PayerB     Payer = "B"
	PayerJoint Payer = "joint"
)

// Transaction is an expense as read from the store. Amount > 0 is an outflow.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Payer       Payer     `json:"payer"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
}
