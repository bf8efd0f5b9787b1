package models

type Account struct {
	ID               string   `json:"id"`
	ItemID           string   `json:"item_id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Subtype          string   `json:"subtype"`
	CurrentBalance   *float64 `json:"current_balance"`
	AvailableBalance *float64 `json:"available_balance"`
}
