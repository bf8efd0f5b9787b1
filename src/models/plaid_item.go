package models

type PlaidItem struct {
	ID          string `json:"id"`
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"-"`
	ItemID      string `json:"item_id"`
}
