package domain

type OrderPlaced struct {
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	TotalAmount float64 `json:"total_amount"`
	Items       []Item  `json:"items"`
}
