package domain

// Order is server-owned; the client only reads summaries back and never
// mints order identity of its own.
type Order struct {
	ID          int64      `json:"id"`
	Reference   string     `json:"reference,omitempty"`
	Status      string     `json:"status"`
	TotalAmount string     `json:"total_amount"`
	CreatedAt   string     `json:"created_at"`
	Items       []CartItem `json:"items,omitempty"`
}
