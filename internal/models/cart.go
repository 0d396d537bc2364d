package models

// CartLine is one cart entry. ID is the server-assigned cart-entry id,
// distinct from the product id; Product is a snapshot taken when the line
// was created and may lag behind the live catalog entry.
type CartLine struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Product    Product `json:"product"`
	Qty        int     `json:"qty"`
	Total      float64 `json:"total"`
	FinalTotal float64 `json:"final_total"`
}

// Cart is the complete server-computed cart aggregate. Totals are computed
// server-side only; final_total <= total, with equality meaning no discount.
// The whole aggregate is replaced after every mutation, never patched.
type Cart struct {
	Lines      []CartLine `json:"carts"`
	Total      float64    `json:"total"`
	FinalTotal float64    `json:"final_total"`
}

// Clone returns a deep copy safe to hand to the rendering layer.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// CartResponse is the payload of GET /cart.
type CartResponse struct {
	Success bool `json:"success"`
	Data    Cart `json:"data"`
}

// CartItemRequest is the body of cart add/update calls.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// CartItemPayload wraps a cart mutation in the API's data envelope.
type CartItemPayload struct {
	Data CartItemRequest `json:"data"`
}

// AckResponse is the generic acknowledgement returned by mutating calls.
// Bodies of acks are never trusted for totals; the client re-fetches the
// cart instead.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
