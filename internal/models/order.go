package models

// OrderForm carries the delivery details entered by the customer. The
// validate tags mirror the storefront's declarative field rules: all fields
// but message are required, email only has to look like local@domain, and
// tel must be digits only with at least 8 of them.
type OrderForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,loose_email"`
	Tel     string `json:"tel" validate:"required,digits_only,min=8"`
	Address string `json:"address" validate:"required"`
	Message string `json:"message"`
}

// OrderRequest is the body of POST /order.
type OrderRequest struct {
	User    OrderForm `json:"user"`
	Message string    `json:"message"`
}

// OrderPayload wraps an order submission in the API's data envelope.
type OrderPayload struct {
	Data OrderRequest `json:"data"`
}

// OrderResponse acknowledges a placed order.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}
