package models

// Product is a catalog entry as returned by the commerce API. Products are
// never mutated client-side; each fetch replaces the previous copy.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ImageURL    string  `json:"imageUrl"`
	Content     string  `json:"content"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	OriginPrice float64 `json:"origin_price"`
	Price       float64 `json:"price"`
}

// Pagination describes the catalog page window. The server maintains the
// has_pre/has_next flags relative to current_page and total_pages.
type Pagination struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	HasPre      bool   `json:"has_pre"`
	HasNext     bool   `json:"has_next"`
	Category    string `json:"category"`
}

// ProductListResponse is the payload of GET /products?page=N.
type ProductListResponse struct {
	Success    bool       `json:"success"`
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductResponse is the payload of GET /product/{id}.
type ProductResponse struct {
	Success bool    `json:"success"`
	Product Product `json:"product"`
}
