// Package api is the storefront's only gateway to the commerce API. Each
// call family (catalog, cart, order) runs behind its own circuit breaker;
// no call is ever retried automatically, and mutation acknowledgements are
// never trusted for totals — callers re-fetch the cart aggregate instead.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/ashendes/storefront-client/internal/models"
	"github.com/ashendes/storefront-client/internal/patterns"
)

const serviceName = "storefront"

// Client talks HTTP+JSON to the commerce API.
type Client struct {
	http    *resty.Client
	baseURL string

	catalogCircuit *patterns.CircuitBreakerWrapper
	cartCircuit    *patterns.CircuitBreakerWrapper
	orderCircuit   *patterns.CircuitBreakerWrapper
}

// NewClient builds a client for {apiBase}/api/{apiPath}.
func NewClient(apiBase, apiPath string) *Client {
	httpClient := resty.New().
		SetTimeout(patterns.DefaultTimeout).
		SetRetryCount(0) // Failed calls are the user's to retry
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-Id", uuid.New().String())
		return nil
	})

	return &Client{
		http:           httpClient,
		baseURL:        fmt.Sprintf("%s/api/%s", apiBase, apiPath),
		catalogCircuit: patterns.NewCircuitBreaker("Catalog", serviceName),
		cartCircuit:    patterns.NewCircuitBreaker("Cart", serviceName),
		orderCircuit:   patterns.NewCircuitBreaker("Order", serviceName),
	}
}

// CircuitStates reports each breaker's current state for diagnostics.
func (c *Client) CircuitStates() map[string]string {
	return map[string]string{
		"catalog": c.catalogCircuit.GetState(),
		"cart":    c.cartCircuit.GetState(),
		"order":   c.orderCircuit.GetState(),
	}
}

// ListProducts fetches one catalog page. The page number is forwarded
// as-is; an out-of-range page is the server's to answer, possibly with an
// empty list.
func (c *Client) ListProducts(ctx context.Context, page int) (models.ProductListResponse, error) {
	var out models.ProductListResponse
	_, err := c.catalogCircuit.Execute(func() (interface{}, error) {
		resp, httpErr := c.http.R().
			SetContext(ctx).
			SetQueryParam("page", strconv.Itoa(page)).
			Get(c.baseURL + "/products")

		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("commerce API returned status %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if !out.Success {
			return nil, fmt.Errorf("product listing rejected: %s", resp.String())
		}
		return out, nil
	})
	if err != nil {
		return models.ProductListResponse{}, patterns.FormatError("Catalog", err)
	}
	return out, nil
}

// GetProduct fetches a single product for the detail view.
func (c *Client) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	var out models.ProductResponse
	_, err := c.catalogCircuit.Execute(func() (interface{}, error) {
		resp, httpErr := c.http.R().
			SetContext(ctx).
			Get(c.baseURL + "/product/" + productID)

		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("commerce API returned status %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if !out.Success {
			return nil, fmt.Errorf("product fetch rejected: %s", resp.String())
		}
		return out, nil
	})
	if err != nil {
		return models.Product{}, patterns.FormatError("Catalog", err)
	}
	return out.Product, nil
}

// GetCart fetches the complete cart aggregate. This is the only source of
// cart totals the client will display.
func (c *Client) GetCart(ctx context.Context) (models.Cart, error) {
	var out models.CartResponse
	_, err := c.cartCircuit.Execute(func() (interface{}, error) {
		resp, httpErr := c.http.R().
			SetContext(ctx).
			Get(c.baseURL + "/cart")

		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("commerce API returned status %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if !out.Success {
			return nil, fmt.Errorf("cart fetch rejected: %s", resp.String())
		}
		return out, nil
	})
	if err != nil {
		return models.Cart{}, patterns.FormatError("Cart", err)
	}
	return out.Data, nil
}

// AddCartItem posts a new cart entry. Quantity is transmitted exactly as
// given; minimum-quantity enforcement belongs to the server.
func (c *Client) AddCartItem(ctx context.Context, productID string, qty int) error {
	payload := models.CartItemPayload{
		Data: models.CartItemRequest{ProductID: productID, Qty: qty},
	}
	return c.mutateCart(func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(c.baseURL + "/cart")
	})
}

// UpdateCartItem changes the quantity of an existing cart entry.
func (c *Client) UpdateCartItem(ctx context.Context, lineID, productID string, qty int) error {
	payload := models.CartItemPayload{
		Data: models.CartItemRequest{ProductID: productID, Qty: qty},
	}
	return c.mutateCart(func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Put(c.baseURL + "/cart/" + lineID)
	})
}

// RemoveCartItem deletes one cart entry.
func (c *Client) RemoveCartItem(ctx context.Context, lineID string) error {
	return c.mutateCart(func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			Delete(c.baseURL + "/cart/" + lineID)
	})
}

// ClearCart deletes every cart entry.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.mutateCart(func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			Delete(c.baseURL + "/carts")
	})
}

// mutateCart runs one mutating cart call through the cart circuit and
// validates the acknowledgement. The ack body carries no state the client
// keeps; the caller reconciles via GetCart.
func (c *Client) mutateCart(do func() (*resty.Response, error)) error {
	_, err := c.cartCircuit.Execute(func() (interface{}, error) {
		resp, httpErr := do()
		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("commerce API returned status %d: %s", resp.StatusCode(), resp.String())
		}

		var ack models.AckResponse
		if err := json.Unmarshal(resp.Body(), &ack); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if !ack.Success {
			return nil, fmt.Errorf("cart mutation rejected: %s", ack.Message)
		}
		return ack, nil
	})
	return patterns.FormatError("Cart", err)
}

// PlaceOrder submits a validated delivery form.
func (c *Client) PlaceOrder(ctx context.Context, form models.OrderForm) error {
	payload := models.OrderPayload{
		Data: models.OrderRequest{User: form, Message: form.Message},
	}

	_, err := c.orderCircuit.Execute(func() (interface{}, error) {
		resp, httpErr := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(c.baseURL + "/order")

		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("commerce API returned status %d: %s", resp.StatusCode(), resp.String())
		}

		var ack models.OrderResponse
		if err := json.Unmarshal(resp.Body(), &ack); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if !ack.Success {
			return nil, fmt.Errorf("order rejected: %s", ack.Message)
		}
		return ack, nil
	})
	return patterns.FormatError("Order", err)
}
