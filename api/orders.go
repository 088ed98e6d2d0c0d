package api

import "context"

// SearchOrders queries GET /orders/search.
func (c *Client) SearchOrders(ctx context.Context, q SearchQuery) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/orders/search", q.Values(), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OpenOrders queries GET /orders/open. The backend only returns PENDING rows.
func (c *Client) OpenOrders(ctx context.Context, q OpenQuery) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/orders/open", q.Values(), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
