package client

import (
	"context"
	"net/url"
)

// OrdersClient reads the order archive.
type OrdersClient struct {
	client *Client
}

// Get returns one archived order.
func (o *OrdersClient) Get(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := o.client.get(ctx, "/api/v1/orders/"+url.PathEscape(orderID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
