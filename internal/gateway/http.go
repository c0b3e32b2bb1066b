package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/models"
)

// HTTPGateway talks to an order-management endpoint over REST.
type HTTPGateway struct {
	client *resty.Client
}

func NewHTTPGateway(baseURL string) *HTTPGateway {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(10 * time.Second)

	return &HTTPGateway{client: client}
}

type orderRequest struct {
	OrderID  string `json:"order_id"`
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price,omitempty"`
}

func (g *HTTPGateway) PlaceOrder(ctx context.Context, order *models.Order) error {
	req := orderRequest{
		OrderID:  order.ID,
		Symbol:   order.Symbol,
		Side:     string(order.Side),
		Type:     string(order.Type),
		Quantity: order.Quantity,
	}
	if order.Price != nil {
		req.Price = order.Price.String()
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/orders")
	if err != nil {
		return fmt.Errorf("place order %s: %w", order.ID, err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return fmt.Errorf("place order %s: venue returned %d: %s", order.ID, resp.StatusCode(), resp.String())
	}
	return nil
}

func (g *HTTPGateway) CancelOrder(ctx context.Context, orderID string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		Delete("/orders/" + orderID)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("cancel order %s: venue returned %d: %s", orderID, resp.StatusCode(), resp.String())
	}
	return nil
}

func (g *HTTPGateway) PublishQuote(ctx context.Context, symbol string, bid, ask decimal.Decimal, size int64) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"symbol": symbol,
			"bid":    bid.String(),
			"ask":    ask.String(),
			"size":   size,
		}).
		Post("/quotes")
	if err != nil {
		return fmt.Errorf("publish quote %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return fmt.Errorf("publish quote %s: venue returned %d: %s", symbol, resp.StatusCode(), resp.String())
	}
	return nil
}
