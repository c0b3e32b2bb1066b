package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

type OrderStatus string

const (
	OrderPending          OrderStatus = "pending"
	OrderPendingApproval  OrderStatus = "pending_risk_approval"
	OrderPendingExecution OrderStatus = "pending_execution"
	OrderExecuted         OrderStatus = "executed"
	OrderRejected         OrderStatus = "rejected"
)

// Order is a trade instruction. Symbol, side and quantity are fixed at
// creation; price may be filled in by execution for market orders.
type Order struct {
	ID        string           `json:"id"`
	Client    string           `json:"client,omitempty"`
	Symbol    string           `json:"symbol"`
	Type      OrderType        `json:"type"`
	Side      OrderSide        `json:"side"`
	Quantity  int64            `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Status    OrderStatus      `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	CreatedAt time.Time        `json:"created_at"`

	Execution *Execution `json:"execution,omitempty"`
}

// Execution records the fill of an order.
type Execution struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`
	ExecutedAt time.Time       `json:"executed_at"`
}

func NewOrder(symbol string, orderType OrderType, side OrderSide, quantity int64, price *decimal.Decimal) *Order {
	return &Order{
		ID:        uuid.New().String(),
		Symbol:    symbol,
		Type:      orderType,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Status:    OrderPending,
		CreatedAt: time.Now(),
	}
}

// PriceOrDefault returns the order price, or the conventional reference
// price of 100 when no price is attached.
func (o *Order) PriceOrDefault() decimal.Decimal {
	if o.Price != nil {
		return *o.Price
	}
	return decimal.NewFromInt(100)
}
