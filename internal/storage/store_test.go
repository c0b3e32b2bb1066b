package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveOrderRoundTrip(t *testing.T) {
	store := newTestStore(t)

	price := decimal.NewFromFloat(189.5)
	order := models.NewOrder("AAPL", models.OrderLimit, models.SideBuy, 5000, &price)
	order.Client = "Horizon Capital"
	order.Status = models.OrderExecuted
	order.Execution = &models.Execution{Price: price, Quantity: 5000, ExecutedAt: time.Now()}

	if err := store.SaveOrder(order); err != nil {
		t.Fatalf("SaveOrder: %v", err)
	}

	count, err := store.OrderCount()
	if err != nil {
		t.Fatalf("OrderCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	orders, err := store.RecentOrders(10)
	if err != nil {
		t.Fatalf("RecentOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	got := orders[0]
	if got.ID != order.ID || got.Client != "Horizon Capital" || got.Symbol != "AAPL" {
		t.Fatalf("row = %+v", got)
	}
	if got.Side != "buy" || got.Quantity != 5000 || got.Status != "executed" {
		t.Fatalf("row = %+v", got)
	}
}

func TestSaveOrderUpsertsStatus(t *testing.T) {
	store := newTestStore(t)

	order := models.NewOrder("TSLA", models.OrderMarket, models.SideBuy, 60_000, nil)
	order.Status = models.OrderPendingApproval
	if err := store.SaveOrder(order); err != nil {
		t.Fatalf("SaveOrder: %v", err)
	}

	order.Status = models.OrderRejected
	order.Reason = "risk limit"
	if err := store.SaveOrder(order); err != nil {
		t.Fatalf("SaveOrder update: %v", err)
	}

	count, err := store.OrderCount()
	if err != nil {
		t.Fatalf("OrderCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, upsert must not duplicate", count)
	}
	orders, err := store.RecentOrders(1)
	if err != nil {
		t.Fatalf("RecentOrders: %v", err)
	}
	if orders[0].Status != "rejected" {
		t.Fatalf("status = %q, want the updated one", orders[0].Status)
	}
}

func TestSaveCommunication(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveCommunication("sales_trading", "risk_compliance", "order flagged"); err != nil {
		t.Fatalf("SaveCommunication: %v", err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM communications`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
