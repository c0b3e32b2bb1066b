package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/models"
)

func TestSimulatedPlaceAndCancel(t *testing.T) {
	gw := NewSimulated()
	ctx := context.Background()

	order := models.NewOrder("AAPL", models.OrderMarket, models.SideBuy, 100, nil)
	if err := gw.PlaceOrder(ctx, order); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if len(gw.Placed()) != 1 {
		t.Fatalf("placed = %d, want 1", len(gw.Placed()))
	}

	if err := gw.CancelOrder(ctx, order.ID); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if len(gw.Placed()) != 0 {
		t.Fatal("cancelled order still listed")
	}

	// cancelling an unknown order is a no-op
	if err := gw.CancelOrder(ctx, "no-such-order"); err != nil {
		t.Fatalf("CancelOrder unknown: %v", err)
	}
}

func TestHTTPGatewayPlaceOrder(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL)
	order := models.NewOrder("AAPL", models.OrderMarket, models.SideBuy, 100, nil)
	if err := gw.PlaceOrder(context.Background(), order); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if gotPath != "POST /orders" {
		t.Fatalf("request = %q", gotPath)
	}
}

func TestHTTPGatewayVenueRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "risk check failed", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL)
	order := models.NewOrder("AAPL", models.OrderMarket, models.SideBuy, 100, nil)
	if err := gw.PlaceOrder(context.Background(), order); err == nil {
		t.Fatal("a venue rejection must surface as an error")
	}

	if err := gw.PublishQuote(context.Background(), "AAPL",
		decimal.NewFromInt(189), decimal.NewFromInt(190), 1000); err == nil {
		t.Fatal("a rejected quote must surface as an error")
	}
}
