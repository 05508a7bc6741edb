package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmoreira/storefront/internal/cart"
	"github.com/dmoreira/storefront/internal/checkout"
	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/kv"
	"github.com/dmoreira/storefront/internal/models"
	"github.com/dmoreira/storefront/internal/schedule"
	"github.com/dmoreira/storefront/internal/store"
)

func TestCheckoutFlow(t *testing.T) {
	db, cleanupDB := setupTestDB(t)
	defer cleanupDB()
	redis, cleanupRedis := setupTestRedis(t)
	defer cleanupRedis()

	ctx := context.Background()
	session := "integration-session"

	carts := cart.NewAggregator(redis)
	addresses := checkout.NewAddressBook(redis)
	svc := &checkout.Service{
		Carts:       carts,
		Addresses:   addresses,
		Hours:       schedule.Hours{Open: 0, Close: 0}, // always open
		DeliveryFee: decimal.NewFromInt(5),
		Destination: "5564999663524",
		Orders:      store.NewArchive(db),
	}

	err := carts.Add(ctx, session, cart.Line{
		ID:    1,
		Name:  "X-Burger",
		Price: decimal.NewFromFloat(25.90),
		Qty:   2,
	})
	if err != nil {
		t.Fatalf("Failed to add to cart: %v", err)
	}
	err = carts.Add(ctx, session, cart.Line{
		Name:  "Coca-Cola Lata",
		Price: decimal.NewFromFloat(6.00),
		Qty:   1,
	})
	if err != nil {
		t.Fatalf("Failed to add to cart: %v", err)
	}

	st := checkout.NewState()
	st.FullName = "Ana Souza"
	st.Phone = checkout.MaskPhone("64999999999")
	st.CEP = checkout.MaskCEP("74000000")
	st.Street = "Rua das Flores"
	st.Number = "10"
	st.District = "Centro"
	st.SetPayment(checkout.PaymentPix)

	result, err := svc.Submit(ctx, session, st, "sem cebola", time.Now())
	if err != nil {
		t.Fatalf("Failed to submit checkout: %v", err)
	}

	if !strings.HasPrefix(result.Link, "https://wa.me/5564999663524?text=") {
		t.Errorf("Unexpected hand-off link: %s", result.Link)
	}
	if !strings.Contains(result.Message, "2x X-Burger") {
		t.Errorf("Expected message to list the burger, got:\n%s", result.Message)
	}
	if !strings.Contains(result.Message, "*Total: R$ 62,80*") {
		t.Errorf("Expected total 62.80 with delivery fee, got:\n%s", result.Message)
	}

	// Cart is cleared after submission.
	lines, err := carts.Load(ctx, session)
	if err != nil {
		t.Fatalf("Failed to load cart: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected empty cart after submit, got %d lines", len(lines))
	}
	if _, err := redis.Get(ctx, kv.CartKey(session)); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Expected cart key removed, got %v", err)
	}

	// Address saved and selected.
	saved, err := addresses.List(ctx, session)
	if err != nil {
		t.Fatalf("Failed to list addresses: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("Expected 1 saved address, got %d", len(saved))
	}
	if saved[0].ID != result.AddressID {
		t.Errorf("Expected saved address %s, got %s", result.AddressID, saved[0].ID)
	}
	selected, err := addresses.Selected(ctx, session)
	if err != nil {
		t.Fatalf("Failed to get selected address: %v", err)
	}
	if selected == nil || selected.ID != result.AddressID {
		t.Errorf("Expected submitted address to be selected")
	}

	// Order archived with items.
	if result.Order == nil {
		t.Fatal("Expected archived order in result")
	}
	archived, err := store.GetOrder(ctx, db, result.Order.ID)
	if err != nil {
		t.Fatalf("Failed to get archived order: %v", err)
	}
	if archived.CustomerName != "Ana Souza" {
		t.Errorf("Expected customer Ana Souza, got %s", archived.CustomerName)
	}
	if archived.Payment != "PIX" {
		t.Errorf("Expected payment PIX, got %s", archived.Payment)
	}
	if !archived.Total.Equal(decimal.NewFromFloat(62.80)) {
		t.Errorf("Expected total 62.80, got %s", archived.Total)
	}
	if len(archived.Items) != 2 {
		t.Fatalf("Expected 2 archived items, got %d", len(archived.Items))
	}
}

func TestCheckoutBlockedWhenClosed(t *testing.T) {
	db, cleanupDB := setupTestDB(t)
	defer cleanupDB()
	redis, cleanupRedis := setupTestRedis(t)
	defer cleanupRedis()

	ctx := context.Background()
	session := "closed-session"

	carts := cart.NewAggregator(redis)
	svc := &checkout.Service{
		Carts:       carts,
		Addresses:   checkout.NewAddressBook(redis),
		Hours:       schedule.Hours{Open: 18, Close: 2},
		DeliveryFee: decimal.NewFromInt(5),
		Destination: "5564999663524",
		Orders:      store.NewArchive(db),
	}

	err := carts.Add(ctx, session, cart.Line{ID: 1, Name: "Marmita", Price: decimal.NewFromInt(20), Qty: 1})
	if err != nil {
		t.Fatalf("Failed to add to cart: %v", err)
	}

	st := checkout.NewState()
	st.FullName = "Ana"
	st.Phone = "(64) 99999-9999"
	st.CEP = "74000-000"
	st.Street = "Rua A"
	st.Number = "10"
	st.District = "Centro"

	noon := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err = svc.Submit(ctx, session, st, "", noon)

	var closed *checkout.ClosedError
	if !errors.As(err, &closed) {
		t.Fatalf("Expected ClosedError at noon, got %v", err)
	}
	if closed.HoursToOpen != 6 {
		t.Errorf("Expected 6 hours to open, got %d", closed.HoursToOpen)
	}

	// A blocked submission must not touch the cart.
	lines, err := carts.Load(ctx, session)
	if err != nil {
		t.Fatalf("Failed to load cart: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("Expected cart to survive blocked submission, got %d lines", len(lines))
	}
}

func TestListOrdersCursor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.ArchiveOrder(ctx, db, models.Order{
			OrderNumber:  "ORD-TEST-" + string(rune('A'+i)),
			CustomerName: "Cliente",
			Payment:      "PIX",
			Subtotal:     decimal.NewFromInt(20),
			DeliveryFee:  decimal.NewFromInt(5),
			Total:        decimal.NewFromInt(25),
			Items: []models.OrderItem{
				{Name: "Marmita", Quantity: 1, UnitPrice: decimal.NewFromInt(20), Subtotal: decimal.NewFromInt(20)},
			},
		})
		if err != nil {
			t.Fatalf("Failed to archive order: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	page, err := store.ListOrdersCursor(ctx, db, "", 2)
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if !page.HasMore {
		t.Error("Expected more pages")
	}
	orders, ok := page.Items.([]models.Order)
	if !ok {
		t.Fatalf("Expected []models.Order, got %T", page.Items)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].CreatedAt.Before(orders[1].CreatedAt) {
		t.Error("Expected newest-first ordering")
	}

	second, err := store.ListOrdersCursor(ctx, db, page.NextCursor, 2)
	if err != nil {
		t.Fatalf("Failed to list second page: %v", err)
	}
	rest, ok := second.Items.([]models.Order)
	if !ok {
		t.Fatalf("Expected []models.Order, got %T", second.Items)
	}
	if len(rest) != 1 {
		t.Errorf("Expected 1 order on second page, got %d", len(rest))
	}
	if second.HasMore {
		t.Error("Expected no more pages")
	}

	_, err = store.GetOrder(ctx, db, 99999)
	if !errors.Is(err, database.ErrOrderNotFound) {
		t.Errorf("Expected ErrOrderNotFound, got %v", err)
	}
}
