package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmoreira/storefront/internal/cart"
	"github.com/dmoreira/storefront/internal/models"
	"github.com/dmoreira/storefront/internal/schedule"
	"github.com/dmoreira/storefront/internal/whatsapp"
)

var (
	// ErrEmptyCart blocks submission regardless of step completion.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIncompleteSteps blocks submission while any step flag is unmet.
	ErrIncompleteSteps = errors.New("checkout steps incomplete")
)

// ClosedError blocks submission outside the store window and carries the
// wait reported to the customer.
type ClosedError struct {
	HoursToOpen int
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("store closed, opens in %d hour(s)", e.HoursToOpen)
}

// Notice is the customer-facing text, singular for exactly one hour.
func (e *ClosedError) Notice() string {
	unit := "horas"
	if e.HoursToOpen == 1 {
		unit = "hora"
	}
	return fmt.Sprintf("Fechado, abrimos em %d %s", e.HoursToOpen, unit)
}

// Archiver records a submitted order in the back office.
type Archiver interface {
	Archive(ctx context.Context, order models.Order) (*models.Order, error)
}

// Service drives a checkout submission end to end: gate, address upsert,
// hand-off link, cart cleanup and back-office archive.
type Service struct {
	Carts       *cart.Aggregator
	Addresses   *AddressBook
	Hours       schedule.Hours
	DeliveryFee decimal.Decimal
	Destination string
	Orders      Archiver
}

// Result is a successful submission.
type Result struct {
	Message   string        `json:"message"`
	Link      string        `json:"link"`
	AddressID string        `json:"address_id"`
	Order     *models.Order `json:"order,omitempty"`
}

// Submit finalizes the order for the session. The gate re-evaluates live:
// non-empty cart, all three step flags, store open right now. On success the
// effective address is upserted and selected, the order is archived, the
// persisted cart is cleared and the hand-off link is returned.
func (s *Service) Submit(ctx context.Context, session string, st *State, orderNote string, now time.Time) (*Result, error) {
	lines, err := s.Carts.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !st.CanSubmit(len(lines)) {
		return nil, ErrIncompleteSteps
	}
	if !s.Hours.IsOpenAt(now.Hour()) {
		return nil, &ClosedError{HoursToOpen: s.Hours.UntilOpen(now)}
	}

	subtotal := cart.Subtotal(lines)
	total := cart.Total(lines, s.DeliveryFee)
	summary := Summary{
		Lines:       lines,
		OrderNote:   orderNote,
		Subtotal:    subtotal,
		DeliveryFee: s.DeliveryFee,
		Total:       total,
	}

	message := ComposeMessage(summary, st)
	link := whatsapp.Link(s.Destination, message)

	addressID, err := s.Addresses.Upsert(ctx, session, st.Address())
	if err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}

	var archived *models.Order
	if s.Orders != nil {
		archived, err = s.Orders.Archive(ctx, s.buildOrder(lines, st, orderNote, subtotal, total, now))
		if err != nil {
			return nil, fmt.Errorf("archive order: %w", err)
		}
	}

	if err := s.Carts.Clear(ctx, session); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return &Result{
		Message:   message,
		Link:      link,
		AddressID: addressID,
		Order:     archived,
	}, nil
}

func (s *Service) buildOrder(lines []cart.Line, st *State, orderNote string, subtotal, total decimal.Decimal, now time.Time) models.Order {
	addr := st.Address()
	order := models.Order{
		OrderNumber:  fmt.Sprintf("ORD-%d", now.UnixNano()),
		CustomerName: addr.FullName,
		Phone:        addr.Phone,
		CEP:          addr.CEP,
		Street:       addr.Street,
		Number:       addr.Number,
		District:     addr.District,
		Complement:   addr.Complement,
		Payment:      string(st.Payment),
		Note:         orderNote,
		Subtotal:     subtotal,
		DeliveryFee:  s.DeliveryFee,
		Total:        total,
	}
	if st.Payment == PaymentCash && st.NeedChange != nil && *st.NeedChange {
		order.CashChange = st.CashChange
	}

	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			Name:      l.Name,
			Quantity:  l.Qty,
			UnitPrice: l.Price,
			Subtotal:  l.Price.Mul(decimal.NewFromInt(int64(l.Qty))),
			Subtitle:  l.Subtitle,
			Note:      l.Note,
		})
	}
	return order
}
