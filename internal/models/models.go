package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

type Product struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category"`
	Status      string              `json:"status"`
	Price       decimal.Decimal     `json:"price"`
	PromoPrice  decimal.NullDecimal `json:"promo_price,omitempty"`
	TrackStock  bool                `json:"track_stock"`
	Stock       int                 `json:"stock"`
	Image       string              `json:"image,omitempty"`
	SupplierID  int64               `json:"supplier_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"

	ProductCategoryFood    = "FOOD"
	ProductCategoryDrink   = "DRINK"
	ProductCategoryDessert = "DESSERT"
	ProductCategoryOther   = "OTHER"
)

type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// DiscountStock is a back-office stock write-off ticket: a batch of items
// taken out of inventory, tracked through preparation and hand-off.
type DiscountStock struct {
	ID           int64               `json:"id"`
	Number       string              `json:"number"`
	CustomerName string              `json:"customer_name"`
	Minutes      int                 `json:"minutes"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	CourierName  string              `json:"courier_name,omitempty"`
	Urgent       bool                `json:"urgent"`
	CookingLabel string              `json:"cooking_label,omitempty"`
	Items        []DiscountStockItem `json:"items,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

type DiscountStockItem struct {
	ID              int64           `json:"id"`
	DiscountStockID int64           `json:"discount_stock_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Note            string          `json:"note,omitempty"`
}

const (
	DiscountStockStatusPending   = "PENDING"
	DiscountStockStatusPreparing = "PREPARING"
	DiscountStockStatusDone      = "DONE"
	DiscountStockStatusCancelled = "CANCELLED"
)

// Order is the archived record of a successful checkout submission. The
// customer-facing order lives in WhatsApp; this row is the back-office copy.
type Order struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	CEP          string          `json:"cep"`
	Street       string          `json:"street"`
	Number       string          `json:"number"`
	District     string          `json:"district"`
	Complement   string          `json:"complement,omitempty"`
	Payment      string          `json:"payment"`
	CashChange   string          `json:"cash_change,omitempty"`
	Note         string          `json:"note,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Note      string          `json:"note,omitempty"`
}
