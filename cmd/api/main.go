package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dmoreira/storefront/internal/auth"
	"github.com/dmoreira/storefront/internal/cart"
	"github.com/dmoreira/storefront/internal/checkout"
	"github.com/dmoreira/storefront/internal/config"
	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/kv"
	"github.com/dmoreira/storefront/internal/mail"
	"github.com/dmoreira/storefront/internal/models"
	"github.com/dmoreira/storefront/internal/schedule"
	"github.com/dmoreira/storefront/internal/store"
	"github.com/dmoreira/storefront/internal/whatsapp"
)

var log = logrus.New()

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	rdb, err := kv.NewRedis(cfg.Redis.URL, cfg.Redis.Namespace)
	if err != nil {
		log.Fatalf("Connect to redis: %v", err)
	}
	defer rdb.Close()

	log.Info("Connected to database and redis")

	hours := schedule.Hours{Open: cfg.Store.OpenHour, Close: cfg.Store.CloseHour}.Normalize()
	carts := cart.NewAggregator(rdb)
	addresses := checkout.NewAddressBook(rdb)
	checkoutSvc := &checkout.Service{
		Carts:       carts,
		Addresses:   addresses,
		Hours:       hours,
		DeliveryFee: cfg.Store.DeliveryFee,
		Destination: cfg.Store.WhatsAppPhone,
		Orders:      store.NewArchive(db),
	}
	authSvc := &auth.Service{
		DB:       db,
		KV:       rdb,
		Mailer:   mail.NewSendGrid(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName),
		CodeTTL:  cfg.Auth.CodeTTL,
		TokenTTL: cfg.Auth.TokenTTL,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go schedule.NewMonitor(hours, log).Run(ctx)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", handleHealth(db, rdb))
	mux.HandleFunc("/store/status", handleStoreStatus(hours))

	mux.HandleFunc("/products", handleProducts(db))
	mux.HandleFunc("/products/", handleProductByID(db))
	mux.HandleFunc("/suppliers", handleSuppliers(db))
	mux.HandleFunc("/suppliers/", handleSupplierByID(db))
	mux.HandleFunc("/discount-stocks", handleDiscountStocks(db, cfg.Store.WhatsAppPhone))
	mux.HandleFunc("/discount-stocks/", handleDiscountStockByID(db))

	mux.HandleFunc("/users/verify-email", handleVerifyEmail(authSvc))
	mux.HandleFunc("/users/verify-code", handleVerifyCode(authSvc))
	mux.HandleFunc("/users/me", handleMe(authSvc))

	mux.HandleFunc("/cart", handleCart(carts))
	mux.HandleFunc("/cart/items", handleCartItems(carts))
	mux.HandleFunc("/cart/items/quantity", handleCartQuantity(carts))
	mux.HandleFunc("/cart/items/remove", handleCartRemove(carts))

	mux.HandleFunc("/checkout/addresses", handleAddresses(addresses))
	mux.HandleFunc("/checkout/submit", handleSubmit(checkoutSvc, addresses))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Infof("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func handleHealth(db *sql.DB, rdb *kv.Redis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		if err := rdb.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleStoreStatus(hours schedule.Hours) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		respondJSON(w, http.StatusOK, hours.StatusAt(time.Now()))
	}
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	PromoPrice  *string `json:"promo_price"`
	TrackStock  bool    `json:"track_stock"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	SupplierID  int64   `json:"supplier_id"`
}

func (req productRequest) toInput() (store.ProductInput, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return store.ProductInput{}, errors.New("invalid price")
	}
	in := store.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		TrackStock:  req.TrackStock,
		Stock:       req.Stock,
		Image:       req.Image,
		SupplierID:  req.SupplierID,
	}
	if req.PromoPrice != nil {
		promo, err := decimal.NewFromString(*req.PromoPrice)
		if err != nil {
			return store.ProductInput{}, errors.New("invalid promo price")
		}
		in.PromoPrice = decimal.NewNullDecimal(promo)
	}
	return in, nil
}

func handleProducts(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req productRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			in, err := req.toInput()
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}

			product, err := store.CreateProduct(ctx, db, in)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusCreated, product)

		case http.MethodGet:
			page, pageSize := pagination(r)
			result, err := store.ListProducts(ctx, db, page, pageSize)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProductByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rest := strings.TrimPrefix(r.URL.Path, "/products/")
		if idStr, ok := strings.CutSuffix(rest, "/status"); ok {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid product ID")
				return
			}
			if r.Method != http.MethodPatch {
				respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}

			var req struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.Status != models.ProductStatusActive && req.Status != models.ProductStatusInactive {
				respondError(w, http.StatusBadRequest, "Invalid status")
				return
			}

			product, err := store.UpdateProductStatus(ctx, db, id, req.Status)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, product)
			return
		}

		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			product, err := store.GetProduct(ctx, db, id)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, product)

		case http.MethodPut:
			var req productRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			in, err := req.toInput()
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}

			product, err := store.UpdateProduct(ctx, db, id, in)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, product)

		case http.MethodDelete:
			if err := store.DeleteProduct(ctx, db, id); err != nil {
				respondStoreError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleSuppliers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req store.SupplierInput
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			supplier, err := store.CreateSupplier(ctx, db, req)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusCreated, supplier)

		case http.MethodGet:
			page, pageSize := pagination(r)
			result, err := store.ListSuppliers(ctx, db, page, pageSize)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleSupplierByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		idStr := strings.TrimPrefix(r.URL.Path, "/suppliers/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid supplier ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			supplier, err := store.GetSupplier(ctx, db, id)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, supplier)

		case http.MethodPut:
			var req store.SupplierInput
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			supplier, err := store.UpdateSupplier(ctx, db, id, req)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, supplier)

		case http.MethodDelete:
			if err := store.DeleteSupplier(ctx, db, id); err != nil {
				respondStoreError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleDiscountStocks(db *sql.DB, destination string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Number       string `json:"number"`
				CustomerName string `json:"customer_name"`
				Minutes      int    `json:"minutes"`
				CourierName  string `json:"courier_name"`
				Urgent       bool   `json:"urgent"`
				CookingLabel string `json:"cooking_label"`
				Items        []struct {
					Name     string `json:"name"`
					Quantity int    `json:"quantity"`
					Price    string `json:"price"`
					Note     string `json:"note"`
				} `json:"items"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			in := store.DiscountStockInput{
				Number:       req.Number,
				CustomerName: req.CustomerName,
				Minutes:      req.Minutes,
				CourierName:  req.CourierName,
				Urgent:       req.Urgent,
				CookingLabel: req.CookingLabel,
			}
			var waItems []whatsapp.Item
			for _, item := range req.Items {
				price, err := decimal.NewFromString(item.Price)
				if err != nil {
					respondError(w, http.StatusBadRequest, "Invalid item price")
					return
				}
				in.Items = append(in.Items, store.DiscountStockItemInput{
					Name:     item.Name,
					Quantity: item.Quantity,
					Price:    price,
					Note:     item.Note,
				})
				waItems = append(waItems, whatsapp.Item{
					Name:     item.Name,
					Quantity: item.Quantity,
					Price:    price,
					Note:     item.Note,
				})
			}

			ds, err := store.CreateDiscountStock(ctx, db, in)
			if err != nil {
				respondStoreError(w, err)
				return
			}

			respondJSON(w, http.StatusCreated, map[string]interface{}{
				"discount_stock": ds,
				"whatsapp_link":  whatsapp.Link(destination, whatsapp.ComposeDiscountStock(waItems)),
			})

		case http.MethodGet:
			page, pageSize := pagination(r)
			result, err := store.ListDiscountStocks(ctx, db, page, pageSize)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleDiscountStockByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rest := strings.TrimPrefix(r.URL.Path, "/discount-stocks/")
		if idStr, ok := strings.CutSuffix(rest, "/status"); ok {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid discount stock ID")
				return
			}
			if r.Method != http.MethodPatch {
				respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}

			var req struct {
				Status  string `json:"status"`
				Version int    `json:"version"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			ds, err := store.UpdateDiscountStockStatus(ctx, db, id, req.Status, req.Version)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, ds)
			return
		}

		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid discount stock ID")
			return
		}
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		ds, err := store.GetDiscountStock(ctx, db, id)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, ds)
	}
}

func handleVerifyEmail(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := svc.VerifyEmail(r.Context(), req.Email, req.Password); err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, err.Error())
				return
			}
			log.WithError(err).Error("verify email")
			respondError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "code sent"})
	}
}

func handleVerifyCode(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		token, err := svc.VerifyCode(r.Context(), req.Email, req.Code)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCode) {
				respondError(w, http.StatusUnauthorized, err.Error())
				return
			}
			log.WithError(err).Error("verify code")
			respondError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func handleMe(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, err := svc.Me(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				respondError(w, http.StatusUnauthorized, err.Error())
				return
			}
			log.WithError(err).Error("me")
			respondError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

func handleCart(carts *cart.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			lines, err := carts.Load(r.Context(), session)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			respondJSON(w, http.StatusOK, cartResponse(lines))

		case http.MethodDelete:
			if err := carts.Clear(r.Context(), session); err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCartItems(carts *cart.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var item cart.Line
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := carts.Add(r.Context(), session, item); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		lines, err := carts.Load(r.Context(), session)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, cartResponse(lines))
	}
}

func handleCartQuantity(carts *cart.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Item  cart.Line `json:"item"`
			Delta int       `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		lines, err := carts.SetQuantity(r.Context(), session, req.Item, req.Delta)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, cartResponse(lines))
	}
}

func handleCartRemove(carts *cart.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Item cart.Line `json:"item"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		lines, err := carts.Remove(r.Context(), session, req.Item)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, cartResponse(lines))
	}
}

func handleAddresses(addresses *checkout.AddressBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			list, err := addresses.List(r.Context(), session)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			selected, err := addresses.Selected(r.Context(), session)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			selectedID := ""
			if selected != nil {
				selectedID = selected.ID
			}
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"addresses":   list,
				"selected_id": selectedID,
			})

		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			if id == "" {
				respondError(w, http.StatusBadRequest, "Missing address id")
				return
			}
			if err := addresses.Delete(r.Context(), session, id); err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

type submitRequest struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	CEP        string `json:"cep"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	Complement string `json:"complement"`
	Payment    string `json:"payment"`
	NeedChange *bool  `json:"needChange"`
	CashChange string `json:"cashChange"`
	AddressID  string `json:"addressId"`
	Note       string `json:"note"`
}

func handleSubmit(svc *checkout.Service, addresses *checkout.AddressBook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		st := checkout.NewState()
		st.FullName = req.FullName
		st.Phone = checkout.MaskPhone(req.Phone)
		st.CEP = checkout.MaskCEP(req.CEP)
		st.Street = req.Street
		st.Number = checkout.MaskHouseNumber(req.Number)
		st.District = req.District
		st.Complement = req.Complement

		switch checkout.Payment(req.Payment) {
		case checkout.PaymentCard:
			st.SetPayment(checkout.PaymentCard)
		case checkout.PaymentCash:
			st.SetPayment(checkout.PaymentCash)
			if req.NeedChange != nil {
				st.SetNeedChange(*req.NeedChange)
			}
			if req.CashChange != "" {
				st.SetCashChange(req.CashChange)
			}
		default:
			st.SetPayment(checkout.PaymentPix)
		}

		if req.AddressID != "" {
			list, err := addresses.List(r.Context(), session)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			for _, addr := range list {
				if addr.ID == req.AddressID {
					st.SelectAddress(addr)
					break
				}
			}
		}

		result, err := svc.Submit(r.Context(), session, st, req.Note, time.Now())
		if err != nil {
			var closed *checkout.ClosedError
			switch {
			case errors.As(err, &closed):
				respondJSON(w, http.StatusConflict, map[string]interface{}{
					"error":         closed.Error(),
					"notice":        closed.Notice(),
					"hours_to_open": closed.HoursToOpen,
				})
			case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrIncompleteSteps):
				respondError(w, http.StatusUnprocessableEntity, err.Error())
			default:
				log.WithError(err).Error("checkout submit")
				respondError(w, http.StatusInternalServerError, "Internal error")
			}
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// cartResponse always serializes an array, never null.
func cartResponse(lines []cart.Line) map[string]interface{} {
	if lines == nil {
		lines = []cart.Line{}
	}
	return map[string]interface{}{
		"items":    lines,
		"subtotal": cart.Subtotal(lines),
	}
}

func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := r.Header.Get("X-Session-ID")
	if session == "" {
		respondError(w, http.StatusBadRequest, "Missing X-Session-ID header")
		return "", false
	}
	return session, true
}

func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrSupplierNotFound),
		errors.Is(err, database.ErrDiscountStockNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrOptimisticLockFailed):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error("store operation")
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}
