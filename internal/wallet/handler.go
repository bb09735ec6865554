package wallet

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/assetkart/cp-backend/internal/auth"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FundRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentRef    string          `json:"paymentRef"`
}

type Handler struct {
	DB      *gorm.DB
	Service *Service
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Service: NewService()}
}

// Fund credits the authenticated user's wallet.
// POST /wallet/fund
func (h *Handler) Fund(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "manual"
	}

	txn, err := h.Service.Credit(h.DB, userID, req.Amount, req.PaymentMethod, req.PaymentRef)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrWalletBlocked):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "could not add funds", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(txn)
}

// Balance returns the wallet snapshot, creating the wallet lazily.
// GET /wallet/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wal, err := h.Service.CreateWallet(h.DB, userID)
	if err != nil {
		http.Error(w, "could not load wallet", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wal)
}

// Transactions lists the audit trail, newest first.
// GET /wallet/transactions?limit=20
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := h.Service.Transactions(h.DB, userID, limit)
	if err != nil {
		http.Error(w, "could not load transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}
