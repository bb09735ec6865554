package investment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/assetkart/cp-backend/internal/auth"
	"github.com/assetkart/cp-backend/internal/commission"
	"github.com/assetkart/cp-backend/internal/notification"
	"github.com/assetkart/cp-backend/internal/partner"
	"github.com/assetkart/cp-backend/internal/property"
	"github.com/assetkart/cp-backend/internal/user"
	"github.com/assetkart/cp-backend/internal/wallet"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type createInvestmentRequest struct {
	PropertyID   uint            `json:"propertyId"`
	Amount       decimal.Decimal `json:"amount"`
	UnitsCount   int             `json:"unitsCount"`
	ReferralCode string          `json:"referralCode"`
}

type actionRequest struct {
	Reason string `json:"reason"`
}

type Handler struct {
	DB      *gorm.DB
	Service *Service
}

// NewService wires the coordinator to its concrete collaborators.
func NewService() *Service {
	return &Service{
		Repo:        NewRepository(),
		Wallet:      wallet.NewService(),
		Properties:  property.NewRepository(),
		Allocator:   property.NewAllocator(),
		Referrals:   partner.NewResolver(),
		KYC:         user.NewRepository(),
		Engine:      commission.NewEngine(),
		Commissions: commission.NewRepository(),
	}
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Service: NewService()}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrKYCRequired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrPropertyUnavailable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, wallet.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, wallet.ErrWalletNotFound):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, property.ErrInsufficientInventory):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "investment not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Create starts a new investment for the authenticated customer.
// POST /investments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	inv, err := h.Service.Create(h.DB, customerID, req.PropertyID, req.Amount, req.UnitsCount, req.ReferralCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(inv)
}

// ListMine returns the authenticated customer's investments.
// GET /investments
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.Service.Repo.ListByCustomer(h.DB, customerID)
	if err != nil {
		http.Error(w, "could not load investments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Get returns one investment of the authenticated customer.
// GET /investments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid investment id", http.StatusBadRequest)
		return
	}

	inv, err := h.Service.Repo.FindByID(h.DB, uint(id))
	if err != nil || inv.CustomerID != customerID {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

// List returns all investments, optionally filtered by status.
// GET /admin/investments?status=pending
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Repo.List(h.DB, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "could not load investments", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Approve transitions a pending investment to approved.
// POST /admin/investments/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid investment id", http.StatusBadRequest)
		return
	}
	adminID, _ := auth.UserIDFromContext(r.Context())

	inv, err := h.Service.Approve(h.DB, uint(id), adminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	notification.Emit(notification.Event{
		Type:         notification.EventInvestmentApproved,
		InvestmentID: inv.InvestmentID,
		UserID:       inv.CustomerID,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

// Reject unwinds an investment and refunds the wallet.
// POST /admin/investments/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.unwind(w, r, StatusRejected)
}

// Cancel follows the same path as Reject into the cancelled state.
// POST /admin/investments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.unwind(w, r, StatusCancelled)
}

func (h *Handler) unwind(w http.ResponseWriter, r *http.Request, target string) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid investment id", http.StatusBadRequest)
		return
	}
	adminID, _ := auth.UserIDFromContext(r.Context())

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	var inv *Investment
	if target == StatusRejected {
		inv, err = h.Service.Reject(h.DB, uint(id), adminID, req.Reason)
	} else {
		inv, err = h.Service.Cancel(h.DB, uint(id), adminID, req.Reason)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	notification.Emit(notification.Event{
		Type:         notification.EventInvestmentRejected,
		InvestmentID: inv.InvestmentID,
		UserID:       inv.CustomerID,
		Message:      req.Reason,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}
