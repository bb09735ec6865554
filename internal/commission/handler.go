package commission

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/assetkart/cp-backend/internal/auth"
	"github.com/assetkart/cp-backend/internal/notification"
	"github.com/assetkart/cp-backend/internal/partner"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type payoutRequest struct {
	PaymentReference string `json:"paymentReference"`
}

type Handler struct {
	DB       *gorm.DB
	Engine   *Engine
	Partners partner.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:       db,
		Engine:   NewEngine(),
		Partners: partner.NewRepository(),
	}
}

// MyCommissions lists the authenticated partner's commissions.
// GET /partners/me/commissions?status=pending
func (h *Handler) MyCommissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	p, err := h.Partners.FindByUserID(h.DB, userID)
	if err != nil {
		http.Error(w, "partner profile not found", http.StatusNotFound)
		return
	}

	list, err := h.Engine.Repo.ListByPartner(h.DB, p.ID, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "could not load commissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// List returns all commissions, optionally filtered by status.
// GET /admin/commissions?status=approved
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Engine.Repo.List(h.DB, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "could not load commissions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Approve moves a pending commission to approved.
// POST /admin/commissions/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid commission id", http.StatusBadRequest)
		return
	}
	adminID, _ := auth.UserIDFromContext(r.Context())

	c, err := h.Engine.Approve(h.DB, uint(id), adminID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "commission not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "could not approve commission", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// Payout marks an approved commission as paid.
// POST /admin/commissions/{id}/payout
func (h *Handler) Payout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid commission id", http.StatusBadRequest)
		return
	}
	adminID, _ := auth.UserIDFromContext(r.Context())

	var req payoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	c, err := h.Engine.ProcessPayout(h.DB, uint(id), adminID, req.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "commission not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "could not process payout", http.StatusInternalServerError)
		}
		return
	}

	notification.Emit(notification.Event{
		Type:         notification.EventCommissionPaid,
		CommissionID: c.CommissionID,
		Message:      "Commission paid: " + c.NetAmount.StringFixed(2),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
