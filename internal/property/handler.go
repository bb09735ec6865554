package property

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type createPropertyRequest struct {
	Name              string          `json:"name"`
	City              string          `json:"city"`
	PropertyType      string          `json:"propertyType"`
	TotalUnits        int             `json:"totalUnits"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	MinimumInvestment decimal.Decimal `json:"minimumInvestment"`
	ExpectedReturnPct decimal.Decimal `json:"expectedReturnPct"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Create registers a property and seeds its unit pool.
// POST /admin/properties
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.TotalUnits <= 0 {
		http.Error(w, "totalUnits must be greater than zero", http.StatusBadRequest)
		return
	}

	p := &Property{
		Name:              req.Name,
		City:              req.City,
		PropertyType:      req.PropertyType,
		TotalUnits:        req.TotalUnits,
		AvailableUnits:    req.TotalUnits,
		PricePerUnit:      req.PricePerUnit,
		MinimumInvestment: req.MinimumInvestment,
		ExpectedReturnPct: req.ExpectedReturnPct,
		Status:            "live",
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}

	if err := h.Repository.Create(tx, p); err != nil {
		_ = tx.Rollback()
		http.Error(w, "could not create property", http.StatusInternalServerError)
		return
	}

	units := make([]Unit, 0, req.TotalUnits)
	for i := 1; i <= req.TotalUnits; i++ {
		units = append(units, Unit{
			PropertyID: p.ID,
			UnitNumber: fmt.Sprintf("U%04d", i),
			Price:      req.PricePerUnit,
			Status:     UnitStatusAvailable,
		})
	}
	if err := h.Repository.CreateUnits(tx, units); err != nil {
		_ = tx.Rollback()
		http.Error(w, "could not seed property units", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "could not commit transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// List returns all properties.
// GET /properties
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(h.DB)
	if err != nil {
		http.Error(w, "could not load properties", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Get returns one property.
// GET /properties/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid property id", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}
