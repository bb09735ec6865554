package partner

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type createPartnerRequest struct {
	UserID      uint   `json:"userId"`
	ParentID    *uint  `json:"parentId"`
	Code        string `json:"code"`
	CompanyName string `json:"companyName"`
	IsVerified  bool   `json:"isVerified"`
}

type createRuleRequest struct {
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Type               string          `json:"type"`
	Percentage         decimal.Decimal `json:"percentage"`
	Tiers              []Tier          `json:"tiers"`
	OverridePercentage decimal.Decimal `json:"overridePercentage"`
	EffectiveFrom      time.Time       `json:"effectiveFrom"`
}

type assignRuleRequest struct {
	RuleID     uint  `json:"ruleId"`
	PropertyID *uint `json:"propertyId"`
}

type createRelationRequest struct {
	CustomerID   uint       `json:"customerId"`
	ReferralCode string     `json:"referralCode"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

func newPartnerCode() string {
	return "CP" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
}

// Create onboards a channel partner.
// POST /admin/partners
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		req.Code = newPartnerCode()
	}

	now := time.Now()
	p := &ChannelPartner{
		UserID:      req.UserID,
		ParentID:    req.ParentID,
		Code:        req.Code,
		CompanyName: req.CompanyName,
		IsActive:    true,
		IsVerified:  req.IsVerified,
	}
	if req.IsVerified {
		p.VerifiedAt = &now
	}

	if err := h.Repository.Create(h.DB, p); err != nil {
		http.Error(w, "could not create partner", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// List returns all partners.
// GET /admin/partners
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(h.DB)
	if err != nil {
		http.Error(w, "could not load partners", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// CreateRule registers a commission rule.
// POST /admin/commission-rules
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	allowed := map[string]bool{RuleTypeFlat: true, RuleTypeTiered: true, RuleTypeOneTime: true}
	if !allowed[req.Type] {
		http.Error(w, "invalid rule type, use 'flat', 'tiered' or 'one_time'", http.StatusBadRequest)
		return
	}
	if req.EffectiveFrom.IsZero() {
		req.EffectiveFrom = time.Now()
	}

	rule := &CommissionRule{
		Name:               req.Name,
		Description:        req.Description,
		Type:               req.Type,
		Percentage:         req.Percentage,
		Tiers:              req.Tiers,
		OverridePercentage: req.OverridePercentage,
		IsActive:           true,
		EffectiveFrom:      req.EffectiveFrom,
	}
	if err := h.Repository.CreateRule(h.DB, rule); err != nil {
		http.Error(w, "could not create rule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rule)
}

// AssignRule binds a rule to a partner, optionally for one property.
// POST /admin/partners/{id}/rules
func (h *Handler) AssignRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid partner id", http.StatusBadRequest)
		return
	}

	var req assignRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	pr := &PartnerRule{
		PartnerID:  uint(id),
		RuleID:     req.RuleID,
		PropertyID: req.PropertyID,
	}
	if err := h.Repository.AssignRule(h.DB, pr); err != nil {
		http.Error(w, "could not assign rule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pr)
}

// CreateRelation records a standing partner-customer referral.
// POST /admin/partners/{id}/customers
func (h *Handler) CreateRelation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid partner id", http.StatusBadRequest)
		return
	}

	var req createRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	rel := &CustomerRelation{
		PartnerID:    uint(id),
		CustomerID:   req.CustomerID,
		ReferralCode: req.ReferralCode,
		IsActive:     true,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := h.Repository.CreateRelation(h.DB, rel); err != nil {
		http.Error(w, "could not create relation", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rel)
}
