package deal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dunecrest/realty-api/internal/auth"
	"github.com/dunecrest/realty-api/internal/httpapi"
	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidState  = errors.New("lead is not converted")
	ErrDuplicateDeal = errors.New("lead already has a deal")
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Leads      lead.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Leads:      lead.NewRepository(),
	}
}

type dealRequest struct {
	LeadID         uint             `json:"leadId"`
	RevenueAmount  *decimal.Decimal `json:"revenueAmount"`
	Currency       string           `json:"currency"`
	ClosedDate     string           `json:"closedDate"` // YYYY-MM-DD
	CommissionRate *decimal.Decimal `json:"commissionRate"`

	// Distinguishes "rate omitted" from "rate explicitly cleared" on
	// update.
	ClearCommissionRate bool `json:"clearCommissionRate,omitempty"`
}

func validRate(rate *decimal.Decimal) bool {
	if rate == nil {
		return true
	}
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(100))
}

func parseClosedDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// Create handles POST /deals (admin only). The referenced lead must be
// converted and must not already carry a deal.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	fields := map[string]string{}
	if req.LeadID == 0 {
		fields["leadId"] = "lead id is required"
	}
	if req.RevenueAmount == nil {
		fields["revenueAmount"] = "revenue amount is required"
	}
	if !ValidCurrency(req.Currency) {
		fields["currency"] = "must be one of AED, USD, EUR, GBP"
	}
	if !validRate(req.CommissionRate) {
		fields["commissionRate"] = "must be between 0 and 100"
	}
	closedDate, ok := parseClosedDate(req.ClosedDate)
	if !ok {
		fields["closedDate"] = "must be YYYY-MM-DD"
	}
	if len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	var created *Deal
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		l, err := h.Leads.FindByID(tx, req.LeadID)
		if err != nil {
			return err
		}
		if l.Status != lead.StatusConverted {
			return ErrInvalidState
		}
		if _, err := h.Repository.FindByLeadID(tx, l.ID); err == nil {
			return ErrDuplicateDeal
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		d := Deal{
			LeadID:           l.ID,
			RevenueAmount:    *req.RevenueAmount,
			Currency:         req.Currency,
			ClosedDate:       closedDate,
			CommissionRate:   req.CommissionRate,
			CommissionAmount: ComputeCommission(*req.RevenueAmount, req.CommissionRate),
			CreatedByID:      auth.UserID(r),
		}
		if d.ClosedDate.IsZero() {
			d.ClosedDate = time.Now().UTC().Truncate(24 * time.Hour)
		}
		if err := h.Repository.Create(tx, &d); err != nil {
			// The unique lead index backs the one-deal rule against
			// racing creates.
			return ErrDuplicateDeal
		}
		created = &d
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /deals/{id} (admin only). Re-validates the same
// constraints; the commission recomputes when the rate changes and clears
// when the rate is removed.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := dealID(w, r)
	if !ok {
		return
	}
	d, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "deal not found")
		return
	}

	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	fields := map[string]string{}
	if req.Currency != "" && !ValidCurrency(req.Currency) {
		fields["currency"] = "must be one of AED, USD, EUR, GBP"
	}
	if !validRate(req.CommissionRate) {
		fields["commissionRate"] = "must be between 0 and 100"
	}
	closedDate, dateOK := parseClosedDate(req.ClosedDate)
	if !dateOK {
		fields["closedDate"] = "must be YYYY-MM-DD"
	}
	if len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	if req.RevenueAmount != nil {
		d.RevenueAmount = *req.RevenueAmount
	}
	if req.Currency != "" {
		d.Currency = req.Currency
	}
	if !closedDate.IsZero() {
		d.ClosedDate = closedDate
	}
	if req.ClearCommissionRate {
		d.CommissionRate = nil
	} else if req.CommissionRate != nil {
		d.CommissionRate = req.CommissionRate
	}
	d.CommissionAmount = ComputeCommission(d.RevenueAmount, d.CommissionRate)

	if err := h.Repository.Save(h.DB, d); err != nil {
		httpapi.Internal(w, "failed to update deal")
		return
	}
	httpapi.JSON(w, http.StatusOK, d)
}

// List handles GET /deals (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.Repository.ListAll(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to list deals")
		return
	}
	httpapi.JSON(w, http.StatusOK, deals)
}

// Get handles GET /deals/{id}. Admins see any deal; agents only deals on
// their own leads, read-only.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := dealID(w, r)
	if !ok {
		return
	}
	d, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "deal not found")
		return
	}
	if !auth.IsAdmin(r) {
		actorID := auth.UserID(r)
		if d.Lead == nil || d.Lead.AssignedAgentID == nil || *d.Lead.AssignedAgentID != actorID {
			httpapi.Forbidden(w, "deal is not on one of your leads")
			return
		}
	}
	httpapi.JSON(w, http.StatusOK, d)
}

// Delete handles DELETE /deals/{id} (admin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := dealID(w, r)
	if !ok {
		return
	}
	d, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "deal not found")
		return
	}
	if err := h.Repository.Delete(h.DB, d); err != nil {
		httpapi.Internal(w, "failed to delete deal")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AgentList handles GET /agent/deals: read-only view of deals on the
// caller's leads.
func (h *Handler) AgentList(w http.ResponseWriter, r *http.Request) {
	deals, err := h.Repository.ListByAgent(h.DB, auth.UserID(r))
	if err != nil {
		httpapi.Internal(w, "failed to list deals")
		return
	}
	httpapi.JSON(w, http.StatusOK, deals)
}

type revenueSummary struct {
	DealCount       int                        `json:"dealCount"`
	TotalRevenue    map[string]decimal.Decimal `json:"totalRevenue"`
	TotalCommission map[string]decimal.Decimal `json:"totalCommission"`
}

// AgentRevenue handles GET /agent/revenue: per-currency totals across the
// caller's deals.
func (h *Handler) AgentRevenue(w http.ResponseWriter, r *http.Request) {
	deals, err := h.Repository.ListByAgent(h.DB, auth.UserID(r))
	if err != nil {
		httpapi.Internal(w, "failed to compute revenue")
		return
	}

	summary := revenueSummary{
		DealCount:       len(deals),
		TotalRevenue:    map[string]decimal.Decimal{},
		TotalCommission: map[string]decimal.Decimal{},
	}
	for _, d := range deals {
		summary.TotalRevenue[d.Currency] = summary.TotalRevenue[d.Currency].Add(d.RevenueAmount)
		if d.CommissionAmount != nil {
			summary.TotalCommission[d.Currency] = summary.TotalCommission[d.Currency].Add(*d.CommissionAmount)
		}
	}
	httpapi.JSON(w, http.StatusOK, summary)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidState):
		httpapi.Error(w, http.StatusBadRequest, "invalid_state", err.Error())
	case errors.Is(err, ErrDuplicateDeal):
		httpapi.Error(w, http.StatusConflict, "duplicate_deal", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpapi.NotFound(w, "lead not found")
	default:
		httpapi.Internal(w, "failed to save deal")
	}
}

func dealID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}
