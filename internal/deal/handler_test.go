package deal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dunecrest/realty-api/internal/auth"
	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/dunecrest/realty-api/internal/user"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &lead.Lead{}, &lead.Note{}, &Deal{}))
	return db
}

func mountFor(h *Handler, actorID uint, role string) http.Handler {
	as := func(fn http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fn(w, auth.WithIdentity(r, actorID, role))
		})
	}
	r := mux.NewRouter()
	r.Handle("/deals", as(h.List)).Methods(http.MethodGet)
	r.Handle("/deals", as(h.Create)).Methods(http.MethodPost)
	r.Handle("/deals/{id}", as(h.Get)).Methods(http.MethodGet)
	r.Handle("/deals/{id}", as(h.Update)).Methods(http.MethodPut)
	r.Handle("/deals/{id}", as(h.Delete)).Methods(http.MethodDelete)
	r.Handle("/agent/deals", as(h.AgentList)).Methods(http.MethodGet)
	r.Handle("/agent/revenue", as(h.AgentRevenue)).Methods(http.MethodGet)
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createLead(t *testing.T, db *gorm.DB, status string, agentID *uint) *lead.Lead {
	t.Helper()
	l := lead.Lead{Name: "L", Email: fmt.Sprintf("l%d@x.com", len(status)), Status: status, TrafficSource: "organic", AssignedAgentID: agentID}
	require.NoError(t, db.Create(&l).Error)
	return &l
}

func TestCreateRequiresConvertedLead(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	router := mountFor(h, 1, auth.RoleAdmin)

	l := createLead(t, db, lead.StatusInProgress, nil)
	rec := doJSON(t, router, http.MethodPost, "/deals", map[string]interface{}{
		"leadId":        l.ID,
		"revenueAmount": "1000",
		"currency":      "AED",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestCreateRejectsSecondDealOnLead(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	router := mountFor(h, 1, auth.RoleAdmin)

	l := createLead(t, db, lead.StatusConverted, nil)
	body := map[string]interface{}{
		"leadId":         l.ID,
		"revenueAmount":  "250000.50",
		"currency":       "AED",
		"closedDate":     "2026-03-15",
		"commissionRate": "2.5",
	}
	rec := doJSON(t, router, http.MethodPost, "/deals", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/deals", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_deal")
}

func TestCreateComputesCommission(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	router := mountFor(h, 1, auth.RoleAdmin)

	l := createLead(t, db, lead.StatusConverted, nil)
	rec := doJSON(t, router, http.MethodPost, "/deals", map[string]interface{}{
		"leadId":         l.ID,
		"revenueAmount":  "200000",
		"currency":       "USD",
		"commissionRate": "3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var d Deal
	require.NoError(t, db.First(&d).Error)
	require.NotNil(t, d.CommissionAmount)
	assert.True(t, d.CommissionAmount.Equal(decimal.NewFromInt(6000)),
		"got %s", d.CommissionAmount)
	assert.Equal(t, uint(1), d.CreatedByID)
	assert.False(t, d.ClosedDate.IsZero(), "closed date defaults to today")
}

func TestCreateValidation(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	router := mountFor(h, 1, auth.RoleAdmin)

	rec := doJSON(t, router, http.MethodPost, "/deals", map[string]interface{}{
		"currency":       "JPY",
		"commissionRate": "150",
		"closedDate":     "15/03/2026",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "leadId")
	assert.Contains(t, body, "revenueAmount")
	assert.Contains(t, body, "currency")
	assert.Contains(t, body, "commissionRate")
	assert.Contains(t, body, "closedDate")
}

func TestUpdateRecomputesAndClearsCommission(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	router := mountFor(h, 1, auth.RoleAdmin)

	l := createLead(t, db, lead.StatusConverted, nil)
	rate := decimal.NewFromInt(5)
	d := Deal{
		LeadID:           l.ID,
		RevenueAmount:    decimal.NewFromInt(1000),
		Currency:         "AED",
		CommissionRate:   &rate,
		CommissionAmount: ComputeCommission(decimal.NewFromInt(1000), &rate),
		CreatedByID:      1,
	}
	require.NoError(t, h.Repository.Create(db, &d))

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/deals/%d", d.ID), map[string]interface{}{
		"revenueAmount": "2000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	reloaded, err := h.Repository.FindByID(db, d.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CommissionAmount)
	assert.True(t, reloaded.CommissionAmount.Equal(decimal.NewFromInt(100)),
		"got %s", reloaded.CommissionAmount)

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/deals/%d", d.ID), map[string]interface{}{
		"clearCommissionRate": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	reloaded, err = h.Repository.FindByID(db, d.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CommissionRate)
	assert.Nil(t, reloaded.CommissionAmount)
}

func TestAgentReadScope(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)

	agent := user.User{Name: "Agent", Email: "agent@x.com", PasswordHash: "x", Role: "agent", Status: user.StatusActive}
	require.NoError(t, db.Create(&agent).Error)

	mine := createLead(t, db, lead.StatusConverted, &agent.ID)
	other := createLead(t, db, lead.StatusConverted, nil)

	myDeal := Deal{LeadID: mine.ID, RevenueAmount: decimal.NewFromInt(500), Currency: "AED", CreatedByID: 1}
	otherDeal := Deal{LeadID: other.ID, RevenueAmount: decimal.NewFromInt(900), Currency: "USD", CreatedByID: 1}
	require.NoError(t, h.Repository.Create(db, &myDeal))
	require.NoError(t, h.Repository.Create(db, &otherDeal))

	router := mountFor(h, agent.ID, auth.RoleAgent)

	rec := doJSON(t, router, http.MethodGet, "/agent/deals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deals []Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deals))
	require.Len(t, deals, 1)
	assert.Equal(t, myDeal.ID, deals[0].ID)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/deals/%d", myDeal.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/deals/%d", otherDeal.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAgentRevenueGroupsByCurrency(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)

	agent := user.User{Name: "Agent", Email: "agent@x.com", PasswordHash: "x", Role: "agent", Status: user.StatusActive}
	require.NoError(t, db.Create(&agent).Error)

	rate := decimal.NewFromInt(2)
	for i, tc := range []struct {
		revenue  int64
		currency string
	}{
		{1000, "AED"},
		{2000, "AED"},
		{300, "USD"},
	} {
		l := lead.Lead{Name: "L", Email: fmt.Sprintf("l%d@x.com", i), Status: lead.StatusConverted, TrafficSource: "organic", AssignedAgentID: &agent.ID}
		require.NoError(t, db.Create(&l).Error)
		rev := decimal.NewFromInt(tc.revenue)
		d := Deal{
			LeadID:           l.ID,
			RevenueAmount:    rev,
			Currency:         tc.currency,
			CommissionRate:   &rate,
			CommissionAmount: ComputeCommission(rev, &rate),
			CreatedByID:      1,
		}
		require.NoError(t, h.Repository.Create(db, &d))
	}

	router := mountFor(h, agent.ID, auth.RoleAgent)
	rec := doJSON(t, router, http.MethodGet, "/agent/revenue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		DealCount       int                        `json:"dealCount"`
		TotalRevenue    map[string]decimal.Decimal `json:"totalRevenue"`
		TotalCommission map[string]decimal.Decimal `json:"totalCommission"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.DealCount)
	assert.True(t, summary.TotalRevenue["AED"].Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.TotalRevenue["USD"].Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.TotalCommission["AED"].Equal(decimal.NewFromInt(60)))
}

func TestDeleteIsHard(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	router := mountFor(h, 1, auth.RoleAdmin)

	l := createLead(t, db, lead.StatusConverted, nil)
	d := Deal{LeadID: l.ID, RevenueAmount: decimal.NewFromInt(100), Currency: "AED", CreatedByID: 1}
	require.NoError(t, h.Repository.Create(db, &d))

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/deals/%d", d.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Unscoped().Model(&Deal{}).Count(&count).Error)
	assert.Zero(t, count)

	// The slot frees up for a replacement deal on the same lead.
	rec = doJSON(t, router, http.MethodPost, "/deals", map[string]interface{}{
		"leadId":        l.ID,
		"revenueAmount": "150",
		"currency":      "AED",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
