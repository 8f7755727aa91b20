package analytics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dunecrest/realty-api/internal/deal"
	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/dunecrest/realty-api/internal/user"
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
	require.NoError(t, db.AutoMigrate(&user.User{}, &lead.Lead{}, &lead.Note{}, &deal.Deal{}))
	return db
}

func seedLead(t *testing.T, db *gorm.DB, status, source, campaign string, agentID *uint) *lead.Lead {
	t.Helper()
	l := lead.Lead{
		Name:            "L",
		Email:           "l@x.com",
		Status:          status,
		TrafficSource:   source,
		UTMCampaign:     campaign,
		AssignedAgentID: agentID,
	}
	require.NoError(t, db.Create(&l).Error)
	return &l
}

func seedDeal(t *testing.T, db *gorm.DB, leadID uint, revenue int64, currency, closed string) {
	t.Helper()
	day, err := time.Parse("2006-01-02", closed)
	require.NoError(t, err)
	d := deal.Deal{
		LeadID:        leadID,
		RevenueAmount: decimal.NewFromInt(revenue),
		Currency:      currency,
		ClosedDate:    day,
		CreatedByID:   1,
	}
	require.NoError(t, db.Create(&d).Error)
}

func TestSummarizeConversionRate(t *testing.T) {
	db := setupDB(t)
	r := NewRepository()

	seedLead(t, db, lead.StatusNew, "organic", "", nil)
	seedLead(t, db, lead.StatusContacted, "organic", "", nil)
	seedLead(t, db, lead.StatusConverted, "google", "", nil)
	seedLead(t, db, lead.StatusClosedLost, "google", "", nil)

	s, err := r.Summarize(db, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.TotalLeads)
	assert.Equal(t, int64(1), s.ConvertedLeads)
	assert.InDelta(t, 25.0, s.ConversionRate, 0.001)
	assert.Equal(t, int64(1), s.ByStatus[lead.StatusNew])
}

func TestSummarizeEmptyIsZeroNotNaN(t *testing.T) {
	db := setupDB(t)
	r := NewRepository()

	s, err := r.Summarize(db, 0)
	require.NoError(t, err)
	assert.Zero(t, s.TotalLeads)
	assert.Zero(t, s.ConversionRate)
}

func TestSummarizeScopesToAgent(t *testing.T) {
	db := setupDB(t)
	r := NewRepository()

	agent := user.User{Name: "A", Email: "a@x.com", PasswordHash: "x", Role: "agent", Status: user.StatusActive}
	require.NoError(t, db.Create(&agent).Error)

	seedLead(t, db, lead.StatusConverted, "organic", "", &agent.ID)
	seedLead(t, db, lead.StatusNew, "organic", "", nil)

	s, err := r.Summarize(db, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.TotalLeads)
	assert.InDelta(t, 100.0, s.ConversionRate, 0.001)
}

func TestAgentPerformance(t *testing.T) {
	db := setupDB(t)
	r := NewRepository()

	closer := user.User{Name: "Closer", Email: "c@x.com", PasswordHash: "x", Role: "agent", Status: user.StatusActive}
	idle := user.User{Name: "Idle", Email: "i@x.com", PasswordHash: "x", Role: "agent", Status: user.StatusActive}
	require.NoError(t, db.Create(&closer).Error)
	require.NoError(t, db.Create(&idle).Error)

	won := seedLead(t, db, lead.StatusConverted, "organic", "", &closer.ID)
	seedLead(t, db, lead.StatusContacted, "organic", "", &closer.ID)
	seedDeal(t, db, won.ID, 5000, "AED", "2026-02-10")

	perf, err := r.AgentPerformance(db)
	require.NoError(t, err)
	require.Len(t, perf, 2)

	byName := map[string]AgentPerformance{}
	for _, p := range perf {
		byName[p.AgentName] = p
	}
	assert.Equal(t, int64(2), byName["Closer"].AssignedLeads)
	assert.Equal(t, int64(1), byName["Closer"].ConvertedLeads)
	assert.Equal(t, 1, byName["Closer"].DealCount)
	assert.True(t, byName["Closer"].Revenue["AED"].Equal(decimal.NewFromInt(5000)))
	assert.Zero(t, byName["Idle"].AssignedLeads)
	assert.Zero(t, byName["Idle"].DealCount)
}

func TestRevenueByMonth(t *testing.T) {
	db := setupDB(t)
	r := NewRepository()

	l1 := seedLead(t, db, lead.StatusConverted, "organic", "", nil)
	l2 := seedLead(t, db, lead.StatusConverted, "organic", "", nil)
	l3 := seedLead(t, db, lead.StatusConverted, "organic", "", nil)
	seedDeal(t, db, l1.ID, 1000, "AED", "2026-01-05")
	seedDeal(t, db, l2.ID, 2000, "AED", "2026-01-20")
	seedDeal(t, db, l3.ID, 700, "USD", "2026-02-01")

	months, err := r.RevenueByMonth(db, 0)
	require.NoError(t, err)
	require.Len(t, months, 2)

	byMonth := map[string]MonthlyRevenue{}
	for _, m := range months {
		byMonth[m.Month] = m
	}
	jan := byMonth["2026-01"]
	assert.Equal(t, 2, jan.DealCount)
	assert.True(t, jan.Revenue["AED"].Equal(decimal.NewFromInt(3000)))
	feb := byMonth["2026-02"]
	assert.Equal(t, 1, feb.DealCount)
	assert.True(t, feb.Revenue["USD"].Equal(decimal.NewFromInt(700)))
}

func TestSourcesSkipsEmptyCampaign(t *testing.T) {
	db := setupDB(t)
	r := NewRepository()

	seedLead(t, db, lead.StatusNew, "organic", "", nil)
	seedLead(t, db, lead.StatusNew, "google", "spring", nil)
	seedLead(t, db, lead.StatusNew, "google", "spring", nil)

	out, err := r.Sources(db, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.TrafficSources["organic"])
	assert.Equal(t, int64(2), out.TrafficSources["google"])
	assert.Equal(t, int64(2), out.UTMCampaigns["spring"])
	assert.Len(t, out.UTMCampaigns, 1, "blank campaigns stay out of the breakdown")
}
