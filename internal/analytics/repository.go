// Package analytics computes read-only rollups over the lead and deal
// stores. Nothing here mutates state.
package analytics

import (
	"github.com/dunecrest/realty-api/internal/deal"
	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/dunecrest/realty-api/internal/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Summary struct {
	TotalLeads     int64            `json:"totalLeads"`
	ByStatus       map[string]int64 `json:"byStatus"`
	ConvertedLeads int64            `json:"convertedLeads"`
	ConversionRate float64          `json:"conversionRate"`
}

type AgentPerformance struct {
	AgentID        uint                       `json:"agentId"`
	AgentName      string                     `json:"agentName"`
	AssignedLeads  int64                      `json:"assignedLeads"`
	ConvertedLeads int64                      `json:"convertedLeads"`
	ConversionRate float64                    `json:"conversionRate"`
	DealCount      int                        `json:"dealCount"`
	Revenue        map[string]decimal.Decimal `json:"revenue"`
}

type MonthlyRevenue struct {
	Month     string                     `json:"month"` // YYYY-MM
	DealCount int                        `json:"dealCount"`
	Revenue   map[string]decimal.Decimal `json:"revenue"`
}

type SourceBreakdown struct {
	TrafficSources map[string]int64 `json:"trafficSources"`
	UTMCampaigns   map[string]int64 `json:"utmCampaigns"`
}

type Repository struct {
	Deals deal.Repository
	Users user.Repository
}

func NewRepository() *Repository {
	return &Repository{
		Deals: deal.NewRepository(),
		Users: user.NewRepository(),
	}
}

type statusCount struct {
	Status string
	Count  int64
}

// leadScope restricts queries to one agent's leads when agentID != 0.
func leadScope(db *gorm.DB, agentID uint) *gorm.DB {
	q := db.Model(&lead.Lead{})
	if agentID != 0 {
		q = q.Where("assigned_agent_id = ?", agentID)
	}
	return q
}

// Summarize counts leads per status and derives the conversion rate.
// agentID 0 means global.
func (r *Repository) Summarize(db *gorm.DB, agentID uint) (*Summary, error) {
	var rows []statusCount
	err := leadScope(db, agentID).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s := &Summary{ByStatus: map[string]int64{}}
	for _, row := range rows {
		s.ByStatus[row.Status] = row.Count
		s.TotalLeads += row.Count
	}
	s.ConvertedLeads = s.ByStatus[lead.StatusConverted]
	if s.TotalLeads > 0 {
		s.ConversionRate = float64(s.ConvertedLeads) / float64(s.TotalLeads) * 100
	}
	return s, nil
}

// AgentPerformance builds the per-agent rollup across every agent account.
func (r *Repository) AgentPerformance(db *gorm.DB) ([]AgentPerformance, error) {
	agents, err := r.Users.ListByRole(db, "agent")
	if err != nil {
		return nil, err
	}

	out := make([]AgentPerformance, 0, len(agents))
	for _, a := range agents {
		summary, err := r.Summarize(db, a.ID)
		if err != nil {
			return nil, err
		}
		deals, err := r.Deals.ListByAgent(db, a.ID)
		if err != nil {
			return nil, err
		}
		revenue := map[string]decimal.Decimal{}
		for _, d := range deals {
			revenue[d.Currency] = revenue[d.Currency].Add(d.RevenueAmount)
		}
		out = append(out, AgentPerformance{
			AgentID:        a.ID,
			AgentName:      a.Name,
			AssignedLeads:  summary.TotalLeads,
			ConvertedLeads: summary.ConvertedLeads,
			ConversionRate: summary.ConversionRate,
			DealCount:      len(deals),
			Revenue:        revenue,
		})
	}
	return out, nil
}

// RevenueByMonth groups deals by closed month. Grouping happens in Go so
// the query stays portable across postgres and the sqlite test driver.
func (r *Repository) RevenueByMonth(db *gorm.DB, agentID uint) ([]MonthlyRevenue, error) {
	var deals []deal.Deal
	var err error
	if agentID != 0 {
		deals, err = r.Deals.ListByAgent(db, agentID)
	} else {
		deals, err = r.Deals.ListAll(db)
	}
	if err != nil {
		return nil, err
	}

	byMonth := map[string]*MonthlyRevenue{}
	order := []string{}
	for _, d := range deals {
		month := d.ClosedDate.Format("2006-01")
		entry, ok := byMonth[month]
		if !ok {
			entry = &MonthlyRevenue{Month: month, Revenue: map[string]decimal.Decimal{}}
			byMonth[month] = entry
			order = append(order, month)
		}
		entry.DealCount++
		entry.Revenue[d.Currency] = entry.Revenue[d.Currency].Add(d.RevenueAmount)
	}

	out := make([]MonthlyRevenue, 0, len(order))
	for _, month := range order {
		out = append(out, *byMonth[month])
	}
	return out, nil
}

// Sources breaks leads down by traffic source and UTM campaign.
func (r *Repository) Sources(db *gorm.DB, agentID uint) (*SourceBreakdown, error) {
	var bySource []struct {
		TrafficSource string
		Count         int64
	}
	err := leadScope(db, agentID).
		Select("traffic_source, count(*) as count").
		Group("traffic_source").
		Scan(&bySource).Error
	if err != nil {
		return nil, err
	}

	var byCampaign []struct {
		UTMCampaign string
		Count       int64
	}
	err = leadScope(db, agentID).
		Select("utm_campaign, count(*) as count").
		Where("utm_campaign <> ''").
		Group("utm_campaign").
		Scan(&byCampaign).Error
	if err != nil {
		return nil, err
	}

	out := &SourceBreakdown{
		TrafficSources: map[string]int64{},
		UTMCampaigns:   map[string]int64{},
	}
	for _, row := range bySource {
		out.TrafficSources[row.TrafficSource] = row.Count
	}
	for _, row := range byCampaign {
		out.UTMCampaigns[row.UTMCampaign] = row.Count
	}
	return out, nil
}
