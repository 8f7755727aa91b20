// Package lead implements the inquiry pipeline: capture, assignment, the
// status state machine and the append-only note history.
package lead

import (
	"time"

	"gorm.io/gorm"
)

// Lead lifecycle statuses.
const (
	StatusNew        = "new"
	StatusContacted  = "contacted"
	StatusInProgress = "in_progress"
	StatusConverted  = "converted"
	StatusClosedLost = "closed_lost"
)

// DefaultTrafficSource is applied when a public submission carries none.
const DefaultTrafficSource = "organic"

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusInProgress, StatusConverted, StatusClosedLost:
		return true
	}
	return false
}

// agentTransitions is the fixed table of agent-allowed moves. Admins are
// not bound by it. Converted and closed_lost never appear as targets:
// closing a lead either way is an admin decision.
var agentTransitions = map[string][]string{
	StatusNew:        {StatusNew, StatusContacted},
	StatusContacted:  {StatusContacted, StatusInProgress},
	StatusInProgress: {StatusInProgress},
}

// AgentCanTransition reports whether an agent may move a lead from one
// status to another.
func AgentCanTransition(from, to string) bool {
	if to == StatusConverted || to == StatusClosedLost {
		return false
	}
	for _, allowed := range agentTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// Lead is an inbound inquiry tracked through the status lifecycle.
type Lead struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"not null" json:"email"`
	Phone string `json:"phone"`

	SourcePage    string `json:"sourcePage"`
	TrafficSource string `gorm:"not null;default:'organic';index" json:"trafficSource"`
	UTMSource     string `json:"utmSource"`
	UTMMedium     string `json:"utmMedium"`
	UTMCampaign   string `gorm:"index" json:"utmCampaign"`

	Status string `gorm:"size:20;not null;default:'new';index" json:"status"`

	// Nullable on purpose: an unassigned lead sits in the pool, and
	// deleting an agent releases their leads instead of cascading.
	AssignedAgentID *uint `gorm:"index" json:"assignedAgentId"`

	Notes []Note `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"internalNotes,omitempty"`
}

// Note is one entry of a lead's append-only history: a manual annotation
// or a system record of a status change. UserID nil means the system wrote
// it. Ordering is (created_at, id) so same-instant writes stay stable.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	LeadID uint   `gorm:"not null;index" json:"leadId"`
	UserID *uint  `json:"userId"`
	Note   string `gorm:"not null" json:"note"`
}

func (Note) TableName() string { return "lead_notes" }
