package lead

import "gorm.io/gorm"

// Filters narrows a lead listing. Zero values mean "no filter".
type Filters struct {
	Status        string
	AgentID       uint
	TrafficSource string
	UTMCampaign   string
	SourcePage    string // substring match
	Search        string // free text over name/email/phone
	AssignedTo    *uint  // hard scope for agent queries
}

type Repository interface {
	Save(db *gorm.DB, l *Lead) error
	FindByID(db *gorm.DB, id uint) (*Lead, error)
	List(db *gorm.DB, f Filters) ([]Lead, error)
	Delete(db *gorm.DB, l *Lead) error
	AddNote(db *gorm.DB, n *Note) error
	ListNotes(db *gorm.DB, leadID uint) ([]Note, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, l *Lead) error {
	return db.Save(l).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Lead, error) {
	var l Lead
	err := db.
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repositoryImpl) List(db *gorm.DB, f Filters) ([]Lead, error) {
	q := db.Model(&Lead{})
	if f.AssignedTo != nil {
		q = q.Where("assigned_agent_id = ?", *f.AssignedTo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AgentID != 0 {
		q = q.Where("assigned_agent_id = ?", f.AgentID)
	}
	if f.TrafficSource != "" {
		q = q.Where("traffic_source = ?", f.TrafficSource)
	}
	if f.UTMCampaign != "" {
		q = q.Where("utm_campaign = ?", f.UTMCampaign)
	}
	if f.SourcePage != "" {
		q = q.Where("source_page LIKE ?", "%"+f.SourcePage+"%")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	var leads []Lead
	err := q.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *repositoryImpl) Delete(db *gorm.DB, l *Lead) error {
	return db.Delete(l).Error
}

func (r *repositoryImpl) AddNote(db *gorm.DB, n *Note) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) ListNotes(db *gorm.DB, leadID uint) ([]Note, error) {
	var notes []Note
	err := db.Where("lead_id = ?", leadID).Order("created_at, id").Find(&notes).Error
	return notes, err
}
