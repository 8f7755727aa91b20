package deal

import "gorm.io/gorm"

type Repository interface {
	Create(db *gorm.DB, d *Deal) error
	Save(db *gorm.DB, d *Deal) error
	FindByID(db *gorm.DB, id uint) (*Deal, error)
	FindByLeadID(db *gorm.DB, leadID uint) (*Deal, error)
	ListAll(db *gorm.DB) ([]Deal, error)
	ListByAgent(db *gorm.DB, agentID uint) ([]Deal, error)
	Delete(db *gorm.DB, d *Deal) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, d *Deal) error {
	return db.Create(d).Error
}

func (r *repositoryImpl) Save(db *gorm.DB, d *Deal) error {
	return db.Save(d).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Deal, error) {
	var d Deal
	if err := db.Preload("Lead").First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repositoryImpl) FindByLeadID(db *gorm.DB, leadID uint) (*Deal, error) {
	var d Deal
	if err := db.Where("lead_id = ?", leadID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Deal, error) {
	var deals []Deal
	err := db.Preload("Lead").Order("closed_date DESC").Find(&deals).Error
	return deals, err
}

// ListByAgent returns deals whose lead is assigned to the given agent.
func (r *repositoryImpl) ListByAgent(db *gorm.DB, agentID uint) ([]Deal, error) {
	var deals []Deal
	err := db.Preload("Lead").
		Joins("JOIN leads ON leads.id = deals.lead_id").
		Where("leads.assigned_agent_id = ?", agentID).
		Order("deals.closed_date DESC").
		Find(&deals).Error
	return deals, err
}

func (r *repositoryImpl) Delete(db *gorm.DB, d *Deal) error {
	return db.Delete(d).Error
}
