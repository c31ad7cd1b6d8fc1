package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/authz"
	"github.com/utpad/utpad/pkg/model"
)

type EngineerRepository struct {
	db *gorm.DB
}

func NewEngineerRepository(db *gorm.DB) *EngineerRepository {
	return &EngineerRepository{db: db}
}

func (r *EngineerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Engineer, error) {
	var engineer model.Engineer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Site").
		First(&engineer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &engineer, nil
}

func (r *EngineerRepository) List(ctx context.Context, scope authz.Scope) ([]model.Engineer, error) {
	var engineers []model.Engineer
	query := r.db.WithContext(ctx).Model(&model.Engineer{}).Preload("User")
	err := applyScope(query, scope, "org_group_id").
		Order("name").
		Find(&engineers).Error
	return engineers, err
}

func (r *EngineerRepository) Create(ctx context.Context, engineer *model.Engineer) error {
	return r.db.WithContext(ctx).Create(engineer).Error
}

func (r *EngineerRepository) Update(ctx context.Context, engineer *model.Engineer) error {
	return r.db.WithContext(ctx).Save(engineer).Error
}

// Delete cascades to the engineer's participations and leaves.
func (r *EngineerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.EngineerOrgGroupParticipation{}, "engineer_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Leave{}, "engineer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Engineer{}, "id = ?", id).Error
	})
}

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) List(ctx context.Context, scope authz.Scope) ([]model.Site, error) {
	var sites []model.Site
	query := r.db.WithContext(ctx).Model(&model.Site{})
	err := applyScope(query, scope, "org_group_id").
		Order("name").
		Find(&sites).Error
	return sites, err
}

func (r *SiteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) Update(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

func (r *SiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Site{}, "id = ?", id).Error
}

type ParticipationRepository struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EngineerOrgGroupParticipation, error) {
	var participation model.EngineerOrgGroupParticipation
	err := r.db.WithContext(ctx).
		Preload("Engineer").
		Preload("OrgGroup").
		First(&participation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

func (r *ParticipationRepository) List(ctx context.Context, scope authz.Scope) ([]model.EngineerOrgGroupParticipation, error) {
	var participations []model.EngineerOrgGroupParticipation
	query := r.db.WithContext(ctx).Model(&model.EngineerOrgGroupParticipation{}).Preload("Engineer")
	err := applyScope(query, scope, "org_group_id").
		Order("created_at").
		Find(&participations).Error
	return participations, err
}

func (r *ParticipationRepository) Create(ctx context.Context, participation *model.EngineerOrgGroupParticipation) error {
	return r.db.WithContext(ctx).Create(participation).Error
}

func (r *ParticipationRepository) Update(ctx context.Context, participation *model.EngineerOrgGroupParticipation) error {
	return r.db.WithContext(ctx).Save(participation).Error
}

func (r *ParticipationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.EngineerOrgGroupParticipation{}, "id = ?", id).Error
}

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Leave, error) {
	var leave model.Leave
	err := r.db.WithContext(ctx).
		Preload("Engineer").
		First(&leave, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

// List returns all leaves with engineers preloaded; visibility is decided
// per record by the caller since leaves delegate authorization to their
// engineer, not to a group column of their own.
func (r *LeaveRepository) List(ctx context.Context) ([]model.Leave, error) {
	var leaves []model.Leave
	err := r.db.WithContext(ctx).
		Preload("Engineer").
		Order("start_date").
		Find(&leaves).Error
	return leaves, err
}

func (r *LeaveRepository) Create(ctx context.Context, leave *model.Leave) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *LeaveRepository) Update(ctx context.Context, leave *model.Leave) error {
	return r.db.WithContext(ctx).Save(leave).Error
}

func (r *LeaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Leave{}, "id = ?", id).Error
}

type SiteHolidayRepository struct {
	db *gorm.DB
}

func NewSiteHolidayRepository(db *gorm.DB) *SiteHolidayRepository {
	return &SiteHolidayRepository{db: db}
}

func (r *SiteHolidayRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SiteHoliday, error) {
	var holiday model.SiteHoliday
	err := r.db.WithContext(ctx).
		Preload("Site").
		First(&holiday, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &holiday, nil
}

func (r *SiteHolidayRepository) List(ctx context.Context) ([]model.SiteHoliday, error) {
	var holidays []model.SiteHoliday
	err := r.db.WithContext(ctx).
		Preload("Site").
		Order("date").
		Find(&holidays).Error
	return holidays, err
}

func (r *SiteHolidayRepository) Create(ctx context.Context, holiday *model.SiteHoliday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *SiteHolidayRepository) Update(ctx context.Context, holiday *model.SiteHoliday) error {
	return r.db.WithContext(ctx).Save(holiday).Error
}

func (r *SiteHolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SiteHoliday{}, "id = ?", id).Error
}

type ConfigurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

func (r *ConfigurationRepository) GetByName(ctx context.Context, name string) (*model.Configuration, error) {
	var conf model.Configuration
	if err := r.db.WithContext(ctx).First(&conf, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &conf, nil
}
