package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/model"
)

// CapacityStore backs the capacity engine with the participation, leave and
// holiday queries it needs.
type CapacityStore struct {
	db *gorm.DB
}

func NewCapacityStore(db *gorm.DB) *CapacityStore {
	return &CapacityStore{db: db}
}

func (s *CapacityStore) ParticipationsByGroup(ctx context.Context, groupID uuid.UUID) ([]model.EngineerOrgGroupParticipation, error) {
	var participations []model.EngineerOrgGroupParticipation
	err := s.db.WithContext(ctx).
		Preload("Engineer").
		Preload("Engineer.User").
		Where("org_group_id = ?", groupID).
		Order("created_at").
		Find(&participations).Error
	return participations, err
}

func (s *CapacityStore) ParticipationsByEngineer(ctx context.Context, engineerID uuid.UUID) ([]model.EngineerOrgGroupParticipation, error) {
	var participations []model.EngineerOrgGroupParticipation
	err := s.db.WithContext(ctx).
		Preload("OrgGroup").
		Where("engineer_id = ?", engineerID).
		Order("created_at").
		Find(&participations).Error
	return participations, err
}

// LeavesWithin selects leaves fully contained in [from, to]: both endpoints
// inside the window. Status is not filtered.
func (s *CapacityStore) LeavesWithin(ctx context.Context, engineerID uuid.UUID, from, to time.Time) ([]model.Leave, error) {
	var leaves []model.Leave
	err := s.db.WithContext(ctx).
		Where("engineer_id = ?", engineerID).
		Where("start_date >= ? AND start_date <= ?", from, to).
		Where("end_date >= ? AND end_date <= ?", from, to).
		Order("start_date").
		Find(&leaves).Error
	return leaves, err
}

func (s *CapacityStore) HolidaysForSite(ctx context.Context, siteID uuid.UUID, from, to time.Time) ([]model.SiteHoliday, error) {
	var holidays []model.SiteHoliday
	err := s.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Where("date >= ? AND date <= ?", from, to).
		Order("date").
		Find(&holidays).Error
	return holidays, err
}
