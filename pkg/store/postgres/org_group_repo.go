package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/authz"
	"github.com/utpad/utpad/pkg/model"
)

type OrgGroupRepository struct {
	db *gorm.DB
}

func NewOrgGroupRepository(db *gorm.DB) *OrgGroupRepository {
	return &OrgGroupRepository{db: db}
}

func (r *OrgGroupRepository) withRoleSets(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Leaders").
		Preload("Members").
		Preload("Guests").
		Preload("Consumers")
}

// All loads every group with its role sets, the snapshot the authorization
// catalog is built from.
func (r *OrgGroupRepository) All(ctx context.Context) ([]model.OrgGroup, error) {
	var groups []model.OrgGroup
	err := r.withRoleSets(r.db.WithContext(ctx)).
		Order("created_at").
		Find(&groups).Error
	return groups, err
}

func (r *OrgGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrgGroup, error) {
	var group model.OrgGroup
	err := r.withRoleSets(r.db.WithContext(ctx)).
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *OrgGroupRepository) List(ctx context.Context, scope authz.Scope) ([]model.OrgGroup, error) {
	var groups []model.OrgGroup
	query := r.db.WithContext(ctx).Model(&model.OrgGroup{})
	err := applyScope(query, scope, "id").
		Order("name").
		Find(&groups).Error
	return groups, err
}

func (r *OrgGroupRepository) Create(ctx context.Context, group *model.OrgGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *OrgGroupRepository) Update(ctx context.Context, group *model.OrgGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes a group with the orphan-to-root policy: children lose their
// parent, group-scoped records and participations are detached rather than
// cascaded.
func (r *OrgGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OrgGroup{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		for _, scoped := range []interface{}{
			&model.Engineer{},
			&model.EngineerOrgGroupParticipation{},
			&model.Site{},
			&model.Attachment{},
			&model.Configuration{},
		} {
			if err := tx.Model(scoped).
				Where("org_group_id = ?", id).
				Update("org_group_id", nil).Error; err != nil {
				return err
			}
		}
		group := model.OrgGroup{ID: id}
		for _, association := range []string{"Leaders", "Members", "Guests", "Consumers"} {
			if err := tx.Model(&group).Association(association).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(&model.OrgGroup{}, "id = ?", id).Error
	})
}
