package model

import (
	"time"

	"github.com/google/uuid"
)

// OrgGroup is a node in the organization forest. Role sets grant access to the
// group and, through parent links, to every descendant group and every record
// scoped to one. The parent link is SET NULL on delete: removing a group
// orphans its children to the root rather than cascading.
type OrgGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Summary     string
	Description string
	ParentID    *uuid.UUID `gorm:"type:uuid"`
	Parent      *OrgGroup  `gorm:"foreignKey:ParentID"`
	Children    []OrgGroup `gorm:"foreignKey:ParentID"`
	Leaders     []User     `gorm:"many2many:org_group_leaders"`
	Members     []User     `gorm:"many2many:org_group_members"`
	Guests      []User     `gorm:"many2many:org_group_guests"`
	Consumers   []User     `gorm:"many2many:org_group_consumers"`
	Published   bool       `gorm:"default:false"`
	IsPublic    bool       `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ref treats the group as a record scoped to itself, so the same access
// resolver serves both group-scoped records and groups.
func (g *OrgGroup) Ref() RecordRef {
	id := g.ID
	return RecordRef{OrgGroupID: &id, Published: g.Published, Public: g.IsPublic}
}
