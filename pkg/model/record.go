package model

import (
	"time"

	"github.com/google/uuid"
)

// OrgScoped is the embedded base for every record owned by an org group.
// A nil OrgGroupID means the record is global: readable by everyone, with
// writes gated elsewhere.
type OrgScoped struct {
	OrgGroupID *uuid.UUID `gorm:"type:uuid;index"`
	OrgGroup   *OrgGroup  `gorm:"foreignKey:OrgGroupID"`
	Published  bool       `gorm:"default:false"`
	IsPublic   bool       `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecordRef is the authorization-relevant projection of a record: which group
// scopes it and its visibility flags.
type RecordRef struct {
	OrgGroupID *uuid.UUID
	Published  bool
	Public     bool
}

func (o OrgScoped) Ref() RecordRef {
	return RecordRef{OrgGroupID: o.OrgGroupID, Published: o.Published, Public: o.IsPublic}
}

type Attachment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrgScoped
	Name     string `gorm:"not null"`
	FilePath string `gorm:"not null"`
}

type Site struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrgScoped
	Name    string `gorm:"not null"`
	Summary string
}

// Configuration rows hold site-wide settings such as the display name. They
// are loaded into a settings service explicitly, never read inline from
// authorization or capacity code.
type Configuration struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrgScoped
	Name        string `gorm:"uniqueIndex;not null"`
	Value       string
	Description string
}
