package model

import (
	"time"

	"github.com/google/uuid"
)

type Engineer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrgScoped
	EmployeeID string `gorm:"index"`
	Name       string `gorm:"default:'<unnamed>'"`
	UserID     *uuid.UUID
	User       *User `gorm:"foreignKey:UserID"`
	Role       string
	SiteID     *uuid.UUID
	Site       *Site   `gorm:"foreignKey:SiteID"`
	Points     float64 `gorm:"default:0"`
}

// DisplayName prefers the linked account's username over the engineer record
// name, matching how reports label people.
func (e *Engineer) DisplayName() string {
	if e.User != nil && e.User.Username != "" {
		return e.User.Username
	}
	return e.Name
}

// EngineerOrgGroupParticipation associates an engineer with an org group at a
// fractional capacity weight. The org group of the participation is the group
// participated in. Deleted with its engineer, detached when the group goes.
type EngineerOrgGroupParticipation struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrgScoped
	EngineerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Engineer   *Engineer `gorm:"foreignKey:EngineerID;constraint:OnDelete:CASCADE"`
	Role       string
	Capacity   float64 `gorm:"default:1.0"`
}

type SiteHoliday struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Date      time.Time `gorm:"type:date;not null;index"`
	Summary   string
	SiteID    *uuid.UUID
	Site      *Site `gorm:"foreignKey:SiteID"`
	Published bool  `gorm:"default:false"`
	IsPublic  bool  `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveStatus string

const (
	LeaveDraft    LeaveStatus = "DRAFT"
	LeaveInReview LeaveStatus = "IN_REVIEW"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveClosed   LeaveStatus = "CLOSED"
)

// Leave is a closed date interval during which an engineer is unavailable.
// Both endpoints are inclusive.
type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EngineerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Engineer   *Engineer `gorm:"foreignKey:EngineerID;constraint:OnDelete:CASCADE"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`
	Summary    string
	Status     LeaveStatus `gorm:"type:varchar(9);default:'DRAFT'"`
	Published  bool        `gorm:"default:false"`
	IsPublic   bool        `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
