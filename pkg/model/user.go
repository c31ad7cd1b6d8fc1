package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username    string    `gorm:"uniqueIndex;not null"`
	Email       string
	IsSuperuser bool `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
