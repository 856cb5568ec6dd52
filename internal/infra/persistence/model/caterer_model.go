package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CatererModel mirrors the 'caterers' table. The full location document
// and the weekly schedule live in JSONB columns; longitude and latitude
// are duplicated into plain columns so the PostGIS radius query can
// build a geography point without unpacking JSON.
type CatererModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string         `gorm:"type:varchar(100);unique;not null"`
	Description  string         `gorm:"type:text"`
	Manager      string         `gorm:"type:varchar(100)"`
	Email        string         `gorm:"type:varchar(255);unique;not null"`
	Phone        string         `gorm:"type:varchar(50)"`
	Longitude    float64        `gorm:"type:double precision;not null;index:idx_caterers_lng_lat"`
	Latitude     float64        `gorm:"type:double precision;not null;index:idx_caterers_lng_lat"`
	Location     datatypes.JSON `gorm:"type:jsonb;not null"`
	WorkingTimes datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CatererModel) TableName() string {
	return "caterers"
}
