package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DishModel mirrors the 'dishes' table. CatererEmbed is the
// denormalized caterer summary shown in listings; it follows the live
// caterer row, unlike the frozen copy inside order snapshots.
type DishModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name            string         `gorm:"type:varchar(150);not null"`
	Description     string         `gorm:"type:text"`
	Type            string         `gorm:"type:varchar(30);not null;index"`
	Price           int            `gorm:"not null;check:price > 0"`
	CookingTime     int            `gorm:"not null;default:0"`
	DifficultyLevel int            `gorm:"not null;default:0"`
	CatererID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	CatererEmbed    datatypes.JSON `gorm:"type:jsonb;not null"`
	Ingredients     datatypes.JSON `gorm:"type:jsonb"`
	NutritionFacts  datatypes.JSON `gorm:"type:jsonb"`
	VideoURL        string         `gorm:"type:varchar(500)"`
	ImageAfterURL   string         `gorm:"type:varchar(500)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (DishModel) TableName() string {
	return "dishes"
}
