package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleListing struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Brand        string         `gorm:"type:varchar(64);index"`
	Model        string         `gorm:"type:varchar(128);index"`
	Year         int            `gorm:"index"`
	PriceWan     int            // 售價，單位：萬元
	MileageKm    int            // 里程，單位：公里
	Transmission string         `gorm:"type:varchar(32)"`
	FuelType     string         `gorm:"type:varchar(32)"`
	Seats        int            `gorm:"default:5"`
	Color        string         `gorm:"type:varchar(32)"`
	Description  string         `gorm:"type:text"`
	Available    bool           `gorm:"default:true;index"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (VehicleListing) TableName() string {
	return "vehicle_listings"
}
