package entity

import (
	"time"

	"github.com/google/uuid"
)

type VehicleListing struct {
	Id           uuid.UUID
	Brand        string
	Model        string
	Year         int
	PriceWan     int
	MileageKm    int
	Transmission string
	FuelType     string
	Seats        int
	Color        string
	Description  string
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
