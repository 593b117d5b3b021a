package mapper

import (
	"car-support-be/internal/entity"
	"car-support-be/internal/model"
)

type VehicleListingMapper struct{}

func NewVehicleListingMapper() *VehicleListingMapper {
	return &VehicleListingMapper{}
}

func (m *VehicleListingMapper) ToEntity(v *model.VehicleListing) *entity.VehicleListing {
	if v == nil {
		return nil
	}

	e := &entity.VehicleListing{
		Id:           v.Id,
		Brand:        v.Brand,
		Model:        v.Model,
		Year:         v.Year,
		PriceWan:     v.PriceWan,
		MileageKm:    v.MileageKm,
		Transmission: v.Transmission,
		FuelType:     v.FuelType,
		Seats:        v.Seats,
		Color:        v.Color,
		Description:  v.Description,
		Available:    v.Available,
		CreatedAt:    v.CreatedAt,
	}
	if !v.UpdatedAt.IsZero() {
		t := v.UpdatedAt
		e.UpdatedAt = &t
	}
	return e
}

func (m *VehicleListingMapper) ToModel(e *entity.VehicleListing) *model.VehicleListing {
	if e == nil {
		return nil
	}

	v := &model.VehicleListing{
		Id:           e.Id,
		Brand:        e.Brand,
		Model:        e.Model,
		Year:         e.Year,
		PriceWan:     e.PriceWan,
		MileageKm:    e.MileageKm,
		Transmission: e.Transmission,
		FuelType:     e.FuelType,
		Seats:        e.Seats,
		Color:        e.Color,
		Description:  e.Description,
		Available:    e.Available,
		CreatedAt:    e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		v.UpdatedAt = *e.UpdatedAt
	}
	return v
}

func (m *VehicleListingMapper) ToEntities(models []*model.VehicleListing) []*entity.VehicleListing {
	entities := make([]*entity.VehicleListing, len(models))
	for i, v := range models {
		entities[i] = m.ToEntity(v)
	}
	return entities
}
