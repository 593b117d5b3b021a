package contract

import (
	"context"

	"car-support-be/internal/entity"
	"car-support-be/internal/repository/specification"
)

type VehicleListingRepository interface {
	Create(ctx context.Context, listing *entity.VehicleListing) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VehicleListing, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VehicleListing, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchKeywords matches available listings where any keyword appears in
	// the brand, model, color, fuel type or description columns.
	SearchKeywords(ctx context.Context, keywords []string, limit int) ([]*entity.VehicleListing, error)
}
