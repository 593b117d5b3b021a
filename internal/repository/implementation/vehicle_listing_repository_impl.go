package implementation

import (
	"context"
	"errors"

	"car-support-be/internal/entity"
	"car-support-be/internal/mapper"
	"car-support-be/internal/model"
	"car-support-be/internal/repository/contract"
	"car-support-be/internal/repository/scope"
	"car-support-be/internal/repository/specification"

	"gorm.io/gorm"
)

type VehicleListingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VehicleListingMapper
}

func NewVehicleListingRepository(db *gorm.DB) contract.VehicleListingRepository {
	return &VehicleListingRepositoryImpl{
		db:     db,
		mapper: mapper.NewVehicleListingMapper(),
	}
}

func (r *VehicleListingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VehicleListingRepositoryImpl) Create(ctx context.Context, listing *entity.VehicleListing) error {
	m := r.mapper.ToModel(listing)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*listing = *r.mapper.ToEntity(m)
	return nil
}

func (r *VehicleListingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VehicleListing, error) {
	var m model.VehicleListing
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VehicleListingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VehicleListing, error) {
	var models []*model.VehicleListing
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *VehicleListingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.VehicleListing{}).Count(&count).Error
	return count, err
}

func (r *VehicleListingRepositoryImpl) SearchKeywords(ctx context.Context, keywords []string, limit int) ([]*entity.VehicleListing, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	// Any keyword hitting any text column qualifies a row; ranking is left
	// to recency since ILIKE carries no useful score. Numeric columns are
	// rendered into the forms customers type ("7人座", "2021年", "85萬") so
	// a seat or year query matches without relying on the description.
	query := r.db.WithContext(ctx).Where("available = ?", true)

	orClause := r.db
	for _, kw := range keywords {
		pattern := "%" + kw + "%"
		orClause = orClause.Or(
			r.db.Where("brand ILIKE ?", pattern).
				Or("model ILIKE ?", pattern).
				Or("color ILIKE ?", pattern).
				Or("fuel_type ILIKE ?", pattern).
				Or("description ILIKE ?", pattern).
				Or("(seats::text || '人座') ILIKE ?", pattern).
				Or("(year::text || '年') ILIKE ?", pattern).
				Or("(price_wan::text || '萬') ILIKE ?", pattern).
				Or("(mileage_km::text || '公里') ILIKE ?", pattern),
		)
	}
	query = query.Where(orClause)

	var models []*model.VehicleListing
	if err := query.Scopes(scope.OrderByCreatedDesc).Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
