package implementation

import (
	"context"

	"car-support-be/internal/entity"
	"car-support-be/internal/mapper"
	"car-support-be/internal/model"
	"car-support-be/internal/repository/contract"
	"car-support-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatLogMapper
}

func NewChatLogRepository(db *gorm.DB) contract.ChatLogRepository {
	return &ChatLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatLogMapper(),
	}
}

func (r *ChatLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatLogRepositoryImpl) Create(ctx context.Context, log *entity.ChatLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatLog, error) {
	var models []*model.ChatLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatLog{}).Count(&count).Error
	return count, err
}
