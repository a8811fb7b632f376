package implementation

import (
	"context"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/mapper"
	"ai-admissions-be/internal/model"
	"ai-admissions-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ContactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContactMapper
}

func NewContactRepository(db *gorm.DB) contract.ContactRepository {
	return &ContactRepositoryImpl{
		db:     db,
		mapper: mapper.NewContactMapper(),
	}
}

func (r *ContactRepositoryImpl) Append(ctx context.Context, record *entity.ContactRecord) error {
	m := r.mapper.ToModel(record)
	m.Id = 0 // assigned by the database sequence
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContactRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contact{}).Count(&count).Error
	return count, err
}
