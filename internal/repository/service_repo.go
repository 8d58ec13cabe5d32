package repository

import (
	"context"

	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, s *model.BarberService) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BarberService, error)
	List(ctx context.Context) ([]model.BarberService, error)
	Update(ctx context.Context, s *model.BarberService) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type serviceRepo struct{ db *gorm.DB }

func NewServiceRepository(db *gorm.DB) ServiceRepository { return &serviceRepo{db: db} }

func (r *serviceRepo) Create(ctx context.Context, s *model.BarberService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *serviceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BarberService, error) {
	var s model.BarberService
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *serviceRepo) List(ctx context.Context) ([]model.BarberService, error) {
	var services []model.BarberService
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&services).Error
	return services, err
}

func (r *serviceRepo) Update(ctx context.Context, s *model.BarberService) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *serviceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.BarberService{}).Where("id = ?", id).
		Update("active", false).Error
}
