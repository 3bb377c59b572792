package theaters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, theater *Theater) error
	GetByID(ctx context.Context, id uuid.UUID) (*Theater, error)
	GetAllActive(ctx context.Context) ([]Theater, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, theater *Theater) error {
	return r.db.WithContext(ctx).Create(theater).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Theater, error) {
	var theater Theater
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&theater).Error
	if err != nil {
		return nil, err
	}
	return &theater, nil
}

func (r *repository) GetAllActive(ctx context.Context) ([]Theater, error) {
	var theaters []Theater
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&theaters).Error
	return theaters, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Theater{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Theater{}).Where("id = ?", id).Update("is_active", false).Error
}
