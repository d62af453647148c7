package repository

import (
	"context"
	"errors"

	"github.com/lshigami/uteach/internal/model"
	"gorm.io/gorm"
)

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *model.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) FindOwned(ctx context.Context, id, owner string) (*model.Material, error) {
	var material model.Material
	err := r.db.WithContext(ctx).Where("id = ? AND owner = ?", id, owner).First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}
